package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/emilianohg/sitetrack/internal/config"
)

// New builds a logger writing to path. The terminal belongs to the TUI, so
// logs never go to stdout.
func New(cfg *config.Config, path string) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.LogFormat == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	zapCfg.OutputPaths = []string{path}
	zapCfg.ErrorOutputPaths = []string{path}
	zapCfg.InitialFields = map[string]interface{}{
		"app": "sitetrack",
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return logger, nil
}

// WithUser adds the acting employee to logger
func WithUser(logger *zap.Logger, employeeID int64, role string) *zap.Logger {
	return logger.With(
		zap.Int64("employee_id", employeeID),
		zap.String("role", role),
	)
}
