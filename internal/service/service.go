// Package service exposes every operation of the tracker. Each write runs
// in a single transaction, is checked against the caller's role and drops
// the cache entries it touches.
package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/emilianohg/sitetrack/internal/access"
	"github.com/emilianohg/sitetrack/internal/cache"
	"github.com/emilianohg/sitetrack/internal/logger"
	"github.com/emilianohg/sitetrack/internal/models"
	"github.com/emilianohg/sitetrack/internal/repository"
	"github.com/emilianohg/sitetrack/internal/session"
	"github.com/emilianohg/sitetrack/internal/storage"
)

const allCompaniesKey = "all"

type Tracker struct {
	db       *sql.DB
	read     stores
	photos   *storage.PhotoStore
	logger   *zap.Logger
	validate *validator.Validate
	now      func() time.Time

	companies    *cache.Store[int64, models.Company]
	companyList  *cache.Store[string, []models.Company]
	employees    *cache.Store[int64, models.Employee]
	projectCache *cache.Store[int64, models.Project]
}

type Option func(*settings)

type settings struct {
	now          func() time.Time
	cacheEnabled bool
}

// WithClock replaces time.Now, which decides "today" for due dates and
// completion dates.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		s.now = now
	}
}

func WithCache(enabled bool) Option {
	return func(s *settings) {
		s.cacheEnabled = enabled
	}
}

// New builds a Tracker. photos may be nil, in which case AttachPhoto fails.
func New(db *sql.DB, photos *storage.PhotoStore, log *zap.Logger, opts ...Option) *Tracker {
	s := settings{now: time.Now, cacheEnabled: true}
	for _, opt := range opts {
		opt(&s)
	}
	if log == nil {
		log = zap.NewNop()
	}

	cacheOpts := []cache.Option{cache.WithEnabled(s.cacheEnabled), cache.WithLogger(log)}
	return &Tracker{
		db:           db,
		read:         newStores(db),
		photos:       photos,
		logger:       log,
		validate:     validator.New(),
		now:          s.now,
		companies:    cache.New[int64, models.Company]("companies", cacheOpts...),
		companyList:  cache.New[string, []models.Company]("company_list", cacheOpts...),
		employees:    cache.New[int64, models.Employee]("employees", cacheOpts...),
		projectCache: cache.New[int64, models.Project]("projects", cacheOpts...),
	}
}

// Today is the current date as seen by the tracker.
func (t *Tracker) Today() time.Time {
	return t.now()
}

type stores struct {
	companies       *repository.CompanyRepo
	representatives *repository.RepresentativeRepo
	employees       *repository.EmployeeRepo
	projects        *repository.ProjectRepo
	tasks           *repository.TaskRepo
}

func newStores(q repository.Querier) stores {
	return stores{
		companies:       repository.NewCompanyRepo(q),
		representatives: repository.NewRepresentativeRepo(q),
		employees:       repository.NewEmployeeRepo(q),
		projects:        repository.NewProjectRepo(q),
		tasks:           repository.NewTaskRepo(q),
	}
}

// inTx runs fn in one transaction. Nothing is committed if fn fails.
func (t *Tracker) inTx(fn func(s stores) error) error {
	tx, err := t.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(newStores(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			t.logger.Error("rollback failed", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (t *Tracker) authorize(sess *session.Session, action access.Action) error {
	if sess == nil {
		return ErrUnauthorized
	}
	if err := sess.Viewer().Check(action); err != nil {
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	return nil
}

func (t *Tracker) log(sess *session.Session) *zap.Logger {
	if sess == nil {
		return t.logger
	}
	return logger.WithUser(t.logger, sess.EmployeeID, string(sess.Role))
}

var validationMessages = map[string]string{
	"required": "is required",
	"max":      "is too long",
	"gte":      "must not be negative",
	"gt":       "must be greater than zero",
	"oneof":    "must be one of the allowed values",
}

func (t *Tracker) check(input any) error {
	err := t.validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := validationMessages[fe.Tag()]
		if !ok {
			msg = "failed " + fe.Tag()
		}
		msgs = append(msgs, fe.Field()+" "+msg)
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}
