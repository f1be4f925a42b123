package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/emilianohg/sitetrack/internal/config"
	"github.com/emilianohg/sitetrack/internal/db"
	"github.com/emilianohg/sitetrack/internal/logger"
	"github.com/emilianohg/sitetrack/internal/service"
	"github.com/emilianohg/sitetrack/internal/storage"
	"github.com/emilianohg/sitetrack/internal/tui"
)

type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	tracker *service.Tracker
}

// setup loads config, opens and migrates the database and builds the
// tracker. Callers must call close.
func setup() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logPath, err := config.LogPath()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg, logPath)
	if err != nil {
		return nil, err
	}

	database, err := db.OpenAndMigrate()
	if err != nil {
		log.Error("failed to open database", zap.Error(err))
		return nil, fmt.Errorf("opening database: %w", err)
	}

	root, dir, err := cfg.PhotosRoot()
	if err != nil {
		return nil, err
	}
	photos, err := storage.NewPhotoStore(root, dir)
	if err != nil {
		return nil, err
	}

	tracker := service.New(database, photos, log, service.WithCache(cfg.CacheEnabled))
	return &env{cfg: cfg, logger: log, tracker: tracker}, nil
}

func (e *env) close() {
	_ = e.logger.Sync()
	_ = db.Close()
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

var rootCmd = &cobra.Command{
	Use:   "sitetrack",
	Short: "Project and task tracker for site and management staff",
	Long:  `Sitetrack tracks client companies, their projects and the weighted tasks that make up each project's progress.`,
	Run: func(cmd *cobra.Command, args []string) {
		e, err := setup()
		if err != nil {
			fail("Error: %v", err)
		}
		defer e.close()

		// First start: make sure someone can log in.
		if _, err := e.tracker.Seed(); err != nil {
			fail("Error seeding employees: %v", err)
		}

		if err := tui.Run(e.tracker, e.cfg, e.logger); err != nil {
			e.logger.Error("tui exited with error", zap.Error(err))
			fail("Error: %v", err)
		}
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Inspect or apply database migrations",
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current schema version",
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := db.Open(); err != nil {
			fail("Error opening database: %v", err)
		}
		defer db.Close()

		status, err := db.GetMigrationStatus()
		if err != nil {
			fail("Error: %v", err)
		}

		fmt.Printf("Current version: %d\n", status.CurrentVersion)
		fmt.Printf("Latest version:  %d\n", status.LatestVersion)
		if status.Dirty {
			fmt.Println("State: dirty (a migration failed part way)")
		} else if status.Pending {
			fmt.Println("State: migrations pending, run 'sitetrack migrate up'")
		} else {
			fmt.Println("State: up to date")
		}
	},
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := db.Open(); err != nil {
			fail("Error opening database: %v", err)
		}
		defer db.Close()

		if err := db.RunMigrations(); err != nil {
			fail("Error: %v", err)
		}
		fmt.Println("Database is up to date.")
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default management employees if missing",
	Run: func(cmd *cobra.Command, args []string) {
		e, err := setup()
		if err != nil {
			fail("Error: %v", err)
		}
		defer e.close()

		created, err := e.tracker.Seed()
		if err != nil {
			fail("Error: %v", err)
		}
		fmt.Printf("Created %d employee(s).\n", created)
	},
}

var recomputeCmd = &cobra.Command{
	Use:   "recompute [project-id...]",
	Short: "Recalculate project progress from task weights",
	Long: `Recalculate stored progress for the given projects, or for every project
when no id is given.

Examples:
  sitetrack recompute        # All projects
  sitetrack recompute 3 7    # Projects 3 and 7`,
	Run: func(cmd *cobra.Command, args []string) {
		ids := make([]int64, 0, len(args))
		for _, arg := range args {
			id, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				fail("Invalid project id: %s", arg)
			}
			ids = append(ids, id)
		}

		e, err := setup()
		if err != nil {
			fail("Error: %v", err)
		}
		defer e.close()

		if len(ids) == 0 {
			n, err := e.tracker.RecomputeAll()
			if err != nil {
				fail("Error: %v", err)
			}
			fmt.Printf("Recomputed %d project(s).\n", n)
			return
		}

		for _, id := range ids {
			value, err := e.tracker.RecomputeProgress(id)
			if err != nil {
				fail("Error on project %d: %v", id, err)
			}
			fmt.Printf("Project %d: %.2f%%\n", id, value)
		}
	},
}

var photoCmd = &cobra.Command{
	Use:   "photo",
	Short: "Manage task photos",
}

var photoAttachCmd = &cobra.Command{
	Use:   "attach <task-id> <file>",
	Short: "Attach a jpg or png photo to a task",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		taskID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fail("Invalid task id: %s", args[0])
		}
		userID, _ := cmd.Flags().GetInt64("user")
		pin, _ := cmd.Flags().GetString("pin")

		e, err := setup()
		if err != nil {
			fail("Error: %v", err)
		}
		defer e.close()

		sess, err := e.tracker.Login(userID, pin)
		if err != nil {
			fail("Error: %v", err)
		}

		file, err := os.Open(args[1])
		if err != nil {
			fail("Error: %v", err)
		}
		defer file.Close()

		rel, err := e.tracker.AttachPhoto(sess, taskID, args[1], file)
		if err != nil {
			fail("Error: %v", err)
		}
		fmt.Printf("Saved %s\n", rel)
	},
}

func init() {
	migrateCmd.AddCommand(migrateStatusCmd)
	migrateCmd.AddCommand(migrateUpCmd)

	photoAttachCmd.Flags().Int64P("user", "u", 0, "Employee id to act as")
	photoAttachCmd.Flags().StringP("pin", "p", "", "PIN of that employee")
	_ = photoAttachCmd.MarkFlagRequired("user")
	_ = photoAttachCmd.MarkFlagRequired("pin")
	photoCmd.AddCommand(photoAttachCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(recomputeCmd)
	rootCmd.AddCommand(photoCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
