package main

import (
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/config"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/jobs"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/logger"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/repository/postgres"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/scheduler"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/service"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/migrations"
)

// setup loads configuration, initializes the logger and opens the database.
func setup(cmd *cobra.Command) (*config.Config, *sql.DB, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.PingContext(cmd.Context()); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("Database connection established")
	return cfg, db, nil
}

func newJobRunner(cfg *config.Config, db *sql.DB) *jobs.JobRunner {
	store := postgres.NewStore(db)
	repos := store.Repos()
	return jobs.NewJobRunner(repos.Users, &jobs.Services{
		Email:       service.NewEmailService(cfg.Email),
		Maintenance: service.NewMaintenanceService(store, repos, cfg.UpcomingMaintenanceWindow(), cfg.Maintenance.MileageThreshold),
	}, cfg)
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply all pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			_, db, err := setup(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			if dryRun {
				all, err := migrations.Load(migrations.FS)
				if err != nil {
					return err
				}
				pending, err := migrations.Pending(cmd.Context(), db, all)
				if err != nil {
					return err
				}
				if len(pending) == 0 {
					fmt.Println("No pending migrations.")
					return nil
				}
				fmt.Println("Pending migrations:")
				for _, m := range pending {
					fmt.Printf("- %s\n", m.Version)
				}
				return nil
			}

			applied, err := migrations.Up(cmd.Context(), db, migrations.FS)
			for _, v := range applied {
				fmt.Printf("Applied migration: %s\n", v)
			}
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Println("No pending migrations.")
			}
			return nil
		},
	}
	cmd.Flags().Bool("dry-run", false, "List pending migrations without applying them")
	return cmd
}

func cronCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cron",
		Short: "Run the job scheduler until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := setup(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			cronScheduler, err := scheduler.NewScheduler(newJobRunner(cfg, db))
			if err != nil {
				return err
			}
			cronScheduler.Start()
			logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.", "jobs", cronScheduler.Entries())

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			<-sigChan

			logger.Info("Shutting down cronjob scheduler...")
			cronScheduler.Stop()
			logger.Info("Cronjob scheduler stopped. Goodbye!")
			return nil
		},
	}
}

func runJobCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run-job <name>",
		Short: "Run a single job once and exit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := setup(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			logger.Info("Running job once", "job", args[0])
			if err := newJobRunner(cfg, db).RunJob(args[0]); err != nil {
				return err
			}
			logger.Info("Job execution completed", "job", args[0])
			return nil
		},
	}
}

func jobsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "jobs",
		Short: "List the jobs known to run-job",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := jobs.NewJobRunner(nil, &jobs.Services{}, &config.Config{})
			fmt.Println("Available jobs:")
			for _, name := range runner.JobNames() {
				fmt.Printf("  - %s\n", name)
			}
			return nil
		},
	}
}
