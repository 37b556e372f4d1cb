package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/yourusername/go-subgraph-bench/config"
	"github.com/yourusername/go-subgraph-bench/pipeline"
)

var dbResetCmd = &cobra.Command{
	Use:   "db-reset",
	Short: "Drop and recreate the report database and its tables",
	Long: `Drop the database named by DB_NAME, create it again and migrate the
pipeline_runs and selected_users tables. Connection settings come from
DB_HOST, DB_PORT, DB_USER, DB_PASSWORD and DB_NAME (.env is loaded).`,
	Args: exactArgs(0),
	RunE: runDBReset,
}

func init() {
	rootCmd.AddCommand(dbResetCmd)
}

func runDBReset(_ *cobra.Command, _ []string) error {
	cfg := config.LoadDBConfig()
	if !cfg.Enabled() || cfg.DBName == "" {
		return errors.Wrap(pipeline.ErrInvalidConfig, "DB_HOST and DB_NAME must be set")
	}
	if err := config.DropAndRecreateDatabase(cfg); err != nil {
		return err
	}
	db, err := config.OpenDB(cfg, nil)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	return config.ResetDatabase(db)
}
