package main

import (
	"fmt"

	"vocab-quiz/internal/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply SQL store migrations",
	Long:  `Creates or upgrades the vocabulary tables of store.sql regardless of the selected backend.`,
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.NewSQLXDB(cfg.Store.SQL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db, cfg.Store.SQL.Driver); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	cmd.Printf("Migrations applied (%s)\n", cfg.Store.SQL.Driver)
	return nil
}
