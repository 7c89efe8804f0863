// Package commands implements the ideahub operator CLI.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ideahub/api/internal/config"
	"github.com/ideahub/api/internal/database"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ideahub",
		Short:         "Operator tooling for the Idea Hub API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
		},
	}

	rootCmd.AddCommand(
		newMigrateCommand(),
		newSeedCommand(),
		newTokenCommand(),
		newKeysCommand(),
		newReindexCommand(),
	)

	return rootCmd
}

// connect opens the store described by the environment
func connect(ctx context.Context) (*config.Config, *database.SurrealDB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	db := database.NewSurrealDB(database.Config{
		Scheme:    cfg.Database.Scheme,
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})
	if err := db.Connect(ctx); err != nil {
		return nil, nil, fmt.Errorf("connect to %s:%s: %w", cfg.Database.Host, cfg.Database.Port, err)
	}
	return cfg, db, nil
}
