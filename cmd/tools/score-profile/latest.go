package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"readiness-workers/internal/common/config"
	"readiness-workers/internal/common/database"
	"readiness-workers/internal/repository"

	"github.com/spf13/cobra"
)

// openResultsDB connects to the configured PostgreSQL database. Replaced in tests.
var openResultsDB = func(ctx context.Context, configPath string) (*sql.DB, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return nil, err
	}
	if err := pg.Ping(ctx); err != nil {
		_ = pg.Close()
		return nil, err
	}
	return pg.DB, nil
}

func newLatestCmd() *cobra.Command {
	var (
		businessID string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Print the most recent stored scoring result for a business",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openResultsDB(cmd.Context(), configPath)
			if err != nil {
				return fmt.Errorf("failed to connect to postgres: %w", err)
			}
			defer db.Close()

			result, err := repository.NewResultStore(db).Latest(cmd.Context(), businessID)
			if errors.Is(err, repository.ErrResultNotFound) {
				return fmt.Errorf("no scoring result stored for business %s", businessID)
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&businessID, "business-id", "b", "", "Business ID to look up")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a config file (defaults to configs/config.yaml)")
	_ = cmd.MarkFlagRequired("business-id")
	return cmd
}
