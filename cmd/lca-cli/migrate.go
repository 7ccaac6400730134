package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/amirphl/ecolca/migrations"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	var (
		dsn  string
		down bool
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply (or roll back) the database migrations",
		Example: `  lca-cli migrate --dsn "host=localhost user=postgres dbname=ecolca sslmode=disable"
  DATABASE_URL=postgres://... lca-cli migrate --down`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dsn == "" {
				dsn = os.Getenv("DATABASE_URL")
			}
			if dsn == "" {
				return errors.New("--dsn or DATABASE_URL is required")
			}

			db, err := migrations.Open(dsn)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			if down {
				version, err := migrations.Down(ctx, db)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Rolled back version %d\n", version)
				return nil
			}

			applied, err := migrations.Up(ctx, db)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
				return nil
			}
			for _, v := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "Applied version %d\n", v)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dsn, "dsn", "", "postgres connection string (defaults to $DATABASE_URL)")
	cmd.Flags().BoolVar(&down, "down", false, "roll back the most recent migration")
	return cmd
}
