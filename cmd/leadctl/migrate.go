package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unclebandit/leadreach-backend/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the lead store tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		conn, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := db.Migrate(ctx, conn); err != nil {
			return err
		}
		zap.L().Info("schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
