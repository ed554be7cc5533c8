package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmehdipour/insights/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the customer_accounts table (MySQL)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		sqlDB, err := db.NewMySQLConnection(cfg.MySQL)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer sqlDB.Close()

		if err := db.Migrate(context.Background(), sqlDB); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), ">> Migration complete")
		return nil
	},
}
