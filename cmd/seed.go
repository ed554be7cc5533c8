package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmehdipour/insights/internal/db"
	"github.com/jmehdipour/insights/internal/ingest"
	"github.com/jmehdipour/insights/internal/logger"
	"github.com/jmehdipour/insights/internal/repository"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import account rows from a CSV file into MySQL (idempotent)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path := seedFile
		if path == "" {
			path = cfg.Source.CSVPath
		}

		res, err := ingest.LoadFile(path)
		if err != nil {
			return err
		}
		for _, bad := range res.Invalid {
			logger.Log.Warn("seed: skipping invalid row",
				zap.Int("row", bad.RowNumber), zap.String("error", bad.Error))
		}

		sqlDB, err := db.NewMySQLConnection(cfg.MySQL)
		if err != nil {
			return fmt.Errorf("mysql connect: %w", err)
		}
		defer sqlDB.Close()

		repo := repository.NewAccountsRepository(sqlDB)
		if err := repo.UpsertBatch(cmd.Context(), nil, res.Accounts); err != nil {
			return fmt.Errorf("upsert accounts: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), ">> Seeded %d accounts (%d invalid rows skipped)\n",
			len(res.Accounts), len(res.Invalid))
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "CSV file to import (default: source.csv_path)")
}
