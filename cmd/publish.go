package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmehdipour/insights/internal/kafka"
	"github.com/jmehdipour/insights/internal/service/publish"
)

var publishFile string

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish CSV account rows to the Kafka ingest topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path := publishFile
		if path == "" {
			path = cfg.Source.CSVPath
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()

		kc := kafka.ConfigFrom(cfg.Kafka)
		if kc.Topic == "" {
			kc.Topic = publish.AccountsTopic
		}
		producer := kafka.NewProducerFromConfig(kc)
		defer producer.Close()

		st, err := publish.New(producer).PublishCSV(cmd.Context(), f)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), ">> Published %d events to %s (%d unparseable rows skipped)\n",
			st.Published, kc.Topic, st.Skipped)
		return nil
	},
}

func init() {
	publishCmd.Flags().StringVar(&publishFile, "file", "", "CSV file to publish (default: source.csv_path)")
}
