package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/jmehdipour/insights/internal/client"
	"github.com/jmehdipour/insights/internal/dashboard"
	"github.com/jmehdipour/insights/internal/model"
)

var recordsFlags struct {
	api     string
	q       string
	status  string
	limit   int
	timeout time.Duration
}

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Print the dashboard view (summary, top 5, filtered table) to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		base := recordsFlags.api
		if base == "" {
			base = cfg.Dashboard.APIBaseURL
		}
		limit := recordsFlags.limit
		if limit <= 0 {
			limit = cfg.Dashboard.RecordsLimit
		}
		timeout := recordsFlags.timeout
		if timeout <= 0 {
			timeout = cfg.Dashboard.FetchTimeout
		}

		st := dashboard.Load(cmd.Context(), client.New(base, timeout), limit)
		page := dashboard.NewPage(st, model.FilterParams{
			SearchText:   recordsFlags.q,
			StatusFilter: recordsFlags.status,
		})
		return dashboard.RenderText(cmd.OutOrStdout(), page)
	},
}

func init() {
	f := recordsCmd.Flags()
	f.StringVar(&recordsFlags.api, "api", "", "accounts API base URL (default: dashboard.api_base_url)")
	f.StringVar(&recordsFlags.q, "q", "", "account label search text")
	f.StringVar(&recordsFlags.status, "status", "", "status filter: active | inactive")
	f.IntVar(&recordsFlags.limit, "limit", 0, "records to fetch (default: dashboard.records_limit)")
	f.DurationVar(&recordsFlags.timeout, "timeout", 0, "per-request timeout (default: dashboard.fetch_timeout)")
}
