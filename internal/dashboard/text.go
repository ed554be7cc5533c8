package dashboard

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/jmehdipour/insights/internal/model"
	"github.com/jmehdipour/insights/internal/recordsview"
)

const barCells = 20

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numStyle    = cellStyle.Align(lipgloss.Right)
)

// RenderText writes the same sections as the HTML page for a terminal.
func RenderText(w io.Writer, p Page) error {
	var sb strings.Builder

	sb.WriteString(headerStyle.Render("Summary"))
	sb.WriteString("\n")
	if s := p.State.Summary; s != nil {
		t := newTable().Headers("Metric", "Value").
			Row("Total Accounts", recordsview.FmtInt(s.TotalAccounts)).
			Row("Total Records", recordsview.FmtInt(s.TotalRecordsSum)).
			Row("Active Accounts", recordsview.FmtInt(s.ActiveAccounts)).
			Row("Inactive Accounts", recordsview.FmtInt(s.InactiveAccounts)).
			Row("User Seats", recordsview.FmtInt(s.UserSeatsSum)).
			Row("Read Only Seats", recordsview.FmtInt(s.ReadOnlySeatsSum))
		sb.WriteString(t.String())
	} else {
		sb.WriteString(mutedStyle.Render("Summary unavailable."))
	}
	sb.WriteString("\n\n")

	sb.WriteString(headerStyle.Render("Ingestion Report"))
	sb.WriteString("\n")
	if msg := p.State.Message(); msg != "" {
		sb.WriteString(errorStyle.Render(msg))
		sb.WriteString("\n")
	}
	if r := p.State.Report; r != nil {
		fmt.Fprintf(&sb, "Loaded records: %s\nInvalid rows: %s\nInvalid samples: %s\n",
			recordsview.FmtInt(r.LoadedRecords),
			recordsview.FmtInt(r.InvalidRows),
			recordsview.FmtInt(p.InvalidSamples()))
	}
	sb.WriteString("\n")

	sb.WriteString(headerStyle.Render("Top 5 Accounts by Total Records"))
	sb.WriteString("\n")
	top := p.View.Top()
	if len(top) == 0 {
		sb.WriteString(mutedStyle.Render("No data available."))
		sb.WriteString("\n")
	} else {
		bars := newTable().Headers("Account Label", "Total Records", "")
		for _, r := range top {
			v := r.Value(model.ColTotalRecords)
			pct := p.View.BarWidthPct(v)
			bars.Row(r.Label(), recordsview.FmtInt(v), bar(pct))
		}
		sb.WriteString(bars.String())
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	rows := newTable().Headers("Account Label", "Status", "User Seats", "Read Only Seats", "Total Records")
	for _, r := range p.View.Filtered() {
		rows.Row(
			r.Text(model.ColAccountLabel),
			r.Text(model.ColSubscriptionStatus),
			recordsview.FmtInt(r.Value(model.ColUserSeats)),
			recordsview.FmtInt(r.Value(model.ColReadOnlySeats)),
			recordsview.FmtInt(r.Value(model.ColTotalRecords)),
		)
	}
	sb.WriteString(headerStyle.Render("Records"))
	sb.WriteString("\n")
	sb.WriteString(rows.String())
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func newTable() *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return cellStyle.Bold(true)
			case col > 0:
				return numStyle
			default:
				return cellStyle
			}
		})
}

// bar draws pct (0..100) as a fixed-width block.
func bar(pct int) string {
	n := pct * barCells / 100
	return strings.Repeat("█", n) + strings.Repeat("░", barCells-n)
}
