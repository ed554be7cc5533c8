// Package recordsview derives the filtered table and the top-N ranking
// shown on the dashboard. Every function here is pure: inputs are never
// mutated and results depend only on the arguments.
package recordsview

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/jmehdipour/insights/internal/model"
)

// TopLimit is the size of the ranked bar chart.
const TopLimit = 5

// FilteredItems returns the records matching both the label search and the
// status filter, in their original order.
func FilteredItems(records []model.Record, params model.FilterParams) []model.Record {
	q := strings.ToLower(strings.TrimSpace(params.SearchText))
	status := strings.ToLower(strings.TrimSpace(params.StatusFilter))

	out := make([]model.Record, 0, len(records))
	for _, r := range records {
		matchesLabel := q == "" || strings.Contains(strings.ToLower(r.Label()), q)
		matchesStatus := status == "" || strings.ToLower(r.Status()) == status

		if matchesLabel && matchesStatus {
			out = append(out, r)
		}
	}
	return out
}

// Top5 returns at most five records ordered by Total Records, highest first.
func Top5(records []model.Record) []model.Record {
	return TopN(records, TopLimit)
}

// TopN sorts a copy of records by Total Records descending and keeps the
// first n. Equal totals keep their original relative order.
func TopN(records []model.Record, n int) []model.Record {
	if n <= 0 {
		return []model.Record{}
	}

	sorted := slices.Clone(records)
	if sorted == nil {
		sorted = []model.Record{}
	}
	slices.SortStableFunc(sorted, func(a, b model.Record) int {
		return cmp.Compare(totalRecords(b), totalRecords(a))
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// BarWidthPct converts a Total Records value into a bar width in [0,100],
// relative to the largest Total Records in Top5(records).
func BarWidthPct(value any, records []model.Record) int {
	return barWidth(ToNumber(value), maxTotal(Top5(records)))
}

func barWidth(value, max float64) int {
	if max <= 0 {
		return 0
	}
	pct := math.Round((value / max) * 100)
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return int(pct)
}

func maxTotal(records []model.Record) float64 {
	max := 0.0
	for _, r := range records {
		if v := totalRecords(r); v > max {
			max = v
		}
	}
	return max
}

func totalRecords(r model.Record) float64 {
	return ToNumber(r.Value(model.ColTotalRecords))
}

// View binds a record set to filter parameters. Its methods recompute on
// every call, so a view always reflects the records and params it holds.
type View struct {
	Records []model.Record
	Params  model.FilterParams
}

func NewView(records []model.Record, params model.FilterParams) View {
	return View{Records: records, Params: params}
}

func (v View) Filtered() []model.Record { return FilteredItems(v.Records, v.Params) }

func (v View) Top() []model.Record { return Top5(v.Records) }

func (v View) BarWidthPct(value any) int { return BarWidthPct(value, v.Records) }
