package accounts

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmehdipour/insights/internal/ingest"
	"github.com/jmehdipour/insights/internal/model"
)

func loadSample(t *testing.T) *Service {
	t.Helper()
	res, err := ingest.LoadFile("../../../sample_data.csv")
	require.NoError(t, err)

	s := New()
	s.Replace(res.Accounts, res.Invalid)
	return s
}

func TestSummary(t *testing.T) {
	s := loadSample(t)
	assert.Equal(t, model.Summary{
		TotalAccounts:    10,
		ActiveAccounts:   7,
		InactiveAccounts: 3,
		TotalRecordsSum:  281992,
		UserSeatsSum:     58,
		ReadOnlySeatsSum: 14,
	}, s.Summary())
}

func TestList_Paging(t *testing.T) {
	s := loadSample(t)

	page := s.List(Query{Limit: 3, Offset: 0})
	assert.Equal(t, 10, page.Total)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "Atlas Systems", page.Items[0].Label())

	page = s.List(Query{Limit: 3, Offset: 9})
	require.Len(t, page.Items, 1)
	assert.Equal(t, "MotionStack", page.Items[0].Label())

	page = s.List(Query{Limit: 3, Offset: 50})
	assert.Equal(t, 10, page.Total)
	assert.Empty(t, page.Items)
}

func TestList_StatusAndQuery(t *testing.T) {
	s := loadSample(t)

	page := s.List(Query{Limit: 100, Status: model.StatusInactive})
	assert.Equal(t, 3, page.Total)

	// matches the workflow title of Blue Oak Software
	page = s.List(Query{Limit: 100, Q: " CHURN "})
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "Blue Oak Software", page.Items[0].Label())

	page = s.List(Query{Limit: 100, Q: "ops", Status: model.StatusActive})
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "Cloudline Ops", page.Items[0].Label())
}

func TestQuery_Validate(t *testing.T) {
	assert.NoError(t, Query{Limit: 1}.Validate())
	assert.NoError(t, Query{Limit: 100, Status: model.StatusActive}.Validate())
	assert.ErrorIs(t, Query{Limit: 0}.Validate(), ErrInvalidQuery)
	assert.ErrorIs(t, Query{Limit: 101}.Validate(), ErrInvalidQuery)
	assert.ErrorIs(t, Query{Limit: 5, Offset: -1}.Validate(), ErrInvalidQuery)
	assert.ErrorIs(t, Query{Limit: 5, Status: "paused"}.Validate(), ErrInvalidQuery)
}

func TestReport_CapsSamples(t *testing.T) {
	s := New()
	var invalid []model.InvalidRow
	for i := 1; i <= 7; i++ {
		invalid = append(invalid, model.InvalidRow{RowNumber: i, Error: fmt.Sprintf("row %d", i)})
	}
	s.Replace(nil, invalid)

	rep := s.Report()
	assert.Equal(t, 0, rep.LoadedRecords)
	assert.Equal(t, 7, rep.InvalidRows)
	require.Len(t, rep.InvalidSamples, SampleSize)
	assert.Equal(t, 1, rep.InvalidSamples[0].RowNumber)
}

func TestUpsert(t *testing.T) {
	s := loadSample(t)
	page := s.List(Query{Limit: 1})
	first := page.Items[0]

	a, err := ingest.NormalizeRow(map[string]string{
		model.ColAccountUUID:        first.Text(model.ColAccountUUID),
		model.ColAccountLabel:       "Atlas Systems Renamed",
		model.ColSubscriptionStatus: "inactive",
	})
	require.NoError(t, err)
	s.Upsert(a)

	assert.Equal(t, int64(10), s.Summary().TotalAccounts)
	assert.Equal(t, "Atlas Systems Renamed", s.List(Query{Limit: 1}).Items[0].Label())

	a.AccountUUID = "00000000-0000-0000-0000-0000000000aa"
	s.Upsert(a)
	assert.Equal(t, int64(11), s.Summary().TotalAccounts)

	s.RecordInvalid(model.InvalidRow{RowNumber: 1, Error: "bad"})
	assert.Equal(t, 1, s.Report().InvalidRows)
}
