package source

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmehdipour/insights/internal/model"
	"github.com/jmehdipour/insights/internal/service/accounts"
)

type stubLister struct {
	rows []model.Account
	err  error
}

func (s stubLister) ListAll(context.Context) ([]model.Account, error) { return s.rows, s.err }

func TestApply_CSV(t *testing.T) {
	svc := accounts.New()
	res, err := Apply(context.Background(), svc, CSV{Path: "../../sample_data.csv"})
	require.NoError(t, err)

	assert.Len(t, res.Accounts, 10)
	assert.Equal(t, 10, svc.Report().LoadedRecords)
	assert.Equal(t, int64(281992), svc.Summary().TotalRecordsSum)
}

func TestApply_TableRevalidates(t *testing.T) {
	rows := []model.Account{
		{AccountUUID: "3f1c2a9e-7b4d-4c2a-9f1e-0a1b2c3d4e01", AccountLabel: "Atlas Systems", SubscriptionStatus: model.StatusActive, TotalRecords: 10},
		{AccountUUID: "3f1c2a9e-7b4d-4c2a-9f1e-0a1b2c3d4e02", AccountLabel: "", SubscriptionStatus: model.StatusActive},
	}
	svc := accounts.New()
	_, err := Apply(context.Background(), svc, Table{Kind: KindMySQL, Repo: stubLister{rows: rows}})
	require.NoError(t, err)

	rep := svc.Report()
	assert.Equal(t, 1, rep.LoadedRecords)
	require.Equal(t, 1, rep.InvalidRows)
	assert.Equal(t, 2, rep.InvalidSamples[0].RowNumber)
	assert.Equal(t, "", rep.InvalidSamples[0].Row[model.ColWorkflowTitle])
}

func TestApply_ErrorKeepsPreviousDataset(t *testing.T) {
	svc := accounts.New()
	_, err := Apply(context.Background(), svc, CSV{Path: "../../sample_data.csv"})
	require.NoError(t, err)

	_, err = Apply(context.Background(), svc, Table{Kind: KindClickHouse, Repo: stubLister{err: errors.New("down")}})
	require.Error(t, err)
	assert.Equal(t, 10, svc.Report().LoadedRecords)
}
