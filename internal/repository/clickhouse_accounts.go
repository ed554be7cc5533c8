package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/jmehdipour/insights/internal/model"
)

// CHAccountsRepository lists accounts from ClickHouse (latest-version view).
type CHAccountsRepository interface {
	ListAll(ctx context.Context) ([]model.Account, error)
}

type chAccountsRepository struct {
	ch *sqlx.DB // ClickHouse connection
}

func NewCHAccountsRepository(ch *sqlx.DB) CHAccountsRepository {
	return &chAccountsRepository{ch: ch}
}

func (r *chAccountsRepository) ListAll(ctx context.Context) ([]model.Account, error) {
	q := `SELECT ` + accountColumns + `
		FROM insights.customer_accounts_latest
		ORDER BY account_label`

	var rows []model.Account
	if err := r.ch.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}
