package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/jmehdipour/insights/internal/model"
)

const accountColumns = `account_uuid, account_label, subscription_status,
	admin_seats, user_seats, read_only_seats, total_records, automation_count,
	workflow_title, messages_processed, notifications_sent, notifications_billed`

// AccountsRepository reads and writes the customer_accounts table (MySQL).
type AccountsRepository interface {
	ListAll(ctx context.Context) ([]model.Account, error)
	UpsertBatch(ctx context.Context, tx *sqlx.Tx, accounts []model.Account) error
}

type AccountsRepositoryImpl struct {
	db *sqlx.DB
}

func NewAccountsRepository(db *sqlx.DB) *AccountsRepositoryImpl {
	return &AccountsRepositoryImpl{db: db}
}

var _ AccountsRepository = (*AccountsRepositoryImpl)(nil)

// ListAll returns every account in insertion order.
func (r *AccountsRepositoryImpl) ListAll(ctx context.Context) ([]model.Account, error) {
	var rows []model.Account
	q := `SELECT ` + accountColumns + ` FROM customer_accounts ORDER BY created_at, account_uuid`
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AccountsRepositoryImpl) withTx(ctx context.Context, tx *sqlx.Tx, fn func(*sqlx.Tx) error) error {
	if tx != nil {
		return fn(tx)
	}
	t, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = t.Rollback() }()
	if err := fn(t); err != nil {
		return err
	}
	return t.Commit()
}

// UpsertChunkRows bounds one INSERT statement (12 placeholders per row, MySQL
// allows 65535 per statement).
const UpsertChunkRows = 200

type statement struct {
	query string
	args  []any
}

// UpsertBatch inserts accounts in chunks of UpsertChunkRows inside one
// transaction, updating rows whose account_uuid already exists (idempotent
// re-imports).
func (r *AccountsRepositoryImpl) UpsertBatch(ctx context.Context, tx *sqlx.Tx, accounts []model.Account) error {
	if len(accounts) == 0 {
		return nil
	}
	stmts := buildUpserts(accounts, UpsertChunkRows)

	return r.withTx(ctx, tx, func(tx *sqlx.Tx) error {
		for i, st := range stmts {
			if _, err := tx.ExecContext(ctx, st.query, st.args...); err != nil {
				return fmt.Errorf("upsert chunk %d/%d: %w", i+1, len(stmts), err)
			}
		}
		return nil
	})
}

func buildUpserts(accounts []model.Account, rows int) []statement {
	stmts := make([]statement, 0, (len(accounts)+rows-1)/rows)
	for chunk := range slices.Chunk(accounts, rows) {
		q, args := buildUpsert(chunk)
		stmts = append(stmts, statement{query: q, args: args})
	}
	return stmts
}

func buildUpsert(accounts []model.Account) (string, []any) {
	var sb strings.Builder
	args := make([]any, 0, len(accounts)*12)

	sb.WriteString(`INSERT INTO customer_accounts (`)
	sb.WriteString(accountColumns)
	sb.WriteString(`) VALUES `)
	for i, a := range accounts {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			a.AccountUUID, a.AccountLabel, a.SubscriptionStatus.String(),
			a.AdminSeats, a.UserSeats, a.ReadOnlySeats, a.TotalRecords, a.AutomationCount,
			a.WorkflowTitle, a.MessagesProcessed, a.NotificationsSent, a.NotificationsBilled,
		)
	}
	sb.WriteString(` ON DUPLICATE KEY UPDATE
		account_label        = VALUES(account_label),
		subscription_status  = VALUES(subscription_status),
		admin_seats          = VALUES(admin_seats),
		user_seats           = VALUES(user_seats),
		read_only_seats      = VALUES(read_only_seats),
		total_records        = VALUES(total_records),
		automation_count     = VALUES(automation_count),
		workflow_title       = VALUES(workflow_title),
		messages_processed   = VALUES(messages_processed),
		notifications_sent   = VALUES(notifications_sent),
		notifications_billed = VALUES(notifications_billed)`)

	return sb.String(), args
}
