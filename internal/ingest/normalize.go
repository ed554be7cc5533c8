package ingest

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jmehdipour/insights/internal/model"
)

var (
	ErrInvalidUUID   = errors.New("invalid account uuid")
	ErrEmptyLabel    = errors.New("account label is empty")
	ErrInvalidStatus = errors.New("subscription status must be active or inactive")
	ErrNegative      = errors.New("must be greater than or equal to 0")
	ErrNotNumeric    = errors.New("not a number")
)

// numeric columns, in CSV order
var countColumns = []string{
	model.ColAdminSeats,
	model.ColUserSeats,
	model.ColReadOnlySeats,
	model.ColTotalRecords,
	model.ColAutomationCount,
	model.ColMessagesProcessed,
	model.ColNotificationsSent,
	model.ColNotificationsBilled,
}

// NormalizeRow turns one raw row (column -> cell) into a validated Account.
// Status is trimmed and lower-cased, an empty workflow title becomes nil and
// blank counts become 0. The returned error names the offending column.
func NormalizeRow(row map[string]string) (model.Account, error) {
	var a model.Account

	raw := strings.TrimSpace(row[model.ColAccountUUID])
	id, err := uuid.Parse(raw)
	if err != nil {
		return model.Account{}, fmt.Errorf("%s: %w", model.ColAccountUUID, ErrInvalidUUID)
	}
	a.AccountUUID = id.String()

	a.AccountLabel = row[model.ColAccountLabel]
	if a.AccountLabel == "" {
		return model.Account{}, fmt.Errorf("%s: %w", model.ColAccountLabel, ErrEmptyLabel)
	}

	st, ok := model.ParseSubscriptionStatus(row[model.ColSubscriptionStatus])
	if !ok {
		return model.Account{}, fmt.Errorf("%s %q: %w", model.ColSubscriptionStatus, row[model.ColSubscriptionStatus], ErrInvalidStatus)
	}
	a.SubscriptionStatus = st

	if wt := strings.TrimSpace(row[model.ColWorkflowTitle]); wt != "" {
		a.WorkflowTitle = &wt
	}

	counts := make(map[string]int64, len(countColumns))
	for _, col := range countColumns {
		n, err := toCount(row[col])
		if err != nil {
			return model.Account{}, fmt.Errorf("%s %q: %w", col, row[col], err)
		}
		counts[col] = n
	}

	a.AdminSeats = counts[model.ColAdminSeats]
	a.UserSeats = counts[model.ColUserSeats]
	a.ReadOnlySeats = counts[model.ColReadOnlySeats]
	a.TotalRecords = counts[model.ColTotalRecords]
	a.AutomationCount = counts[model.ColAutomationCount]
	a.MessagesProcessed = counts[model.ColMessagesProcessed]
	a.NotificationsSent = counts[model.ColNotificationsSent]
	a.NotificationsBilled = counts[model.ColNotificationsBilled]

	return a, nil
}

// toCount parses a cell as a float and truncates toward zero ("3.9" -> 3).
// Blank cells count as 0.
func toCount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrNotNumeric
	}
	n := int64(math.Trunc(f))
	if n < 0 {
		return 0, ErrNegative
	}
	return n, nil
}

// Validate re-checks an account that came from a typed source (database rows).
func Validate(a model.Account) error {
	if _, err := uuid.Parse(a.AccountUUID); err != nil {
		return fmt.Errorf("%s: %w", model.ColAccountUUID, ErrInvalidUUID)
	}
	if a.AccountLabel == "" {
		return fmt.Errorf("%s: %w", model.ColAccountLabel, ErrEmptyLabel)
	}
	if !a.SubscriptionStatus.Valid() {
		return fmt.Errorf("%s %q: %w", model.ColSubscriptionStatus, a.SubscriptionStatus, ErrInvalidStatus)
	}
	for col, n := range map[string]int64{
		model.ColAdminSeats:          a.AdminSeats,
		model.ColUserSeats:           a.UserSeats,
		model.ColReadOnlySeats:       a.ReadOnlySeats,
		model.ColTotalRecords:        a.TotalRecords,
		model.ColAutomationCount:     a.AutomationCount,
		model.ColMessagesProcessed:   a.MessagesProcessed,
		model.ColNotificationsSent:   a.NotificationsSent,
		model.ColNotificationsBilled: a.NotificationsBilled,
	} {
		if n < 0 {
			return fmt.Errorf("%s: %w", col, ErrNegative)
		}
	}
	return nil
}
