package model

import "strings"

type SubscriptionStatus string

const (
	StatusActive   SubscriptionStatus = "active"
	StatusInactive SubscriptionStatus = "inactive"
)

func (s SubscriptionStatus) String() string { return string(s) }

func (s SubscriptionStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// ParseSubscriptionStatus normalizes input (trim + lower-case).
// Returns (value, true) if valid; otherwise ("", false).
func ParseSubscriptionStatus(s string) (SubscriptionStatus, bool) {
	st := SubscriptionStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", false
	}
	return st, true
}

// Account is one validated customer account row. JSON keys follow the CSV headers.
type Account struct {
	AccountUUID         string             `db:"account_uuid"         json:"Account UUID"`
	AccountLabel        string             `db:"account_label"        json:"Account Label"`
	SubscriptionStatus  SubscriptionStatus `db:"subscription_status"  json:"Subscription Status"`
	AdminSeats          int64              `db:"admin_seats"          json:"Admin Seats"`
	UserSeats           int64              `db:"user_seats"           json:"User Seats"`
	ReadOnlySeats       int64              `db:"read_only_seats"      json:"Read Only Seats"`
	TotalRecords        int64              `db:"total_records"        json:"Total Records"`
	AutomationCount     int64              `db:"automation_count"     json:"Automation Count"`
	WorkflowTitle       *string            `db:"workflow_title"       json:"Workflow Title"` // nullable
	MessagesProcessed   int64              `db:"messages_processed"   json:"Messages Processed"`
	NotificationsSent   int64              `db:"notifications_sent"   json:"Notifications Sent"`
	NotificationsBilled int64              `db:"notifications_billed" json:"Notifications Billed"`
}

// CSV column names, in file order.
const (
	ColAccountUUID         = "Account UUID"
	ColAccountLabel        = "Account Label"
	ColSubscriptionStatus  = "Subscription Status"
	ColAdminSeats          = "Admin Seats"
	ColUserSeats           = "User Seats"
	ColReadOnlySeats       = "Read Only Seats"
	ColTotalRecords        = "Total Records"
	ColAutomationCount     = "Automation Count"
	ColWorkflowTitle       = "Workflow Title"
	ColMessagesProcessed   = "Messages Processed"
	ColNotificationsSent   = "Notifications Sent"
	ColNotificationsBilled = "Notifications Billed"
)

// Record converts the account into the loosely typed row the dashboard consumes.
func (a Account) Record() Record {
	r := Record{
		ColAccountUUID:         a.AccountUUID,
		ColAccountLabel:        a.AccountLabel,
		ColSubscriptionStatus:  a.SubscriptionStatus.String(),
		ColAdminSeats:          a.AdminSeats,
		ColUserSeats:           a.UserSeats,
		ColReadOnlySeats:       a.ReadOnlySeats,
		ColTotalRecords:        a.TotalRecords,
		ColAutomationCount:     a.AutomationCount,
		ColWorkflowTitle:       nil,
		ColMessagesProcessed:   a.MessagesProcessed,
		ColNotificationsSent:   a.NotificationsSent,
		ColNotificationsBilled: a.NotificationsBilled,
	}
	if a.WorkflowTitle != nil {
		r[ColWorkflowTitle] = *a.WorkflowTitle
	}
	return r
}
