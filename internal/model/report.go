package model

// Summary aggregates the loaded accounts.
type Summary struct {
	TotalAccounts    int64 `json:"total_accounts"`
	ActiveAccounts   int64 `json:"active_accounts"`
	InactiveAccounts int64 `json:"inactive_accounts"`
	TotalRecordsSum  int64 `json:"total_records_sum"`
	UserSeatsSum     int64 `json:"user_seats_sum"`
	ReadOnlySeatsSum int64 `json:"read_only_seats_sum"`
}

// InvalidRow is a source row rejected during ingestion.
type InvalidRow struct {
	RowNumber int            `json:"row_number"`
	Row       map[string]any `json:"row"`
	Error     string         `json:"error"`
}

type IngestionReport struct {
	LoadedRecords  int          `json:"loaded_records"`
	InvalidRows    int          `json:"invalid_rows"`
	InvalidSamples []InvalidRow `json:"invalid_samples"`
}

// RecordsPage is the /records payload. Items are decoded as loose records
// on the client side.
type RecordsPage struct {
	Total int      `json:"total"`
	Items []Record `json:"items"`
}
