package model

// FilterParams controls which records are visible in the records table.
type FilterParams struct {
	SearchText   string // substring of Account Label, case-insensitive
	StatusFilter string // "" | active | inactive, case-insensitive
}
