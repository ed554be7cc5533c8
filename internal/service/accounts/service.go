package accounts

import (
	"errors"
	"strings"
	"sync"

	"github.com/jmehdipour/insights/internal/model"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
	// SampleSize caps invalid rows echoed back in the ingestion report.
	SampleSize = 5
)

var ErrInvalidQuery = errors.New("invalid query")

// Query selects a page of accounts. Q matches the account label or the
// workflow title, case-insensitively.
type Query struct {
	Limit  int
	Offset int
	Status model.SubscriptionStatus // "" = any
	Q      string
}

// Validate applies the API bounds: 1 <= limit <= 100, offset >= 0.
func (q Query) Validate() error {
	if q.Limit < 1 || q.Limit > MaxLimit {
		return ErrInvalidQuery
	}
	if q.Offset < 0 {
		return ErrInvalidQuery
	}
	if q.Status != "" && !q.Status.Valid() {
		return ErrInvalidQuery
	}
	return nil
}

// Service holds the loaded account set in memory. Loads replace the whole
// set; the ingest worker may append single accounts.
type Service struct {
	mu       sync.RWMutex
	accounts []model.Account
	index    map[string]int // account uuid -> position
	invalid  []model.InvalidRow
}

func New() *Service {
	return &Service{index: map[string]int{}}
}

// Replace swaps in a freshly loaded dataset. Rows are kept as loaded, so a
// source with repeated uuids reports every row.
func (s *Service) Replace(accounts []model.Account, invalid []model.InvalidRow) {
	cp := append([]model.Account(nil), accounts...)
	idx := make(map[string]int, len(cp))
	for i, a := range cp {
		idx[a.AccountUUID] = i
	}

	s.mu.Lock()
	s.accounts = cp
	s.index = idx
	s.invalid = append([]model.InvalidRow(nil), invalid...)
	s.mu.Unlock()
}

// Upsert adds an account or replaces the one with the same uuid in place.
func (s *Service) Upsert(a model.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[a.AccountUUID]; ok {
		s.accounts[i] = a
		return
	}
	s.index[a.AccountUUID] = len(s.accounts)
	s.accounts = append(s.accounts, a)
}

func (s *Service) RecordInvalid(row model.InvalidRow) {
	s.mu.Lock()
	s.invalid = append(s.invalid, row)
	s.mu.Unlock()
}

// List returns the total number of matches and the requested page.
func (s *Service) List(q Query) model.RecordsPage {
	needle := strings.ToLower(strings.TrimSpace(q.Q))

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]model.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		if q.Status != "" && a.SubscriptionStatus != q.Status {
			continue
		}
		if needle != "" && !matches(a, needle) {
			continue
		}
		matched = append(matched, a)
	}

	page := model.RecordsPage{Total: len(matched), Items: []model.Record{}}
	if q.Offset >= len(matched) {
		return page
	}
	end := q.Offset + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	for _, a := range matched[q.Offset:end] {
		page.Items = append(page.Items, a.Record())
	}
	return page
}

func matches(a model.Account, needle string) bool {
	if strings.Contains(strings.ToLower(a.AccountLabel), needle) {
		return true
	}
	return a.WorkflowTitle != nil && strings.Contains(strings.ToLower(*a.WorkflowTitle), needle)
}

func (s *Service) Summary() model.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum model.Summary
	for _, a := range s.accounts {
		sum.TotalAccounts++
		switch a.SubscriptionStatus {
		case model.StatusActive:
			sum.ActiveAccounts++
		case model.StatusInactive:
			sum.InactiveAccounts++
		}
		sum.TotalRecordsSum += a.TotalRecords
		sum.UserSeatsSum += a.UserSeats
		sum.ReadOnlySeatsSum += a.ReadOnlySeats
	}
	return sum
}

func (s *Service) Report() model.IngestionReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.invalid)
	if n > SampleSize {
		n = SampleSize
	}
	samples := make([]model.InvalidRow, n)
	copy(samples, s.invalid[:n])

	return model.IngestionReport{
		LoadedRecords:  len(s.accounts),
		InvalidRows:    len(s.invalid),
		InvalidSamples: samples,
	}
}
