// Package publish turns CSV account rows into Kafka events for the ingest
// worker.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jmehdipour/insights/internal/ingest"
	"github.com/jmehdipour/insights/internal/kafka"
	"github.com/jmehdipour/insights/internal/model"
	"github.com/jmehdipour/insights/internal/util"
)

const (
	AccountsTopic = "accounts.records"
	// HeaderEventID carries a ULID per published event.
	HeaderEventID = "event-id"
	batchSize     = 100
)

// Writer is the part of kafka.Producer the service needs.
type Writer interface {
	Write(ctx context.Context, msgs ...kafka.Message) error
}

// Stats reports one publish run.
type Stats struct {
	Published int
	Skipped   int // rows the CSV reader could not parse
}

type Service struct {
	w Writer
}

func New(w Writer) *Service {
	return &Service{w: w}
}

// PublishCSV sends every parseable row of r as a JSON object keyed by CSV
// column. Rows are not validated here; the consumer applies the ingest rules
// and reports rejects.
func (s *Service) PublishCSV(ctx context.Context, r io.Reader) (Stats, error) {
	var (
		st    Stats
		batch []kafka.Message
		werr  error
	)

	flush := func() {
		if werr != nil || len(batch) == 0 {
			return
		}
		if err := s.w.Write(ctx, batch...); err != nil {
			werr = fmt.Errorf("write events: %w", err)
			return
		}
		st.Published += len(batch)
		batch = batch[:0]
	}

	err := ingest.ReadRows(r, func(n int, row map[string]string, err error) {
		if err != nil {
			st.Skipped++
			return
		}
		m, err := Event(row)
		if err != nil {
			st.Skipped++
			return
		}
		batch = append(batch, m)
		if len(batch) >= batchSize {
			flush()
		}
	})
	if err != nil {
		return st, err
	}
	flush()
	return st, werr
}

// Event builds the Kafka message for one raw account row.
func Event(row map[string]string) (kafka.Message, error) {
	payload, err := json.Marshal(row)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(row[model.ColAccountUUID]),
		Value: payload,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(util.NewID())},
		},
	}, nil
}
