// Package store persists accepted Events in PostgreSQL. Each Event is kept
// whole as a JSONB document next to the columns it is looked up by.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/labnorm/internal/core"
)

// ErrInvalidConversionID is returned for ids that are not UUIDs.
var ErrInvalidConversionID = errors.New("invalid conversion id")

// Beginner is a DBTX that can open transactions, such as *pgxpool.Pool.
type Beginner interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// EventStore saves and loads converted Events.
type EventStore struct {
	db Beginner
	q  *Queries
}

// NewEventStore returns a store backed by db.
func NewEventStore(db Beginner) *EventStore {
	return &EventStore{db: db, q: New(db)}
}

// Migrate creates the events table if it does not exist.
func (s *EventStore) Migrate(ctx context.Context) error {
	if err := s.q.CreateSchema(ctx); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// StoredEvent is one persisted Event.
type StoredEvent struct {
	ID           string
	ConversionID string
	Source       string
	Sheet        string
	EventDate    string
	Lab          string
	Event        core.Event
	CreatedAt    time.Time
}

// SaveResult stores every accepted Event of res in one transaction and
// returns how many were written.
func (s *EventStore) SaveResult(ctx context.Context, res *core.Result) (int, error) {
	convID, err := parseUUID(res.ID)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // No-op once committed

	q := s.q.WithTx(tx)
	n := 0
	for _, doc := range res.Documents {
		for _, ev := range doc.Result.Events {
			body, err := json.Marshal(ev)
			if err != nil {
				return 0, fmt.Errorf("encode event %s/%s: %w", doc.Sheet, doc.GroupDate, err)
			}
			err = q.InsertEvent(ctx, InsertEventParams{
				ID:           pgtype.UUID{Bytes: uuid.New(), Valid: true},
				ConversionID: convID,
				Source:       res.Source,
				Sheet:        doc.Sheet,
				EventDate:    toPgDate(ev.EventMetaData.EventDate),
				Lab:          toPgText(res.Lab),
				Document:     body,
			})
			if err != nil {
				return 0, fmt.Errorf("insert event %s/%s: %w", doc.Sheet, doc.GroupDate, err)
			}
			n++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	slog.Debug("events stored", "conversion_id", res.ID, "events", n)
	return n, nil
}

// Events loads the Events stored for a conversion.
func (s *EventStore) Events(ctx context.Context, conversionID string) ([]StoredEvent, error) {
	id, err := parseUUID(conversionID)
	if err != nil {
		return nil, err
	}
	rows, err := s.q.ListEventsByConversion(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	out := make([]StoredEvent, 0, len(rows))
	for _, r := range rows {
		se := StoredEvent{
			ID:           uuid.UUID(r.ID.Bytes).String(),
			ConversionID: conversionID,
			Source:       r.Source,
			Sheet:        r.Sheet,
			Lab:          r.Lab.String,
			CreatedAt:    r.CreatedAt.Time,
		}
		if r.EventDate.Valid {
			se.EventDate = r.EventDate.Time.Format(time.DateOnly)
		}
		if err := json.Unmarshal(r.Document, &se.Event); err != nil {
			return nil, fmt.Errorf("decode event %s: %w", se.ID, err)
		}
		out = append(out, se)
	}
	return out, nil
}

// Delete removes a conversion's Events and reports how many were removed.
func (s *EventStore) Delete(ctx context.Context, conversionID string) (int64, error) {
	id, err := parseUUID(conversionID)
	if err != nil {
		return 0, err
	}
	n, err := s.q.DeleteConversion(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete conversion: %w", err)
	}
	return n, nil
}

func parseUUID(s string) (pgtype.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{}, fmt.Errorf("%w %q: %v", ErrInvalidConversionID, s, err)
	}
	return pgtype.UUID{Bytes: id, Valid: true}, nil
}

func toPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

// toPgDate stores YYYY-MM-DD event dates; anything else, such as the
// unknown-date sentinel, is NULL.
func toPgDate(s string) pgtype.Date {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: t, Valid: true}
}
