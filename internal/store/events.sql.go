package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createSchema = `
CREATE TABLE IF NOT EXISTS modus_events (
    id            UUID PRIMARY KEY,
    conversion_id UUID NOT NULL,
    source        TEXT NOT NULL,
    sheet         TEXT NOT NULL,
    event_date    DATE,
    lab           TEXT,
    document      JSONB NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS modus_events_conversion_id_idx ON modus_events (conversion_id);
CREATE INDEX IF NOT EXISTS modus_events_event_date_idx ON modus_events (event_date)
`

func (q *Queries) CreateSchema(ctx context.Context) error {
	_, err := q.db.Exec(ctx, createSchema)
	return err
}

const insertEvent = `-- name: InsertEvent :exec
INSERT INTO modus_events (id, conversion_id, source, sheet, event_date, lab, document)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

type InsertEventParams struct {
	ID           pgtype.UUID
	ConversionID pgtype.UUID
	Source       string
	Sheet        string
	EventDate    pgtype.Date
	Lab          pgtype.Text
	Document     []byte
}

func (q *Queries) InsertEvent(ctx context.Context, arg InsertEventParams) error {
	_, err := q.db.Exec(ctx, insertEvent,
		arg.ID,
		arg.ConversionID,
		arg.Source,
		arg.Sheet,
		arg.EventDate,
		arg.Lab,
		arg.Document,
	)
	return err
}

const listEventsByConversion = `-- name: ListEventsByConversion :many
SELECT id, conversion_id, source, sheet, event_date, lab, document, created_at
FROM modus_events
WHERE conversion_id = $1
ORDER BY created_at, sheet, event_date
`

type ModusEvent struct {
	ID           pgtype.UUID
	ConversionID pgtype.UUID
	Source       string
	Sheet        string
	EventDate    pgtype.Date
	Lab          pgtype.Text
	Document     []byte
	CreatedAt    pgtype.Timestamptz
}

func (q *Queries) ListEventsByConversion(ctx context.Context, conversionID pgtype.UUID) ([]ModusEvent, error) {
	rows, err := q.db.Query(ctx, listEventsByConversion, conversionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ModusEvent
	for rows.Next() {
		var i ModusEvent
		if err := rows.Scan(
			&i.ID,
			&i.ConversionID,
			&i.Source,
			&i.Sheet,
			&i.EventDate,
			&i.Lab,
			&i.Document,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteConversion = `-- name: DeleteConversion :execrows
DELETE FROM modus_events WHERE conversion_id = $1
`

func (q *Queries) DeleteConversion(ctx context.Context, conversionID pgtype.UUID) (int64, error) {
	result, err := q.db.Exec(ctx, deleteConversion, conversionID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
