package database

import (
	"context"
	"database/sql"
	"fmt"

	"office_presence_bot/internal/domain/crossing"
)

// PostgresCrossingRepository persists confirmed boundary crossings for the
// presence history.
type PostgresCrossingRepository struct {
	db *sql.DB
}

func NewPostgresCrossingRepository(db *sql.DB) *PostgresCrossingRepository {
	return &PostgresCrossingRepository{db: db}
}

func (r *PostgresCrossingRepository) Create(ctx context.Context, rec *crossing.Record) error {
	query := `INSERT INTO crossing_events (id, email, entered, occurred_at)
              VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, rec.ID, rec.Email, rec.Entered, rec.OccurredAt)
	if err != nil {
		return fmt.Errorf("failed to insert crossing event: %w", err)
	}
	return nil
}

func (r *PostgresCrossingRepository) ListRecent(ctx context.Context, limit int) ([]*crossing.Record, error) {
	query := `SELECT id, email, entered, occurred_at FROM crossing_events
              ORDER BY occurred_at DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list crossing events: %w", err)
	}
	defer rows.Close()

	var records []*crossing.Record
	for rows.Next() {
		rec := &crossing.Record{}
		if err := rows.Scan(&rec.ID, &rec.Email, &rec.Entered, &rec.OccurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan crossing event: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating crossing events: %w", err)
	}
	return records, nil
}
