package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/nicemap/internal/querysql"
	"github.com/roach88/nicemap/internal/ranking"
)

// ErrEmptyResult is returned when no record qualifies for the requested
// period. An empty ranking is treated as a failure, not a soft case.
var ErrEmptyResult = errors.New("no ranked records found")

// TopRanked returns the limit best-scored records for period, ordered by
// score descending. Ties keep the database's order.
//
// Returns min(limit, available) records, or an error wrapping
// ErrEmptyResult when none qualify.
func (s *Store) TopRanked(ctx context.Context, period, limit int) ([]ranking.Record, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	query, params, err := querysql.NewSQLCompiler(s.dialect).Compile(ranking.TopQuery(period, limit))
	if err != nil {
		return nil, fmt.Errorf("compile ranking query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query ranking: %w", err)
	}
	defer rows.Close()

	var records []ranking.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ranking: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("period %d: %w", period, ErrEmptyResult)
	}

	return records, nil
}

// scanRecord decodes one ranking row. Column order follows ranking.TopQuery.
func scanRecord(rows *sql.Rows) (ranking.Record, error) {
	var rec ranking.Record
	if err := rows.Scan(
		&rec.FirstName, &rec.LastName, &rec.City, &rec.Country,
		&rec.X, &rec.Y, &rec.Score,
	); err != nil {
		return ranking.Record{}, fmt.Errorf("scan ranking row: %w", err)
	}
	return rec.Normalize(), nil
}
