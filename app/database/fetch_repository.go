package database

import (
	"database/sql"
	"fmt"
	"time"
)

// FetchLogRepository stores feed fetch outcomes in the fetch_log table
type FetchLogRepository struct {
	db *DB
}

func NewFetchLogRepository(db *DB) *FetchLogRepository {
	return &FetchLogRepository{db: db}
}

// RecordFetch appends a finished fetch to the log
func (r *FetchLogRepository) RecordFetch(record FetchRecord) error {
	fetchedAt := record.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	attempts := record.Attempts
	if attempts < 1 {
		attempts = 1
	}

	_, err := r.db.Exec(`
		INSERT INTO fetch_log (view_id, source, outcome, entries, attempts, duration_ms, error, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, record.ViewID, record.Source, record.Outcome, record.Entries, attempts,
		record.Duration.Milliseconds(), record.Error, fetchedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to record fetch: %w", err)
	}

	return nil
}

// GetFetchStats aggregates fetches recorded at or after since
func (r *FetchLogRepository) GetFetchStats(since time.Time) (*FetchStats, error) {
	rows, err := r.db.Query(`
		SELECT outcome, COUNT(*), COALESCE(SUM(duration_ms), 0), COALESCE(MAX(fetched_at), 0)
		FROM fetch_log
		WHERE fetched_at >= ?
		GROUP BY outcome
	`, since.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to query fetch stats: %w", err)
	}
	defer rows.Close()

	stats := &FetchStats{ByOutcome: make(map[string]int)}
	var totalDurationMs, lastMs int64

	for rows.Next() {
		var outcome string
		var count int
		var durationMs, maxFetchedAt int64

		if err := rows.Scan(&outcome, &count, &durationMs, &maxFetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan fetch stats: %w", err)
		}

		stats.ByOutcome[outcome] = count
		stats.Total += count
		totalDurationMs += durationMs
		if maxFetchedAt > lastMs {
			lastMs = maxFetchedAt
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fetch stats: %w", err)
	}

	if stats.Total > 0 {
		stats.AvgDuration = time.Duration(totalDurationMs/int64(stats.Total)) * time.Millisecond
		last := time.UnixMilli(lastMs)
		stats.LastFetchedAt = &last
	}

	return stats, nil
}

// ListRecentFetches returns up to limit records, newest first
func (r *FetchLogRepository) ListRecentFetches(limit int) ([]FetchRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(`
		SELECT id, view_id, source, outcome, entries, attempts, duration_ms, error, fetched_at
		FROM fetch_log
		ORDER BY fetched_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent fetches: %w", err)
	}
	defer rows.Close()

	var records []FetchRecord
	for rows.Next() {
		record, err := scanFetchRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recent fetches: %w", err)
	}

	return records, nil
}

// DeleteFetchesBefore removes records older than cutoff and returns how many were removed
func (r *FetchLogRepository) DeleteFetchesBefore(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM fetch_log WHERE fetched_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old fetches: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return deleted, nil
}

func scanFetchRecord(rows *sql.Rows) (FetchRecord, error) {
	var record FetchRecord
	var durationMs, fetchedAtMs int64

	err := rows.Scan(
		&record.ID,
		&record.ViewID,
		&record.Source,
		&record.Outcome,
		&record.Entries,
		&record.Attempts,
		&durationMs,
		&record.Error,
		&fetchedAtMs,
	)
	if err != nil {
		return FetchRecord{}, fmt.Errorf("failed to scan fetch record: %w", err)
	}

	record.Duration = time.Duration(durationMs) * time.Millisecond
	record.FetchedAt = time.UnixMilli(fetchedAtMs)

	return record, nil
}
