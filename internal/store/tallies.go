package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/coder-alair/shoorah-insights/internal/rollup"
)

// InsertTally stores a free-text sentiment tally.
func (db *DB) InsertTally(t rollup.Tally) error {
	pos, err := json.Marshal(t.Positive)
	if err != nil {
		return fmt.Errorf("encoding positive tally: %w", err)
	}
	neg, err := json.Marshal(t.Negative)
	if err != nil {
		return fmt.Errorf("encoding negative tally: %w", err)
	}
	_, err = db.conn.Exec(
		`INSERT INTO sentiment_tallies (id, subject_id, source, recorded_at, positive, negative)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.SubjectID, t.Source, t.RecordedAt.UnixMilli(), string(pos), string(neg),
	)
	return err
}

// FindTallies returns the cohort's tallies for one source inside the
// window, bounds inclusive.
func (db *DB) FindTallies(ctx context.Context, source string, subjects []string, w rollup.Window) ([]rollup.Tally, error) {
	if len(subjects) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(
		`SELECT id, subject_id, source, recorded_at, positive, negative
		FROM sentiment_tallies
		WHERE source = ? AND recorded_at >= ? AND recorded_at <= ?
		  AND subject_id IN (%s)`,
		placeholders(len(subjects)),
	)

	args := make([]any, 0, len(subjects)+3)
	args = append(args, source, w.Start.UnixMilli(), w.End.UnixMilli())
	for _, s := range subjects {
		args = append(args, s)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []rollup.Tally
	for rows.Next() {
		var t rollup.Tally
		var recordedAt int64
		var pos, neg string
		if err := rows.Scan(&t.ID, &t.SubjectID, &t.Source, &recordedAt, &pos, &neg); err != nil {
			return nil, err
		}
		t.RecordedAt = time.UnixMilli(recordedAt).UTC()
		if err := json.Unmarshal([]byte(pos), &t.Positive); err != nil {
			return nil, fmt.Errorf("decoding positive tally for %s: %w", t.ID, err)
		}
		if err := json.Unmarshal([]byte(neg), &t.Negative); err != nil {
			return nil, fmt.Errorf("decoding negative tally for %s: %w", t.ID, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
