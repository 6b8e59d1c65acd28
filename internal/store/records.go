package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/coder-alair/shoorah-insights/internal/rollup"
	"github.com/coder-alair/shoorah-insights/internal/taxonomy"
)

// InsertRecord stores a mood record. Scores are serialized as JSON.
func (db *DB) InsertRecord(r rollup.Record) error {
	scores, err := json.Marshal(r.Scores)
	if err != nil {
		return fmt.Errorf("encoding scores: %w", err)
	}
	_, err = db.conn.Exec(
		`INSERT INTO mood_records (id, subject_id, taxonomy_id, recorded_at, scores, deleted)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.SubjectID, string(r.TaxonomyID), r.RecordedAt.UnixMilli(), string(scores), r.Deleted,
	)
	return err
}

// DeleteRecord marks a record logically deleted; rollups never see it again.
func (db *DB) DeleteRecord(id string) error {
	_, err := db.conn.Exec("UPDATE mood_records SET deleted = true WHERE id = ?", id)
	return err
}

// FindRecords returns the cohort's non-deleted records for one taxonomy
// inside the window, bounds inclusive.
func (db *DB) FindRecords(ctx context.Context, id taxonomy.ID, subjects []string, w rollup.Window) ([]rollup.Record, error) {
	if len(subjects) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(
		`SELECT id, subject_id, taxonomy_id, recorded_at, scores
		FROM mood_records
		WHERE taxonomy_id = ? AND deleted = false
		  AND recorded_at >= ? AND recorded_at <= ?
		  AND subject_id IN (%s)`,
		placeholders(len(subjects)),
	)

	args := make([]any, 0, len(subjects)+3)
	args = append(args, string(id), w.Start.UnixMilli(), w.End.UnixMilli())
	for _, s := range subjects {
		args = append(args, s)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []rollup.Record
	for rows.Next() {
		var r rollup.Record
		var taxID, scores string
		var recordedAt int64
		if err := rows.Scan(&r.ID, &r.SubjectID, &taxID, &recordedAt, &scores); err != nil {
			return nil, err
		}
		r.TaxonomyID = taxonomy.ID(taxID)
		r.RecordedAt = time.UnixMilli(recordedAt).UTC()
		if err := json.Unmarshal([]byte(scores), &r.Scores); err != nil {
			return nil, fmt.Errorf("decoding scores for record %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// placeholders returns n comma-joined SQL placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
