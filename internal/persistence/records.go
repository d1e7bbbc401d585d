package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/talgya/squad-campaign/internal/missions"
)

// SaveRecord archives a resolved mission record.
func (db *DB) SaveRecord(ctx context.Context, rec missions.Record) error {
	recJSON, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	success := 0
	if rec.Success {
		success = 1
	}
	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO mission_records (mission_id, success, turns, record_json, recorded_at)
		VALUES (?, ?, ?, ?, ?)`,
		rec.MissionID, success, rec.TurnsTaken, string(recJSON), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save record %s: %w", rec.MissionID, err)
	}
	return nil
}

type recordRow struct {
	ID         int64  `db:"id"`
	RecordJSON string `db:"record_json"`
}

// RecentRecords returns up to limit archived records, newest first.
func (db *DB) RecentRecords(ctx context.Context, limit int) ([]missions.Record, error) {
	var rows []recordRow
	err := db.conn.SelectContext(ctx, &rows,
		"SELECT id, record_json FROM mission_records ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent records: %w", err)
	}
	out := make([]missions.Record, 0, len(rows))
	for _, r := range rows {
		var rec missions.Record
		if err := json.Unmarshal([]byte(r.RecordJSON), &rec); err != nil {
			return nil, fmt.Errorf("decode record %d: %w", r.ID, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// RecordStats summarizes the archive per mission.
type RecordStats struct {
	MissionID string `db:"mission_id"`
	Attempts  int    `db:"attempts"`
	Successes int    `db:"successes"`
}

// Stats returns attempt and success counts per mission, most attempted first.
func (db *DB) Stats(ctx context.Context) ([]RecordStats, error) {
	var stats []RecordStats
	err := db.conn.SelectContext(ctx, &stats,
		`SELECT mission_id, COUNT(*) AS attempts, SUM(success) AS successes
		FROM mission_records GROUP BY mission_id ORDER BY attempts DESC, mission_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("record stats: %w", err)
	}
	return stats, nil
}
