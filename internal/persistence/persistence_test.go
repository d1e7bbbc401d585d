package persistence

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/talgya/squad-campaign/internal/missions"
	"github.com/talgya/squad-campaign/internal/storage"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "campaign.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveSlots(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if db.Exists(ctx, "slot_0.json") {
		t.Fatal("fresh database has a slot")
	}
	if _, err := db.ReadAll(ctx, "slot_0.json"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := db.WriteAll(ctx, "slot_0.json", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := db.WriteAll(ctx, "slot_0.json", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	b, err := db.ReadAll(ctx, "slot_0.json")
	if err != nil || string(b) != `{"v":2}` {
		t.Fatalf("read back %q, %v", b, err)
	}
	if err := db.Delete(ctx, "slot_0.json"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := db.Delete(ctx, "slot_0.json"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
	if err := db.WriteAll(ctx, "", nil); err == nil {
		t.Fatal("empty key accepted")
	}
}

func TestSlotsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campaign.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.WriteAll(context.Background(), "autosave.json", []byte("{}")); err != nil {
		t.Fatalf("write: %v", err)
	}
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	if !db.Exists(context.Background(), "autosave.json") {
		t.Fatal("slot lost across reopen")
	}
}

func TestMissionRecordArchive(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	recs := []missions.Record{
		{MissionID: "act1_landfall", Success: false, TurnsTaken: 4},
		{MissionID: "act1_landfall", Success: true, TurnsTaken: 7,
			Performance: []missions.UnitPerformance{{UnitID: "STR_001", Kills: 2}}},
		{MissionID: "salvage_run_1a2b3c4d", Success: true, TurnsTaken: 5},
	}
	for _, r := range recs {
		if err := db.SaveRecord(ctx, r); err != nil {
			t.Fatalf("save record: %v", err)
		}
	}

	recent, err := db.RecentRecords(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 || recent[0].MissionID != "salvage_run_1a2b3c4d" || recent[1].TurnsTaken != 7 {
		t.Fatalf("unexpected recent records %+v", recent)
	}
	if recent[1].Performance[0].Kills != 2 {
		t.Fatal("performance not preserved")
	}

	stats, err := db.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(stats) != 2 || stats[0].MissionID != "act1_landfall" || stats[0].Attempts != 2 || stats[0].Successes != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}
