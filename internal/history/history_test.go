package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/monit360/m360/internal/api"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleServers() []api.Server {
	return []api.Server{
		{
			ID:   "srv-1",
			Name: "web-01",
			Summary: api.Summary{
				CPUUsagePercent:  12.3,
				MemUsagePercent:  45.6,
				DiskUsagePercent: 78.9,
			},
		},
		{
			ID:   "srv-2",
			Name: "db-01",
			Summary: api.Summary{
				CPUUsagePercent: 1,
			},
		},
	}
}

func TestRecordAndByServer(t *testing.T) {
	store := openTestStore(t)

	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	if err := store.Record(now, sampleServers()); err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	snaps, err := store.ByServer("srv-1", 0)
	if err != nil {
		t.Fatalf("ByServer() error: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("got %d snapshots, want 1", len(snaps))
	}

	snap := snaps[0]
	if snap.ServerID != "srv-1" || snap.Name != "web-01" {
		t.Errorf("unexpected snapshot identity: %+v", snap)
	}
	if snap.CPUUsage != 12.3 || snap.MemUsage != 45.6 || snap.DiskUsage != 78.9 {
		t.Errorf("unexpected snapshot usage: %+v", snap)
	}
	if !snap.RecordedAt.Equal(now) {
		t.Errorf("RecordedAt = %v, want %v", snap.RecordedAt, now)
	}
}

func TestByServer_NewestFirstAndLimit(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		servers := []api.Server{{
			ID:      "srv-1",
			Name:    "web-01",
			Summary: api.Summary{CPUUsagePercent: float64(i)},
		}}
		if err := store.Record(base.Add(time.Duration(i)*time.Minute), servers); err != nil {
			t.Fatalf("Record() error: %v", err)
		}
	}

	snaps, err := store.ByServer("srv-1", 3)
	if err != nil {
		t.Fatalf("ByServer() error: %v", err)
	}
	if len(snaps) != 3 {
		t.Fatalf("got %d snapshots, want 3", len(snaps))
	}
	if snaps[0].CPUUsage != 4 {
		t.Errorf("first snapshot CPU = %v, want newest (4)", snaps[0].CPUUsage)
	}
	if !snaps[0].RecordedAt.After(snaps[1].RecordedAt) {
		t.Error("snapshots should be ordered newest first")
	}
}

func TestByName_Substring(t *testing.T) {
	store := openTestStore(t)

	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	if err := store.Record(now, sampleServers()); err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	snaps, err := store.ByName("web", 0)
	if err != nil {
		t.Fatalf("ByName() error: %v", err)
	}
	if len(snaps) != 1 || snaps[0].ServerID != "srv-1" {
		t.Errorf("unexpected ByName result: %+v", snaps)
	}

	none, err := store.ByName("mail", 0)
	if err != nil {
		t.Fatalf("ByName() error: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no matches, got %+v", none)
	}
}

func TestByServer_Unknown(t *testing.T) {
	store := openTestStore(t)

	snaps, err := store.ByServer("nope", 0)
	if err != nil {
		t.Fatalf("ByServer() error: %v", err)
	}
	if len(snaps) != 0 {
		t.Errorf("expected no snapshots, got %+v", snaps)
	}
}

func TestRecord_EmptyList(t *testing.T) {
	store := openTestStore(t)

	if err := store.Record(time.Now(), nil); err != nil {
		t.Fatalf("Record() with no servers error: %v", err)
	}
}
