package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"velours-story-api/internal/domain/entity"
)

func newTestStore(t *testing.T, maxEntries int) (*LogStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "user_logs.json")
	s, err := NewLogStore(path, maxEntries)
	if err != nil {
		t.Fatalf("NewLogStore: %v", err)
	}
	return s, path
}

func TestAppendAssignsIdentity(t *testing.T) {
	s, _ := newTestStore(t, 100)
	ctx := context.Background()

	total, err := s.Append(ctx, entity.LogEntry{"event": "page_view"})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if total != 1 {
		t.Errorf("expected total 1, got %d", total)
	}

	logs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected one entry, got %d", len(logs))
	}
	if !strings.HasPrefix(logs[0].ID(), "log_") {
		t.Errorf("generated id should carry the log_ prefix, got %q", logs[0].ID())
	}
	if logs[0].Timestamp() == "" {
		t.Error("timestamp should be assigned")
	}
	if logs[0]["event"] != "page_view" {
		t.Error("client payload must be preserved")
	}
}

func TestAppendKeepsClientIdentity(t *testing.T) {
	s, _ := newTestStore(t, 100)

	_, err := s.Append(context.Background(), entity.LogEntry{
		"id":        "log_123_000000042",
		"timestamp": "2026-01-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	logs, _ := s.List(context.Background())
	if logs[0].ID() != "log_123_000000042" {
		t.Errorf("client id must survive, got %q", logs[0].ID())
	}
	if logs[0].Timestamp() != "2026-01-01T00:00:00Z" {
		t.Errorf("client timestamp must survive, got %q", logs[0].Timestamp())
	}
}

func TestAppendEvictsOldestBeyondCap(t *testing.T) {
	s, _ := newTestStore(t, 3)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c", "d", "e"} {
		if _, err := s.Append(ctx, entity.LogEntry{"event": name}); err != nil {
			t.Fatalf("Append %s: %v", name, err)
		}
	}

	logs, _ := s.List(ctx)
	if len(logs) != 3 {
		t.Fatalf("expected cap of 3 entries, got %d", len(logs))
	}
	got := []string{logs[0]["event"].(string), logs[1]["event"].(string), logs[2]["event"].(string)}
	want := []string{"c", "d", "e"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FIFO eviction broken: expected %v, got %v", want, got)
			break
		}
	}
}

func TestPersistenceAcrossRestart(t *testing.T) {
	s, path := newTestStore(t, 100)
	ctx := context.Background()

	if _, err := s.Append(ctx, entity.LogEntry{"event": "before_restart"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	reopened, err := NewLogStore(path, 100)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	logs, _ := reopened.List(ctx)
	if len(logs) != 1 || logs[0]["event"] != "before_restart" {
		t.Errorf("entries should survive restart, got %v", logs)
	}
}

func TestCorruptedFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_logs.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	s, err := NewLogStore(path, 100)
	if err != nil {
		t.Fatalf("NewLogStore should tolerate corruption: %v", err)
	}
	logs, _ := s.List(context.Background())
	if len(logs) != 0 {
		t.Errorf("corrupted file should yield an empty store, got %d entries", len(logs))
	}
}

func TestClearEmptiesStoreAndFile(t *testing.T) {
	s, path := newTestStore(t, 100)
	ctx := context.Background()

	_, _ = s.Append(ctx, entity.LogEntry{"event": "x"})
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	logs, _ := s.List(ctx)
	if len(logs) != 0 {
		t.Errorf("expected empty store after clear, got %d", len(logs))
	}

	reopened, err := NewLogStore(path, 100)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	logs, _ = reopened.List(ctx)
	if len(logs) != 0 {
		t.Errorf("clear should persist to disk, got %d entries after reopen", len(logs))
	}
}

func TestListReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t, 100)
	ctx := context.Background()
	_, _ = s.Append(ctx, entity.LogEntry{"event": "x"})

	logs, _ := s.List(ctx)
	logs[0] = entity.LogEntry{"event": "mutated"}

	again, _ := s.List(ctx)
	if again[0]["event"] != "x" {
		t.Error("List must return a copy of the backing slice")
	}

	// 条目是 map,对返回条目的修改也不能写穿到存储
	again[0]["event"] = "tampered"
	third, _ := s.List(ctx)
	if third[0]["event"] != "x" {
		t.Error("List must clone entries, not share the stored maps")
	}
}
