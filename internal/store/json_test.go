package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/ykvlv/forecast-bot/internal/domain"
)

func openTestJSON(t *testing.T) (*JSONStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "users.json")
	s, err := OpenJSON(path, zap.NewNop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return s, path
}

func TestJSONStore_CreatesFile(t *testing.T) {
	_, path := openTestJSON(t)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.TrimSpace(string(data)) != "{}" {
		t.Fatalf("want empty object, got %q", data)
	}
}

func TestJSONStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestJSON(t)

	p := domain.Preferences{City: "Oslo", Provider: "open-meteo", NotifyTime: "07:30", MagneticRegion: "RAL5"}
	if err := s.Set(ctx, 42, p); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get(ctx, 42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != p {
		t.Fatalf("want %+v, got %+v", p, got)
	}
}

func TestJSONStore_UnknownUserIsZero(t *testing.T) {
	s, _ := openTestJSON(t)
	got, err := s.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("want zero preferences, got %+v", got)
	}
}

func TestJSONStore_SetOverwritesWithoutMerge(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestJSON(t)

	full := domain.Preferences{City: "Oslo", Provider: "yandex", NotifyTime: "07:30", MagneticRegion: "RAL5"}
	if err := s.Set(ctx, 1, full); err != nil {
		t.Fatalf("set: %v", err)
	}
	partial := domain.Preferences{City: "Bergen"}
	if err := s.Set(ctx, 1, partial); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, _ := s.Get(ctx, 1)
	if got != partial {
		t.Fatalf("store must not merge: got %+v", got)
	}
}

func TestJSONStore_HumanReadableFile(t *testing.T) {
	ctx := context.Background()
	s, path := openTestJSON(t)

	if err := s.Set(ctx, 5, domain.Preferences{City: "Москва", Provider: "open-meteo", NotifyTime: "09:00", MagneticRegion: "RAL5"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "Москва") {
		t.Fatalf("non-ASCII must be written literally: %s", text)
	}
	if !strings.Contains(text, "\n  \"5\": {\n    \"city\"") {
		t.Fatalf("file must be indented: %s", text)
	}
	if !strings.Contains(text, `"notify_time": "09:00"`) || !strings.Contains(text, `"magnetic_region": "RAL5"`) {
		t.Fatalf("unexpected field names: %s", text)
	}
}

func TestJSONStore_CorruptFileRecovers(t *testing.T) {
	ctx := context.Background()
	s, path := openTestJSON(t)

	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := s.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get on corrupt file: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("want zero, got %+v", got)
	}
	if err := s.Set(ctx, 1, domain.Preferences{City: "Oslo"}); err != nil {
		t.Fatalf("set after corruption: %v", err)
	}
	got, _ = s.Get(ctx, 1)
	if got.City != "Oslo" {
		t.Fatalf("store did not heal: %+v", got)
	}
}

func TestJSONStore_MissingFileRecreated(t *testing.T) {
	ctx := context.Background()
	s, path := openTestJSON(t)

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.Set(ctx, 3, domain.Preferences{City: "Oslo"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("file not recreated: %v", err)
	}
}

func TestJSONStore_ConcurrentWritersKeepAllUsers(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestJSON(t)

	var wg sync.WaitGroup
	for i := int64(1); i <= 20; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			if err := s.Set(ctx, id, domain.Preferences{City: "Oslo"}); err != nil {
				t.Errorf("set %d: %v", id, err)
			}
		}(i)
	}
	wg.Wait()

	all, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 20 {
		t.Fatalf("want 20 users, got %d", len(all))
	}
}
