package store

import (
	"context"
	"os"
	"testing"

	"github.com/ykvlv/forecast-bot/internal/domain"
)

// Runs only against a real server: REDIS_ADDR=localhost:6379 go test ./internal/store
func TestRedisStore_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	key := "forecast-bot:test:" + t.Name()

	s, err := OpenRedis(ctx, RedisOptions{Addr: addr, Key: key})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	defer s.client.Del(ctx, key)

	p := domain.Preferences{City: "Oslo", Provider: "open-meteo", NotifyTime: "07:30", MagneticRegion: "RAL5"}
	if err := s.Set(ctx, 11, p); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get(ctx, 11)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != p {
		t.Fatalf("want %+v, got %+v", p, got)
	}
	if got, _ := s.Get(ctx, 12); !got.IsZero() {
		t.Fatalf("want zero for unknown user, got %+v", got)
	}
	all, err := s.List(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("list: %v %+v", err, all)
	}
}
