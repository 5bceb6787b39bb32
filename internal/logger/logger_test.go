package logger

import "testing"

func TestNewLevels(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		log, err := New(lvl)
		if err != nil {
			t.Fatalf("level %s: %v", lvl, err)
		}
		_ = log.Sync()
	}
	if _, err := New("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
