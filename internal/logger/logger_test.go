package logger

import "testing"

func TestNew(t *testing.T) {
	for _, mode := range []string{"development", "production", "PROD", ""} {
		l, err := New(mode)
		if err != nil {
			t.Fatalf("New(%q): %v", mode, err)
		}
		l.With("component", "test").Debug("ok", "mode", mode)
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("discarded", "k", 1)
	l.Sync()
}
