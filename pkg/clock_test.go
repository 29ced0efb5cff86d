package pkg

import (
	"testing"
	"time"

	"go.uber.org/zap/zapcore"
)

func TestClock(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cl := NewClock()
	cl.now = func() time.Time { return now }

	if cl.String() != "0:00" {
		t.Errorf("fresh clock %s", cl)
	}

	cl.Tick()
	now = now.Add(70 * time.Second)
	if cl.Used() != 70*time.Second {
		t.Errorf("running clock %s", cl.Used())
	}
	cl.Pause()
	now = now.Add(time.Hour)
	if cl.String() != "1:10" {
		t.Errorf("paused clock %s", cl)
	}

	cl.Tick()
	cl.Tick()
	now = now.Add(5 * time.Second)
	cl.Pause()
	cl.Pause()
	if cl.Used() != 75*time.Second {
		t.Errorf("double tick or pause counted twice: %s", cl.Used())
	}

	cl.Reset()
	if cl.Used() != 0 || !cl.Paused {
		t.Error("Reset should zero and pause the clock")
	}
}

func TestParseColor(t *testing.T) {
	for in, want := range map[string]PlayerColor{
		"white": Player1, "Player1": Player1, "1": Player1,
		" black ": Player2, "player2": Player2, "b": Player2,
	} {
		got, err := ParseColor(in)
		if err != nil || got != want {
			t.Errorf("ParseColor(%q) = %s, %v", in, got, err)
		}
	}
	if _, err := ParseColor("red"); err == nil {
		t.Error("expected an error for an unknown side")
	}
	if PlayerNumber(Player1) != 1 || PlayerNumber(Player2) != 2 {
		t.Error("player numbers")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARN":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %s", in, got)
		}
	}
}
