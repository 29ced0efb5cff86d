package main

import (
	"testing"
	"time"

	"github.com/qnkhuat/netchess/pkg"
	"github.com/qnkhuat/netchess/pkg/board"
	"github.com/qnkhuat/netchess/pkg/store"
)

func TestStoredOutcome(t *testing.T) {
	tests := []struct {
		outcome pkg.Outcome
		local   pkg.PlayerColor
		want    store.Result
	}{
		{pkg.WhiteWon, board.White, store.ResultWhite},
		{pkg.BlackWon, board.White, store.ResultBlack},
		{pkg.Aborted, board.Black, store.ResultAborted},
		{pkg.Playing, board.Black, store.ResultAborted},
	}
	for _, tt := range tests {
		got := storedOutcome(tt.outcome, tt.local, "s1")
		if got.Result != tt.want || got.Session != "s1" {
			t.Errorf("storedOutcome(%s, %s) = %+v", tt.outcome, tt.local, got)
		}
	}
}

func TestStoredOutcomeCountsWins(t *testing.T) {
	db, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	games := []struct {
		outcome pkg.Outcome
		local   pkg.PlayerColor
	}{
		{pkg.WhiteWon, board.White},
		{pkg.BlackWon, board.Black},
		{pkg.WhiteWon, board.Black},
		{pkg.Playing, board.White},
	}
	var stats *store.Stats
	for _, g := range games {
		if stats, err = db.RecordResult(storedOutcome(g.outcome, g.local, ""), time.Second); err != nil {
			t.Fatalf("RecordResult: %v", err)
		}
	}
	if stats.Wins != 2 || stats.Losses != 1 || stats.Aborted != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}
