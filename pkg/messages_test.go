package pkg

import (
	"errors"
	"testing"

	"github.com/qnkhuat/netchess/pkg/board"
)

func TestEncodeOpeningMove(t *testing.T) {
	m := MoveRecord{
		Piece:  board.WhitePawn,
		From:   board.Sq(4, 6),
		Target: board.Empty,
		To:     board.Sq(4, 4),
	}
	want := Packet{1, 4, 6, 0, 0, 4, 4}
	if got := Encode(m); got != want {
		t.Errorf("Encode = %v, want %v", got, want)
	}
	if got := m.LogLine(); got != "1 4 6 0 0 4 4" {
		t.Errorf("LogLine = %q", got)
	}
	if got := m.Describe(); got != "WhitePawn (4, 6) moved to (4, 4)." {
		t.Errorf("Describe = %q", got)
	}
}

func TestPacketRoundTrip(t *testing.T) {
	for p := board.WhitePawn; p <= board.MaxPiece; p++ {
		for target := board.Empty; target <= board.MaxPiece; target++ {
			m := MoveRecord{
				Piece:   p,
				From:    board.Sq(int(p)%board.Size, int(target)%board.Size),
				Capture: target != board.Empty,
				Target:  target,
				To:      board.Sq(7-int(target)%board.Size, int(p)%board.Size),
			}
			got, err := Decode(Encode(m))
			if err != nil {
				t.Fatalf("Decode(%v): %v", m, err)
			}
			if got != m {
				t.Fatalf("round trip: got %+v, want %+v", got, m)
			}
			back, err := ParseLogLine(m.LogLine())
			if err != nil || back != m {
				t.Fatalf("log line round trip: got %+v %v", back, err)
			}
		}
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := map[string]Packet{
		"empty piece":   {0, 4, 6, 0, 0, 4, 4},
		"unknown piece": {13, 4, 6, 0, 0, 4, 4},
		"bad target":    {1, 4, 6, 1, 99, 4, 4},
		"capture flag":  {1, 4, 6, 2, 0, 4, 4},
		"from off":      {1, 8, 6, 0, 0, 4, 4},
		"to off":        {1, 4, 6, 0, 0, 4, 200},
	}
	for name, p := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode(p); !errors.Is(err, ErrMalformedPacket) {
				t.Errorf("expected ErrMalformedPacket, got %v", err)
			}
		})
	}
}

func TestParseLogLineRejects(t *testing.T) {
	for _, line := range []string{"", "1 4 6 0 0 4", "1 4 6 0 0 4 4 4", "1 4 6 0 0 4 x", "1 4 6 0 0 4 -1", "1 4 6 0 0 4 256"} {
		if _, err := ParseLogLine(line); !errors.Is(err, ErrMalformedPacket) {
			t.Errorf("ParseLogLine(%q): expected ErrMalformedPacket, got %v", line, err)
		}
	}
}

func TestDescribeCapture(t *testing.T) {
	m := MoveRecord{
		Piece:   board.BlackKnight,
		From:    board.Sq(1, 0),
		Capture: true,
		Target:  board.WhiteBishop,
		To:      board.Sq(2, 2),
	}
	if got := m.Describe(); got != "BlackKnight (1, 0) captured WhiteBishop (2, 2)." {
		t.Errorf("Describe = %q", got)
	}
}
