package pkg

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/qnkhuat/netchess/pkg/board"
)

type recordedCues struct {
	mu   sync.Mutex
	cues []Cue
}

func (r *recordedCues) Play(c Cue) {
	r.mu.Lock()
	r.cues = append(r.cues, c)
	r.mu.Unlock()
}

func (r *recordedCues) last() Cue {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cues[len(r.cues)-1]
}

type side struct {
	*Client
	in   <-chan Inbound
	cues *recordedCues
}

// newGame connects two clients over a pipe. The white client writes its
// moves to logPath. The black reader is left to the caller unless
// listenBlack is set.
func newGame(t *testing.T, logPath string, listenBlack bool) (white, black *side) {
	t.Helper()
	a, b := net.Pipe()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	var log *MoveLog
	if logPath != "" {
		var err error
		if log, err = OpenMoveLog(logPath); err != nil {
			t.Fatal(err)
		}
	}

	white = &side{cues: &recordedCues{}}
	white.Client = NewClient(Player1, NewCoordinator(a, 0), log, white.cues)
	white.in = white.Listen(ctx)

	black = &side{cues: &recordedCues{}}
	black.Client = NewClient(Player2, NewCoordinator(b, 0), nil, black.cues)
	if listenBlack {
		black.in = black.Listen(ctx)
	}

	t.Cleanup(func() {
		white.Close()
		black.Close()
	})
	return white, black
}

// move commits from->to on s and delivers it to peer.
func move(t *testing.T, s, peer *side, from, to board.Square) {
	t.Helper()
	if ok, err := s.Click(from); ok || err != nil {
		t.Fatalf("select %s: committed=%v err=%v", from, ok, err)
	}
	if ok, err := s.Click(to); !ok || err != nil {
		t.Fatalf("move %s -> %s: committed=%v err=%v", from, to, ok, err)
	}
	deliver(t, peer)
}

func deliver(t *testing.T, s *side) {
	t.Helper()
	select {
	case msg := <-s.in:
		if err := s.HandleInbound(msg); err != nil {
			t.Fatalf("HandleInbound: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no move arrived")
	}
}

func TestOpeningMove(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "moves.log")
	white, black := newGame(t, logPath, true)

	if ok, err := white.Click(board.Sq(4, 6)); ok || err != nil {
		t.Fatalf("select: %v %v", ok, err)
	}
	f := white.Snapshot()
	for _, sq := range []board.Square{board.Sq(4, 5), board.Sq(4, 4)} {
		if h := f.Highlights.At(sq); h != board.ValidMove {
			t.Errorf("%s highlighted %s, want ValidMove", sq, h)
		}
	}
	for _, sq := range f.Highlights.Marked() {
		if f.Highlights.At(sq) == board.ValidCapture {
			t.Errorf("unexpected capture at %s", sq)
		}
	}
	if f.TurnLabel != "Player 1's Turn" {
		t.Errorf("turn label %q", f.TurnLabel)
	}

	if ok, err := white.Click(board.Sq(4, 4)); !ok || err != nil {
		t.Fatalf("commit: %v %v", ok, err)
	}
	if white.Turn() != Player2 {
		t.Error("turn did not pass to Player2")
	}

	msg := <-black.in
	if msg.Err != nil || msg.Record != openingMove {
		t.Fatalf("black received %+v", msg)
	}
	if err := black.HandleInbound(msg); err != nil {
		t.Fatal(err)
	}

	b := black.Board()
	if b.At(board.Sq(4, 4)) != board.WhitePawn || b.At(board.Sq(4, 6)) != board.Empty {
		t.Error("black board does not show the move")
	}
	if black.Turn() != Player2 {
		t.Error("black should be on turn")
	}
	bf := black.Snapshot()
	if bf.Highlights.At(board.Sq(4, 4)) != board.EnemyMove || bf.Highlights.At(board.Sq(4, 5)) != board.EnemyMove {
		t.Error("enemy move shadow not drawn")
	}
	if bf.LastMove != "Last move:\nWhitePawn (4, 6) moved to (4, 4)." {
		t.Errorf("last move %q", bf.LastMove)
	}
	if black.cues.last() != CueMove || white.cues.last() != CueMove {
		t.Error("expected move cues on both sides")
	}

	white.Log.Close()
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "1 4 6 0 0 4 4\n" {
		t.Errorf("move log %q", data)
	}
}

func TestIgnoredClicks(t *testing.T) {
	white, black := newGame(t, "", true)

	clicks := []struct {
		name string
		cl   *side
		sq   board.Square
	}{
		{"empty square", white, board.Sq(4, 4)},
		{"enemy piece", white, board.Sq(0, 0)},
		{"out of turn", black, board.Sq(4, 1)},
		{"off board", white, board.Sq(8, 3)},
	}
	for _, c := range clicks {
		if ok, err := c.cl.Click(c.sq); ok || err != nil {
			t.Errorf("%s: committed=%v err=%v", c.name, ok, err)
		}
		if white.Turn() != Player1 {
			t.Fatalf("%s flipped the turn", c.name)
		}
	}
	if _, selecting := black.Selection(); selecting {
		t.Error("black selected out of turn")
	}

	white.Click(board.Sq(4, 6))
	if ok, _ := white.Click(board.Sq(4, 2)); ok {
		t.Error("committed to a square that is not highlighted")
	}
	if _, selecting := white.Selection(); selecting {
		t.Error("selection should be dropped")
	}
	if len(white.Snapshot().Highlights.Marked()) != 0 {
		t.Error("highlights should be cleared")
	}

	white.Click(board.Sq(6, 7))
	white.Click(board.Sq(3, 6))
	sel, selecting := white.Selection()
	if !selecting || sel != board.Sq(3, 6) {
		t.Errorf("clicking another own piece should reselect, got %s %v", sel, selecting)
	}
	if white.Turn() != Player1 {
		t.Error("turn flipped without a move")
	}
}

func TestKingCaptureEndsGame(t *testing.T) {
	white, black := newGame(t, "", true)

	moves := []struct {
		white    bool
		from, to board.Square
	}{
		{true, board.Sq(4, 6), board.Sq(4, 4)},
		{false, board.Sq(5, 1), board.Sq(5, 2)},
		{true, board.Sq(3, 7), board.Sq(7, 3)},
		{false, board.Sq(0, 1), board.Sq(0, 2)},
	}
	for i, m := range moves {
		s, peer := white, black
		if !m.white {
			s, peer = black, white
		}
		wantTurn := s.Turn()
		move(t, s, peer, m.from, m.to)
		if s.Turn() == wantTurn || peer.Turn() == wantTurn {
			t.Fatalf("move %d did not flip the turn", i)
		}
		b := white.Board()
		if n := b.Count(board.Empty); n != 32 {
			t.Fatalf("move %d changed the piece count to %d", i, n)
		}
	}

	// Qh5xe8: the black king is gone.
	if ok, err := white.Click(board.Sq(7, 3)); ok || err != nil {
		t.Fatal(ok, err)
	}
	if h := white.Snapshot().Highlights.At(board.Sq(4, 0)); h != board.ValidCapture {
		t.Fatalf("king square highlighted %s", h)
	}
	if ok, err := white.Click(board.Sq(4, 0)); !ok || err != nil {
		t.Fatal(ok, err)
	}
	if white.cues.last() != CueCapture {
		t.Error("capturing side should play the capture cue")
	}
	if white.Outcome() != WhiteWon {
		t.Errorf("white outcome %s", white.Outcome())
	}
	select {
	case <-white.Done():
	default:
		t.Error("white session not closed")
	}
	if !white.Coord.Terminated() {
		t.Error("white connection still open")
	}

	deliver(t, black)
	if black.Outcome() != WhiteWon {
		t.Errorf("black outcome %s", black.Outcome())
	}
	if black.cues.last() != CueMove {
		t.Error("receiving side only plays the move cue")
	}
	b := black.Board()
	if n := b.Count(board.Empty); n != 31 {
		t.Errorf("piece count after capture %d", n)
	}
	if b.At(board.Sq(4, 0)) != board.WhiteQueen {
		t.Error("queen not on e8")
	}

	if _, err := white.Click(board.Sq(4, 0)); !errors.Is(err, ErrGameOver) {
		t.Errorf("click after the end: %v", err)
	}
	if EndAction(black.Outcome(), black.Color) != ActionLose || EndAction(white.Outcome(), white.Color) != ActionWin {
		t.Error("wrong end actions")
	}
}

func TestReceivedPromotion(t *testing.T) {
	_, black := newGame(t, "", true)

	rec := MoveRecord{
		Piece:   board.WhitePawn,
		From:    board.Sq(0, 6),
		Capture: true,
		Target:  board.BlackRook,
		To:      board.Sq(0, 0),
	}
	if err := black.ApplyReceived(rec); err != nil {
		t.Fatal(err)
	}
	b := black.Board()
	if b.At(board.Sq(0, 0)) != board.WhiteQueen {
		t.Errorf("a8 holds %s, want WhiteQueen", b.At(board.Sq(0, 0)))
	}
	if black.Turn() != Player2 {
		t.Error("turn not flipped")
	}
}

func TestOutOfTurnAborts(t *testing.T) {
	white, _ := newGame(t, "", true)

	if err := white.ApplyReceived(openingMove); !errors.Is(err, ErrOutOfTurn) {
		t.Fatalf("expected ErrOutOfTurn, got %v", err)
	}
	if white.Outcome() != Aborted {
		t.Errorf("outcome %s", white.Outcome())
	}
	if !errors.Is(white.Err(), ErrOutOfTurn) {
		t.Errorf("err %v", white.Err())
	}
}

func TestRejectsMovesThatDoNotFit(t *testing.T) {
	t.Run("peer plays the same side", func(t *testing.T) {
		white, black := newGame(t, "", true)
		move(t, white, black, board.Sq(4, 6), board.Sq(4, 4))

		rec := MoveRecord{Piece: board.WhitePawn, From: board.Sq(3, 6), Target: board.Empty, To: board.Sq(3, 4)}
		if err := white.ApplyReceived(rec); !errors.Is(err, ErrOutOfTurn) {
			t.Fatalf("expected ErrOutOfTurn, got %v", err)
		}
		if white.Outcome() != Aborted {
			t.Errorf("outcome %s", white.Outcome())
		}
		b := white.Board()
		if b.At(board.Sq(3, 6)) != board.WhitePawn {
			t.Error("rejected move reached the board")
		}
	})

	tests := map[string]MoveRecord{
		"wrong piece on from": {Piece: board.WhiteKnight, From: board.Sq(4, 6), Target: board.Empty, To: board.Sq(4, 4)},
		"empty from":          {Piece: board.WhitePawn, From: board.Sq(4, 4), Target: board.Empty, To: board.Sq(4, 3)},
		"wrong target":        {Piece: board.WhitePawn, From: board.Sq(4, 6), Capture: true, Target: board.BlackPawn, To: board.Sq(4, 5)},
	}
	for name, rec := range tests {
		t.Run(name, func(t *testing.T) {
			_, black := newGame(t, "", true)
			if err := black.ApplyReceived(rec); !errors.Is(err, ErrMalformedPacket) {
				t.Fatalf("expected ErrMalformedPacket, got %v", err)
			}
			if black.Outcome() != Aborted {
				t.Errorf("outcome %s", black.Outcome())
			}
		})
	}
}

func TestLostConnectionAborts(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "moves.log")
	white, black := newGame(t, logPath, true)
	black.Coord.Close()

	white.Click(board.Sq(4, 6))
	ok, err := white.Click(board.Sq(4, 4))
	if !ok || !errors.Is(err, ErrConnectionLost) {
		t.Fatalf("commit: ok=%v err=%v", ok, err)
	}
	if white.Outcome() != Aborted {
		t.Errorf("outcome %s", white.Outcome())
	}
	if EndAction(white.Outcome(), white.Color) != ActionAborted {
		t.Error("aborted game should not report a result")
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 0 {
		t.Errorf("unsent move logged: %q", data)
	}
}

func TestRunAbortsWhenPeerLeaves(t *testing.T) {
	white, black := newGame(t, "", false)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan Outcome, 1)
	go func() { done <- black.Run(ctx) }()

	white.Click(board.Sq(4, 6))
	if ok, err := white.Click(board.Sq(4, 4)); !ok || err != nil {
		t.Fatal(ok, err)
	}
	for black.Turn() != Player2 {
		if ctx.Err() != nil {
			t.Fatal("black never received the move")
		}
		time.Sleep(5 * time.Millisecond)
	}

	black.Click(board.Sq(4, 1))
	if ok, err := black.Click(board.Sq(4, 3)); !ok || err != nil {
		t.Fatal(ok, err)
	}
	white.Close()

	select {
	case o := <-done:
		if o != Aborted {
			t.Errorf("Run returned %s", o)
		}
	case <-ctx.Done():
		t.Fatal("Run did not return")
	}
	if !errors.Is(black.Err(), ErrConnectionLost) {
		t.Errorf("err %v", black.Err())
	}
}

func TestCloseMidGame(t *testing.T) {
	white, _ := newGame(t, "", true)
	if err := white.Close(); err != nil {
		t.Fatal(err)
	}
	if white.Outcome() != Aborted || white.Err() == nil {
		t.Errorf("outcome %s err %v", white.Outcome(), white.Err())
	}
	if err := white.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
