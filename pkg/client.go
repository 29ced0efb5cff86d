package pkg

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/qnkhuat/netchess/pkg/board"
	"go.uber.org/zap"
)

var ErrGameOver = errors.New("game is over")

// Cue is an audio trigger.
type Cue int

const (
	CueMove Cue = iota
	CueCapture
)

// Cues plays audio cues. Implementations must not block.
type Cues interface {
	Play(Cue)
}

type silent struct{}

func (silent) Play(Cue) {}

// Outcome is the terminal state of a session.
type Outcome int

const (
	Playing Outcome = iota
	WhiteWon
	BlackWon
	Aborted
)

// Won is the outcome crediting c.
func Won(c PlayerColor) Outcome {
	if c == board.Black {
		return BlackWon
	}
	return WhiteWon
}

// Winner reports the winning side, if there is one.
func (o Outcome) Winner() (PlayerColor, bool) {
	switch o {
	case WhiteWon:
		return board.White, true
	case BlackWon:
		return board.Black, true
	default:
		return board.White, false
	}
}

func (o Outcome) String() string {
	switch o {
	case Playing:
		return "playing"
	case WhiteWon:
		return "white"
	case BlackWon:
		return "black"
	default:
		return "aborted"
	}
}

// Frame is everything the renderer needs for one frame.
type Frame struct {
	Board      board.Board
	Highlights board.Highlights
	TurnLabel  string
	LastMove   string
	Clocks     [2]string
	Local      PlayerColor
	Outcome    Outcome
}

// Client is one side of a game: the board, whose turn it is, the local
// selection and the connection to the peer.
type Client struct {
	ID    string
	Name  string
	Color PlayerColor

	Coord  *Coordinator
	Log    *MoveLog
	Cues   Cues
	Clocks [2]*Clock

	mu            sync.Mutex
	board         *board.Board
	highlights    board.Highlights
	turn          PlayerColor
	selecting     bool
	lastSelection board.Square
	lastMove      string
	outcome       Outcome
	err           error
	done          chan struct{}
}

// NewClient starts a session in the opening position with White to move.
// log and cues may be nil.
func NewClient(color PlayerColor, coord *Coordinator, log *MoveLog, cues Cues) *Client {
	if cues == nil {
		cues = silent{}
	}
	cl := &Client{
		ID:       uuid.NewString(),
		Color:    color,
		Coord:    coord,
		Log:      log,
		Cues:     cues,
		Clocks:   [2]*Clock{NewClock(), NewClock()},
		board:    board.NewBoard(),
		turn:     Player1,
		lastMove: "Board Created.",
		done:     make(chan struct{}),
	}
	cl.Clocks[cl.turn].Tick()
	zap.L().Info("session started",
		zap.String("session", cl.ID),
		zap.Stringer("side", color),
	)
	return cl
}

// Listen starts the background reader. The first read is armed right away
// when the peer moves first.
func (cl *Client) Listen(ctx context.Context) <-chan Inbound {
	in := cl.Coord.Listen(ctx)
	cl.mu.Lock()
	if cl.turn != cl.Color {
		cl.Coord.Await()
	}
	cl.mu.Unlock()
	return in
}

// Run applies inbound moves until the session ends. It is the headless
// counterpart of the GUI loop.
func (cl *Client) Run(ctx context.Context) Outcome {
	in := cl.Listen(ctx)
	for {
		select {
		case <-ctx.Done():
			cl.Close()
			return cl.Outcome()
		case <-cl.done:
			return cl.Outcome()
		case msg, ok := <-in:
			if !ok {
				if cl.Outcome() == Playing {
					cl.Abort(ErrConnectionLost)
				}
				return cl.Outcome()
			}
			cl.HandleInbound(msg)
		}
	}
}

// Done is closed once the session reaches a terminal outcome.
func (cl *Client) Done() <-chan struct{} {
	return cl.done
}

// Click handles a press on sq. It reports whether a move was committed.
// Clicks out of turn, on empty or enemy squares without a selection, and on
// squares that are not highlighted are ignored.
func (cl *Client) Click(sq board.Square) (bool, error) {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if cl.outcome != Playing {
		return false, ErrGameOver
	}
	if cl.turn != cl.Color || !sq.InBounds() {
		return false, nil
	}

	if cl.board.At(sq).Belongs(cl.Color) {
		cl.selecting = true
		cl.lastSelection = sq
		board.GenerateInto(cl.board, sq, board.Own, &cl.highlights)
		return false, nil
	}

	if cl.selecting && cl.highlights.At(sq).Selectable() {
		return true, cl.commitL(cl.lastSelection, sq)
	}

	cl.selecting = false
	cl.highlights.Clear()
	return false, nil
}

// Selection returns the selected square, if any.
func (cl *Client) Selection() (board.Square, bool) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.lastSelection, cl.selecting
}

func (cl *Client) commitL(from, to board.Square) error {
	rec := MoveRecord{
		Piece:   cl.board.At(from),
		From:    from,
		Capture: cl.highlights.At(to) == board.ValidCapture,
		Target:  cl.board.At(to),
		To:      to,
	}
	cl.selecting = false
	cl.highlights.Clear()

	cl.applyL(rec)

	if err := cl.Coord.Send(rec); err != nil {
		cl.abortL(err)
		return err
	}
	cl.logL(rec)
	if rec.Capture {
		cl.Cues.Play(CueCapture)
	} else {
		cl.Cues.Play(CueMove)
	}

	if !cl.checkGameOverL() {
		cl.Coord.Await()
	}
	return nil
}

// ApplyReceived applies the peer's move. Receiving out of turn, a move of
// the local side's pieces or a record that does not fit the board ends the
// session.
func (cl *Client) ApplyReceived(rec MoveRecord) error {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if cl.outcome != Playing {
		return ErrGameOver
	}
	if cl.turn == cl.Color {
		cl.abortL(ErrOutOfTurn)
		return ErrOutOfTurn
	}
	if err := rec.validate(); err != nil {
		cl.abortL(err)
		return err
	}
	if !rec.Piece.Belongs(cl.Color.Other()) {
		err := fmt.Errorf("%w: peer moved %s while playing %s", ErrOutOfTurn, rec.Piece, cl.Color)
		cl.abortL(err)
		return err
	}
	if cl.board.At(rec.From) != rec.Piece || cl.board.At(rec.To) != rec.Target {
		err := fmt.Errorf("%w: %s does not match the board", ErrMalformedPacket, rec.Describe())
		cl.abortL(err)
		return err
	}

	cl.selecting = false
	board.GenerateInto(cl.board, rec.From, board.Enemy, &cl.highlights)

	cl.applyL(rec)
	cl.logL(rec)
	cl.Cues.Play(CueMove)
	cl.checkGameOverL()
	return nil
}

// HandleInbound applies a message from the reader goroutine.
func (cl *Client) HandleInbound(msg Inbound) error {
	if msg.Err != nil {
		cl.Abort(msg.Err)
		return msg.Err
	}
	return cl.ApplyReceived(msg.Record)
}

func (cl *Client) applyL(rec MoveRecord) {
	cl.board.ApplyMove(rec.From, rec.To)

	cl.Clocks[cl.turn].Pause()
	cl.turn = cl.turn.Other()
	cl.Clocks[cl.turn].Tick()

	cl.lastMove = rec.Describe()
}

func (cl *Client) logL(rec MoveRecord) {
	if err := cl.Log.Append(rec); err != nil {
		zap.L().Warn("move log append failed", zap.Error(err))
	}
	zap.L().Info("move",
		zap.String("session", cl.ID),
		zap.String("record", rec.LogLine()),
		zap.String("desc", cl.lastMove),
	)
}

func (cl *Client) checkGameOverL() bool {
	winner, ok := board.Winner(cl.board)
	if !ok {
		return false
	}
	cl.finishL(Won(winner), nil)
	zap.L().Info("game over",
		zap.String("session", cl.ID),
		zap.Stringer("winner", winner),
		zap.String("fen", cl.board.FEN()),
	)
	return true
}

// Abort ends the session without a result.
func (cl *Client) Abort(err error) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.abortL(err)
}

func (cl *Client) abortL(err error) {
	if cl.outcome != Playing {
		return
	}
	zap.L().Warn("session aborted", zap.String("session", cl.ID), zap.Error(err))
	cl.finishL(Aborted, err)
}

func (cl *Client) finishL(o Outcome, err error) {
	cl.outcome = o
	cl.err = err
	cl.selecting = false
	cl.Clocks[board.White].Pause()
	cl.Clocks[board.Black].Pause()
	cl.Coord.Close()
	close(cl.done)
}

// Close ends the session. Closing a game in progress counts as aborted.
func (cl *Client) Close() error {
	cl.mu.Lock()
	cl.abortL(fmt.Errorf("closed by %s", cl.Color))
	cl.mu.Unlock()
	return cl.Log.Close()
}

func (cl *Client) Outcome() Outcome {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.outcome
}

// Err is the failure that aborted the session, if any.
func (cl *Client) Err() error {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.err
}

func (cl *Client) Turn() PlayerColor {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.turn
}

// Board returns a copy of the current board.
func (cl *Client) Board() board.Board {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return *cl.board
}

// Snapshot copies the state the renderer draws.
func (cl *Client) Snapshot() Frame {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return Frame{
		Board:      *cl.board,
		Highlights: cl.highlights,
		TurnLabel:  fmt.Sprintf("Player %d's Turn", PlayerNumber(cl.turn)),
		LastMove:   "Last move:\n" + cl.lastMove,
		Clocks:     [2]string{cl.Clocks[0].String(), cl.Clocks[1].String()},
		Local:      cl.Color,
		Outcome:    cl.outcome,
	}
}
