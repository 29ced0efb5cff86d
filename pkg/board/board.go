// Package board holds the 8x8 piece grid, the highlight grid that drives
// presentation, the per-piece destination generators and king-loss detection.
//
// Coordinates are (file, rank) with rank 0 at the top of the screen: Black's
// back rank is rank 0 and White's is rank 7. White advances toward rank 0.
package board

import (
	"fmt"

	"github.com/notnil/chess"
)

const Size = 8

// Square is a (file, rank) coordinate.
type Square struct {
	X int
	Y int
}

// Sq is shorthand for Square{x, y}.
func Sq(x, y int) Square {
	return Square{X: x, Y: y}
}

// InBounds reports whether both coordinates are in [0,7].
func (s Square) InBounds() bool {
	return s.X >= 0 && s.X < Size && s.Y >= 0 && s.Y < Size
}

// Add offsets s by (dx, dy).
func (s Square) Add(dx, dy int) Square {
	return Square{X: s.X + dx, Y: s.Y + dy}
}

func (s Square) String() string {
	return fmt.Sprintf("(%d, %d)", s.X, s.Y)
}

// Board is the piece grid, indexed [rank][file].
type Board [Size][Size]Piece

var backRank = [Size]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns a board in the standard opening position.
func NewBoard() *Board {
	b := &Board{}
	b.Reset()
	return b
}

// Reset puts every piece back on its opening square.
func (b *Board) Reset() {
	*b = Board{}
	for x := 0; x < Size; x++ {
		b[0][x] = NewPiece(Black, backRank[x])
		b[1][x] = BlackPawn
		b[6][x] = WhitePawn
		b[7][x] = NewPiece(White, backRank[x])
	}
}

// At returns the piece on sq.
func (b *Board) At(sq Square) Piece {
	return b[sq.Y][sq.X]
}

// Set places p on sq.
func (b *Board) Set(sq Square, p Piece) {
	b[sq.Y][sq.X] = p
}

// PromotionRank is the far rank for pawns of color c.
func PromotionRank(c Color) int {
	if c == Black {
		return Size - 1
	}
	return 0
}

// ApplyMove moves the piece on from to to, overwriting whatever stood there,
// and promotes a pawn that lands on its far rank to a queen. It returns the
// piece now on to.
func (b *Board) ApplyMove(from, to Square) Piece {
	p := b.At(from)
	b.Set(from, Empty)
	if p.Kind() == Pawn && to.Y == PromotionRank(p.Color()) {
		p = NewPiece(p.Color(), Queen)
	}
	b.Set(to, p)
	return p
}

// Count returns how many non-empty squares hold p, or all pieces when p is Empty.
func (b *Board) Count(p Piece) int {
	n := 0
	for y := range b {
		for x := range b[y] {
			v := b[y][x]
			if v == Empty {
				continue
			}
			if p == Empty || v == p {
				n++
			}
		}
	}
	return n
}

// FEN returns the piece placement field of a FEN string.
func (b *Board) FEN() string {
	m := make(map[chess.Square]chess.Piece)
	for y := range b {
		for x, p := range b[y] {
			if p == Empty {
				continue
			}
			m[toChessSquare(Square{X: x, Y: y})] = p.Chess()
		}
	}
	return chess.NewBoard(m).String()
}

func toChessSquare(sq Square) chess.Square {
	return chess.Square((Size-1-sq.Y)*Size + sq.X)
}

// Highlight marks a square for presentation only.
type Highlight uint8

const (
	None Highlight = iota
	ValidMove
	ValidCapture
	EnemyMove
	EnemyCapture
)

var highlightNames = [...]string{"Empty", "ValidMove", "ValidCapture", "EnemyMove", "EnemyCapture"}

func (h Highlight) String() string {
	if int(h) >= len(highlightNames) {
		return "Unknown"
	}
	return highlightNames[h]
}

// Selectable reports whether clicking a square with h commits a move.
func (h Highlight) Selectable() bool {
	return h == ValidMove || h == ValidCapture
}

// Highlights is the highlight grid, indexed [rank][file].
type Highlights [Size][Size]Highlight

// At returns the highlight on sq.
func (h Highlights) At(sq Square) Highlight {
	return h[sq.Y][sq.X]
}

// Set marks sq with v.
func (h *Highlights) Set(sq Square, v Highlight) {
	h[sq.Y][sq.X] = v
}

// Clear resets every square to None.
func (h *Highlights) Clear() {
	*h = Highlights{}
}

// Marked returns every square whose highlight is not None.
func (h Highlights) Marked() []Square {
	var out []Square
	for y := range h {
		for x := range h[y] {
			if h[y][x] != None {
				out = append(out, Square{X: x, Y: y})
			}
		}
	}
	return out
}
