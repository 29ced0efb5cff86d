package board

// Perspective selects which highlight pair a generator emits.
type Perspective uint8

const (
	// Own marks destinations for the local side's selected piece.
	Own Perspective = iota
	// Enemy marks the opponent's last-move shadow.
	Enemy
)

func (p Perspective) marks() (move, capture Highlight) {
	if p == Enemy {
		return EnemyMove, EnemyCapture
	}
	return ValidMove, ValidCapture
}

type generator func(b *Board, from Square, mover Color, hl *Highlights, p Perspective)

type offset struct{ dx, dy int }

var (
	orthogonal = []offset{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
	diagonal   = []offset{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}}
	royal      = append(append([]offset{}, orthogonal...), diagonal...)
	jumps      = []offset{{1, -2}, {2, -1}, {2, 1}, {1, 2}, {-1, 2}, {-2, 1}, {-2, -1}, {-1, -2}}
)

// generators holds one destination generator per piece kind.
var generators = [...]generator{
	Pawn:   pawnPath,
	Rook:   slider(orthogonal),
	Knight: stepper(jumps),
	Bishop: slider(diagonal),
	Queen:  slider(royal),
	King:   stepper(royal),
}

// Generate returns the highlight grid for the piece on from. Squares the piece
// cannot reach stay None, as does everything when from is empty.
func Generate(b *Board, from Square, p Perspective) Highlights {
	var hl Highlights
	GenerateInto(b, from, p, &hl)
	return hl
}

// GenerateInto clears hl and fills it for the piece on from.
func GenerateInto(b *Board, from Square, p Perspective, hl *Highlights) {
	hl.Clear()
	if !from.InBounds() {
		return
	}
	piece := b.At(from)
	k := piece.Kind()
	if k == NoKind || int(k) >= len(generators) || generators[k] == nil {
		return
	}
	generators[k](b, from, piece.Color(), hl, p)
}

// mark highlights sq if it is on the board and not held by the mover. It
// reports whether a sliding scan may continue past sq.
func mark(b *Board, sq Square, mover Color, hl *Highlights, p Perspective) bool {
	if !sq.InBounds() {
		return false
	}
	move, capture := p.marks()
	occupant := b.At(sq)
	switch {
	case occupant == Empty:
		hl.Set(sq, move)
		return true
	case occupant.Belongs(mover):
		return false
	default:
		hl.Set(sq, capture)
		return false
	}
}

func slider(dirs []offset) generator {
	return func(b *Board, from Square, mover Color, hl *Highlights, p Perspective) {
		for _, d := range dirs {
			for sq := from.Add(d.dx, d.dy); mark(b, sq, mover, hl, p); sq = sq.Add(d.dx, d.dy) {
			}
		}
	}
}

func stepper(steps []offset) generator {
	return func(b *Board, from Square, mover Color, hl *Highlights, p Perspective) {
		for _, d := range steps {
			mark(b, from.Add(d.dx, d.dy), mover, hl, p)
		}
	}
}

// Forward is the rank delta of one pawn step for color c.
func Forward(c Color) int {
	if c == Black {
		return 1
	}
	return -1
}

// StartRank is the rank pawns of color c begin on.
func StartRank(c Color) int {
	if c == Black {
		return 1
	}
	return Size - 2
}

// pawnPath allows a step onto an empty square, two steps from the start rank
// when both squares are empty, and a diagonal step onto an enemy. There is no
// en passant.
func pawnPath(b *Board, from Square, mover Color, hl *Highlights, p Perspective) {
	move, capture := p.marks()
	dy := Forward(mover)

	if ahead := from.Add(0, dy); ahead.InBounds() && b.At(ahead) == Empty {
		hl.Set(ahead, move)
		if two := ahead.Add(0, dy); from.Y == StartRank(mover) && b.At(two) == Empty {
			hl.Set(two, move)
		}
	}
	for _, dx := range []int{-1, 1} {
		sq := from.Add(dx, dy)
		if !sq.InBounds() {
			continue
		}
		if occupant := b.At(sq); occupant != Empty && !occupant.Belongs(mover) {
			hl.Set(sq, capture)
		}
	}
}
