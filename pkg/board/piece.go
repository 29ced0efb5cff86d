package board

import "github.com/notnil/chess"

// Color is the side a piece belongs to. White is Player1 and moves first.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	if c == Black {
		return "Black"
	}
	return "White"
}

// Kind is a piece kind without color.
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Rook
	Knight
	Bishop
	Queen
	King
)

var kindNames = [...]string{"None", "Pawn", "Rook", "Knight", "Bishop", "Queen", "King"}

func (k Kind) String() string {
	if int(k) >= len(kindNames) {
		return "None"
	}
	return kindNames[k]
}

// Piece is the value stored in a board square. The numeric values are part of
// the wire format and the move log, so they must not be reordered.
type Piece uint8

const (
	Empty Piece = iota
	WhitePawn
	WhiteRook
	WhiteKnight
	WhiteBishop
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackRook
	BlackKnight
	BlackBishop
	BlackQueen
	BlackKing
)

// ColorThreshold separates the two colors: values above it are Black.
const ColorThreshold = 6

// MaxPiece is the largest valid Piece value.
const MaxPiece = BlackKing

// NewPiece builds the piece of kind k and color c.
func NewPiece(c Color, k Kind) Piece {
	if k == NoKind || k > King {
		return Empty
	}
	if c == Black {
		return Piece(k) + ColorThreshold
	}
	return Piece(k)
}

// Valid reports whether p is Empty or one of the twelve playable pieces.
func (p Piece) Valid() bool {
	return p <= MaxPiece
}

// Color returns the owner of p. It is meaningless for Empty.
func (p Piece) Color() Color {
	if p > ColorThreshold {
		return Black
	}
	return White
}

// Kind strips the color from p.
func (p Piece) Kind() Kind {
	switch {
	case p == Empty || !p.Valid():
		return NoKind
	case p > ColorThreshold:
		return Kind(p - ColorThreshold)
	default:
		return Kind(p)
	}
}

// Belongs reports whether p is a piece of color c.
func (p Piece) Belongs(c Color) bool {
	return p != Empty && p.Valid() && p.Color() == c
}

func (p Piece) String() string {
	if p == Empty {
		return "Empty"
	}
	if !p.Valid() {
		return "Invalid"
	}
	return p.Color().String() + p.Kind().String()
}

var toChess = map[Piece]chess.Piece{
	WhitePawn:   chess.WhitePawn,
	WhiteRook:   chess.WhiteRook,
	WhiteKnight: chess.WhiteKnight,
	WhiteBishop: chess.WhiteBishop,
	WhiteQueen:  chess.WhiteQueen,
	WhiteKing:   chess.WhiteKing,
	BlackPawn:   chess.BlackPawn,
	BlackRook:   chess.BlackRook,
	BlackKnight: chess.BlackKnight,
	BlackBishop: chess.BlackBishop,
	BlackQueen:  chess.BlackQueen,
	BlackKing:   chess.BlackKing,
}

// Chess converts p to its notnil/chess equivalent.
func (p Piece) Chess() chess.Piece {
	if cp, ok := toChess[p]; ok {
		return cp
	}
	return chess.NoPiece
}

// Glyph returns the unicode figurine for p, or a space for Empty.
func (p Piece) Glyph() string {
	if p == Empty || !p.Valid() {
		return " "
	}
	return p.Chess().String()
}
