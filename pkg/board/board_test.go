package board

import (
	"testing"
)

func TestNewBoardOpening(t *testing.T) {
	b := NewBoard()

	if got := b.Count(Empty); got != 32 {
		t.Fatalf("expected 32 pieces, got %d", got)
	}
	if b.At(Sq(4, 7)) != WhiteKing || b.At(Sq(4, 0)) != BlackKing {
		t.Errorf("kings misplaced: white=%s black=%s", b.At(Sq(4, 7)), b.At(Sq(4, 0)))
	}
	if b.At(Sq(3, 7)) != WhiteQueen || b.At(Sq(3, 0)) != BlackQueen {
		t.Errorf("queens misplaced")
	}
	for x := 0; x < Size; x++ {
		if b.At(Sq(x, 6)) != WhitePawn {
			t.Errorf("expected white pawn on %s, got %s", Sq(x, 6), b.At(Sq(x, 6)))
		}
		if b.At(Sq(x, 1)) != BlackPawn {
			t.Errorf("expected black pawn on %s, got %s", Sq(x, 1), b.At(Sq(x, 1)))
		}
		if b.At(Sq(x, 0)).Kind() != b.At(Sq(x, 7)).Kind() {
			t.Errorf("back ranks are not mirrored on file %d", x)
		}
	}

	if fen := b.FEN(); fen != "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR" {
		t.Errorf("unexpected FEN %q", fen)
	}
}

func TestPieceEncoding(t *testing.T) {
	for p := WhitePawn; p <= MaxPiece; p++ {
		if got := NewPiece(p.Color(), p.Kind()); got != p {
			t.Errorf("NewPiece(%s, %s) = %s, want %s", p.Color(), p.Kind(), got, p)
		}
		if (p > ColorThreshold) != (p.Color() == Black) {
			t.Errorf("%s on the wrong side of the color threshold", p)
		}
	}
	if Empty.Belongs(White) || Empty.Belongs(Black) {
		t.Error("Empty must not belong to a color")
	}
	if Piece(13).Valid() {
		t.Error("13 must not be a valid piece")
	}
}

func TestApplyMoveCaptureOverwrites(t *testing.T) {
	b := &Board{}
	b.Set(Sq(0, 7), WhiteRook)
	b.Set(Sq(0, 2), BlackKnight)

	if got := b.ApplyMove(Sq(0, 7), Sq(0, 2)); got != WhiteRook {
		t.Fatalf("expected rook on destination, got %s", got)
	}
	if b.At(Sq(0, 7)) != Empty {
		t.Errorf("source not emptied")
	}
	if b.Count(Empty) != 1 {
		t.Errorf("expected a single piece left, got %d", b.Count(Empty))
	}
}

func TestApplyMovePromotion(t *testing.T) {
	tests := []struct {
		name     string
		piece    Piece
		from, to Square
		want     Piece
	}{
		{"white reaches rank 0", WhitePawn, Sq(3, 1), Sq(3, 0), WhiteQueen},
		{"white captures onto rank 0", WhitePawn, Sq(3, 1), Sq(4, 0), WhiteQueen},
		{"black reaches rank 7", BlackPawn, Sq(5, 6), Sq(5, 7), BlackQueen},
		{"white short of the edge", WhitePawn, Sq(3, 2), Sq(3, 1), WhitePawn},
		{"black on white's far rank", BlackPawn, Sq(2, 1), Sq(2, 0), BlackPawn},
		{"white on black's far rank", WhitePawn, Sq(2, 6), Sq(2, 7), WhitePawn},
		{"rook on the far rank", WhiteRook, Sq(0, 1), Sq(0, 0), WhiteRook},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Board{}
			b.Set(tt.from, tt.piece)
			if got := b.ApplyMove(tt.from, tt.to); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
			if b.At(tt.to) != tt.want {
				t.Errorf("board holds %s, want %s", b.At(tt.to), tt.want)
			}
		})
	}
}

func TestWinner(t *testing.T) {
	b := NewBoard()
	if _, ok := Winner(b); ok {
		t.Fatal("no winner expected in the opening position")
	}

	b.Set(Sq(4, 0), WhiteQueen)
	if c, ok := Winner(b); !ok || c != White {
		t.Errorf("expected White to win, got %s %v", c, ok)
	}

	b.Reset()
	b.Set(Sq(4, 7), BlackRook)
	if c, ok := Winner(b); !ok || c != Black {
		t.Errorf("expected Black to win, got %s %v", c, ok)
	}
}

// Every kind that can reach a king must end the game when it captures it.
func TestWinnerByEveryKind(t *testing.T) {
	attackers := map[Kind]Square{
		Pawn:   Sq(3, 5),
		Rook:   Sq(4, 0),
		Knight: Sq(2, 3),
		Bishop: Sq(1, 1),
		Queen:  Sq(4, 7),
		King:   Sq(5, 5),
	}
	target := Sq(4, 4)

	for kind, from := range attackers {
		t.Run(kind.String(), func(t *testing.T) {
			b := &Board{}
			b.Set(Sq(7, 7), WhiteKing)
			b.Set(target, BlackKing)
			if kind == King {
				b.Set(Sq(7, 7), Empty)
			}
			b.Set(from, NewPiece(White, kind))

			hl := Generate(b, from, Own)
			if hl.At(target) != ValidCapture {
				t.Fatalf("%s on %s cannot capture the king on %s", kind, from, target)
			}
			b.ApplyMove(from, target)
			if c, ok := Winner(b); !ok || c != White {
				t.Errorf("expected White to win after %s takes the king", kind)
			}
		})
	}
}
