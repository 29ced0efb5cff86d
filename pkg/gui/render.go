package gui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/qnkhuat/netchess/pkg"
	"github.com/qnkhuat/netchess/pkg/board"
	"github.com/rivo/tview"
)

const (
	numrows = board.Size
	numcols = board.Size
)

// posToSquare maps a table cell to a board square. Column 0 holds the rank
// labels and the last row the file labels. Black sees the board rotated.
func posToSquare(row, col int, local pkg.PlayerColor) (board.Square, bool) {
	col = col - 1 // 1 column for the rank
	if row < 0 || row >= numrows || col < 0 || col >= numcols {
		return board.Square{}, false
	}
	if local == board.Black {
		row = numrows - row - 1
		col = numcols - col - 1
	}
	return board.Sq(col, row), true
}

// squareToPos is the inverse of posToSquare.
func squareToPos(sq board.Square, local pkg.PlayerColor) (row, col int) {
	row, col = sq.Y, sq.X
	if local == board.Black {
		row = numrows - row - 1
		col = numcols - col - 1
	}
	return row, col + 1
}

// squareBg returns the theme's color corresponding to the square
func squareBg(sq board.Square, h board.Highlight, selected bool, t Theme) tcell.Color {
	if selected {
		return t.Selected
	}
	switch h {
	case board.ValidMove:
		return t.ValidMove
	case board.ValidCapture:
		return t.ValidCapture
	case board.EnemyMove:
		return t.EnemyMove
	case board.EnemyCapture:
		return t.EnemyCapture
	}
	if (sq.X+sq.Y)%2 == 1 {
		return t.SquareDark
	}
	return t.SquareLight
}

// stylePiece picks the foreground color for p.
func stylePiece(p board.Piece, t Theme) tcell.Color {
	if p.Color() == board.Black {
		return t.Black
	}
	return t.White
}

// rankLabel is the chess rank printed beside row y: rank 0 is the eighth.
func rankLabel(y int) string {
	return fmt.Sprintf("%d", numrows-y)
}

func fileLabel(x int) string {
	return string(rune('a' + x))
}

// renderTable fills table with f. press is installed on every board cell
// so a mouse click behaves like Enter on the cell.
func renderTable(table *tview.Table, f pkg.Frame, sel board.Square, selecting bool, t Theme, press func(board.Square)) {
	for r := 0; r <= numrows; r++ {
		for c := 0; c <= numcols; c++ {
			if c == 0 && r != numrows { // draw rank square
				sq, _ := posToSquare(r, 1, f.Local)
				cell := tview.NewTableCell(rankLabel(sq.Y)).
					SetAlign(tview.AlignCenter).
					SetTextColor(t.Rank).
					SetSelectable(false)
				table.SetCell(r, c, cell)
				continue
			}

			if r == numrows && c > 0 { // draw file square
				sq, _ := posToSquare(0, c, f.Local)
				cell := tview.NewTableCell(" " + fileLabel(sq.X)).
					SetAlign(tview.AlignCenter).
					SetTextColor(t.File).
					SetSelectable(false)
				table.SetCell(r, c, cell)
				continue
			}

			if r == numrows && c == 0 {
				table.SetCell(r, c, tview.NewTableCell("").SetSelectable(false))
				continue
			}

			sq, _ := posToSquare(r, c, f.Local)
			p := f.Board.At(sq)
			cell := tview.NewTableCell(" "+p.Glyph()+" ").
				SetAlign(tview.AlignCenter).
				SetTextColor(stylePiece(p, t)).
				SetBackgroundColor(squareBg(sq, f.Highlights.At(sq), selecting && sq == sel, t))
			if press != nil {
				cell.SetClickedFunc(func() bool {
					press(sq)
					return false
				})
			}
			table.SetCell(r, c, cell)
		}
	}
}

// statusText is the side panel: players, clocks, whose turn and the last move.
func statusText(f pkg.Frame, names [2]string, t Theme) string {
	var b strings.Builder
	for _, c := range []pkg.PlayerColor{pkg.Player1, pkg.Player2} {
		marker := " "
		if c == f.Local {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s Player %d (%s) %-12s %s\n", marker, pkg.PlayerNumber(c), c, names[c], f.Clocks[c])
	}
	b.WriteString("\n")

	if f.Outcome == pkg.Playing {
		fmt.Fprintf(&b, "[::b]%s[::-]\n\n", f.TurnLabel)
	} else {
		fmt.Fprintf(&b, "[%s::b]%s[-::-]\n\n", colorTag(t.Msg), pkg.EndAction(f.Outcome, f.Local))
	}
	b.WriteString(tview.Escape(f.LastMove))
	b.WriteString("\n")
	return b.String()
}

func colorTag(c tcell.Color) string {
	if c == tcell.ColorDefault {
		return "-"
	}
	return fmt.Sprintf("#%06x", c.Hex())
}
