package gui

import (
	"errors"

	"github.com/qnkhuat/netchess/pkg"
	"github.com/qnkhuat/netchess/pkg/board"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

// GameState encapsulates everything needed to run the game
type GameState struct {
	App    *tview.Application
	Pages  *tview.Pages
	Board  *tview.Table
	Status *tview.TextView
	Client *pkg.Client
	Theme  Theme
	Names  [2]string // Indexed by color

	ended bool
}

// homeSquare is where the cursor starts: the local king's square.
func homeSquare(c pkg.PlayerColor) board.Square {
	if c == board.Black {
		return board.Sq(4, 0)
	}
	return board.Sq(4, board.Size-1)
}

// press runs on the event loop for Enter or a click on sq.
func (gs *GameState) press(sq board.Square) {
	committed, err := gs.Client.Click(sq)
	switch {
	case errors.Is(err, pkg.ErrGameOver):
	case err != nil:
		zap.L().Warn("move not delivered", zap.Error(err))
	case committed:
		zap.L().Debug("committed", zap.Stringer("to", sq))
	}
	gs.render()
}

func (gs *GameState) render() {
	sel, selecting := gs.Client.Selection()
	f := gs.Client.Snapshot()
	renderTable(gs.Board, f, sel, selecting, gs.Theme, gs.press)
	gs.Status.SetText(statusText(f, gs.Names, gs.Theme))

	if f.Outcome != pkg.Playing && !gs.ended {
		gs.ended = true
		gs.showEnd(f)
	}
}

func (gs *GameState) renderStatus() {
	gs.Status.SetText(statusText(gs.Client.Snapshot(), gs.Names, gs.Theme))
}

// showEnd puts the result modal over the board. The board stays visible
// behind it until the player exits.
func (gs *GameState) showEnd(f pkg.Frame) {
	action := pkg.EndAction(f.Outcome, f.Local)
	modal := tview.NewModal().
		SetText(string(action)).
		AddButtons([]string{string(pkg.ActionExit)}).
		SetDoneFunc(func(int, string) {
			gs.App.Stop()
		})
	gs.Pages.AddPage(pageEnd, modal, false, true)
	gs.App.SetFocus(modal)
}

// confirmLeave asks before abandoning a game in progress.
func (gs *GameState) confirmLeave() {
	if gs.Client.Outcome() != pkg.Playing {
		gs.App.Stop()
		return
	}
	modal := tview.NewModal().
		SetText("Leaving now ends the game without a result.").
		AddButtons([]string{string(pkg.ActionResign), "Stay"}).
		SetDoneFunc(func(_ int, label string) {
			gs.Pages.RemovePage(pageEnd)
			if label == string(pkg.ActionResign) {
				gs.Client.Close()
				gs.App.Stop()
				return
			}
			gs.App.SetFocus(gs.Board)
		})
	gs.Pages.AddPage(pageEnd, modal, false, true)
	gs.App.SetFocus(modal)
}
