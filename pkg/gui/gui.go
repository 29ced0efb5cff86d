// Package gui is the terminal board: a tview table for the squares, a status
// panel beside it and a modal at the end of the game.
package gui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/qnkhuat/netchess/pkg"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

const (
	pageBoard = "board"
	pageEnd   = "end"

	refreshInterval = time.Second
)

// New lays out the board for cl.
func New(cl *pkg.Client, theme Theme, names [2]string) *GameState {
	app := tview.NewApplication()

	board := tview.NewTable().
		SetBorders(false).
		SetSelectable(true, true)

	status := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false).
		SetWrap(true)
	status.SetBorder(true).SetTitle(" " + cl.Name + " ")

	help := tview.NewTextView().
		SetText("Enter or click: select / move   Esc: leave").
		SetTextColor(theme.Rank)

	layout := tview.NewGrid().
		SetRows(-1, numrows+1, 1, -1).
		SetColumns(-1, 4*(numcols+1), 40, -1).
		AddItem(board, 1, 1, 1, 1, 0, 0, true).
		AddItem(status, 1, 2, 1, 1, 0, 0, false).
		AddItem(help, 2, 1, 1, 2, 0, 0, false)

	pages := tview.NewPages().
		AddPage(pageBoard, layout, true, true)

	gs := &GameState{
		App:    app,
		Pages:  pages,
		Board:  board,
		Status: status,
		Client: cl,
		Theme:  theme,
		Names:  names,
	}

	board.SetSelectedFunc(func(row, col int) {
		if sq, ok := posToSquare(row, col, cl.Color); ok {
			gs.press(sq)
		}
	})
	board.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEscape {
			gs.confirmLeave()
		}
	})
	row, col := squareToPos(homeSquare(cl.Color), cl.Color)
	board.Select(row, col)

	gs.render()
	return gs
}

// Run starts the reader and the event loop. It returns once the window is
// closed; the session is closed with it.
func (gs *GameState) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	in := gs.Client.Listen(ctx)
	go gs.receive(ctx, in)
	go gs.refresh(ctx)

	err := gs.App.SetRoot(gs.Pages, true).EnableMouse(true).Run()
	gs.Client.Close()
	if err != nil {
		zap.L().Error("gui stopped", zap.Error(err))
	}
	return err
}

// receive hands inbound moves to the event loop.
func (gs *GameState) receive(ctx context.Context, in <-chan pkg.Inbound) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-in:
			if !ok {
				gs.App.QueueUpdateDraw(func() {
					if gs.Client.Outcome() == pkg.Playing {
						gs.Client.Abort(pkg.ErrConnectionLost)
					}
					gs.render()
				})
				return
			}
			gs.App.QueueUpdateDraw(func() {
				gs.Client.HandleInbound(msg)
				gs.render()
			})
		}
	}
}

// refresh redraws the clocks while the game runs.
func (gs *GameState) refresh(ctx context.Context) {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-gs.Client.Done():
			return
		case <-ticker.C:
			gs.App.QueueUpdateDraw(gs.renderStatus)
		}
	}
}
