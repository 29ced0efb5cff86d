package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/qnkhuat/netchess/pkg"
	"github.com/qnkhuat/netchess/pkg/config"
	"github.com/qnkhuat/netchess/pkg/gui"
	"github.com/qnkhuat/netchess/pkg/sound"
	"github.com/qnkhuat/netchess/pkg/store"
	"go.uber.org/zap"
	"golang.org/x/term"
)

func main() {
	settingsPath := flag.String("settings", "settings.yaml", "path to the settings file")
	logPath := flag.String("log", "", "path to log file (overrides settings)")
	side := flag.String("side", "", "white or black (overrides settings)")
	listen := flag.Bool("listen", false, "wait for the peer on the configured port instead of dialing")
	showStats := flag.Bool("stats", false, "print results of past games and exit")
	flag.Parse()

	settings, err := config.LoadSettings(*settingsPath)
	if err != nil {
		fail(err)
	}
	if *logPath != "" {
		settings.LogFile = *logPath
	}
	if *side != "" {
		settings.Side = *side
	}
	if *listen {
		settings.Listen = true
	}

	local, err := settings.Color()
	if err != nil {
		fail(err)
	}

	logger, err := pkg.InitLog(settings.LogFile, "client", settings.LogLevel)
	if err != nil {
		fail(err)
	}
	defer logger.Sync()

	db, err := store.Open(settings.DataDir)
	if err != nil {
		fail(fmt.Errorf("open data dir: %w", err))
	}
	defer db.Close()

	if *showStats {
		printStats(db)
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fail(errors.New("the board needs an interactive terminal"))
	}

	if err := db.ClearOutcome(); err != nil {
		zap.L().Warn("clear outcome", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	coord, err := connect(ctx, settings)
	if err != nil {
		zap.L().Error("no connection", zap.Error(err))
		if err := db.SetOutcome(storedOutcome(pkg.Aborted, local, "")); err != nil {
			zap.L().Warn("store outcome", zap.Error(err))
		}
		db.Close()
		fail(err)
	}
	coord.ReceiveTimeout = settings.ReceiveTimeout

	moves, err := pkg.OpenMoveLog(settings.MoveLog)
	if err != nil {
		coord.Close()
		fail(err)
	}

	var cues pkg.Cues
	if settings.Sound {
		cues = sound.NewPlayer()
	}

	cl := pkg.NewClient(local, coord, moves, cues)
	cl.Name = settings.Nickname

	theme, err := gui.ImportThemes(settings.Theme, settings.Themes)
	if err != nil {
		zap.L().Warn("falling back to the basic theme", zap.String("theme", settings.Theme), zap.Error(err))
		theme = gui.ThemeBasic
	}
	var names [2]string
	names[local] = settings.Nickname
	names[local.Other()] = "opponent"

	started := time.Now()
	if err := gui.New(cl, theme, names).Run(ctx); err != nil {
		zap.L().Error("board closed", zap.Error(err))
	}

	stored := storedOutcome(cl.Outcome(), local, cl.ID)
	if err := db.SetOutcome(stored); err != nil {
		zap.L().Warn("store outcome", zap.Error(err))
	}
	stats, err := db.RecordResult(stored, time.Since(started))
	if err != nil {
		zap.L().Warn("record result", zap.Error(err))
	}
	summary(cl, stats)
}

// storedOutcome records o in the store's vocabulary. A session that never
// ended counts as aborted.
func storedOutcome(o pkg.Outcome, local pkg.PlayerColor, session string) store.Outcome {
	stored := store.Outcome{
		Result:  store.Result(o.String()),
		Local:   pkg.Won(local).String(),
		Session: session,
	}
	if o == pkg.Playing {
		stored.Result = store.ResultAborted
	}
	return stored
}

// connect dials the configured peer or relay, or waits for the peer when
// listening. Either way the address comes from the connection file.
func connect(ctx context.Context, s *config.Settings) (*pkg.Coordinator, error) {
	conn, err := config.LoadConnection(s.ConnectionFile)
	if err != nil {
		return nil, err
	}
	if s.Listen {
		return pkg.Accept(ctx, net.JoinHostPort("", strconv.Itoa(conn.Port)))
	}
	return pkg.Connect(ctx, conn.Address())
}

func summary(cl *pkg.Client, stats *store.Stats) {
	outcome := cl.Outcome()
	switch action := pkg.EndAction(outcome, cl.Color); action {
	case pkg.ActionWin:
		color.New(color.FgGreen, color.Bold).Println(action)
	case pkg.ActionLose:
		color.New(color.FgRed, color.Bold).Println(action)
	default:
		color.New(color.FgYellow).Println(action)
		if err := cl.Err(); err != nil {
			color.New(color.Faint).Printf("  %v\n", err)
		}
	}
	b := cl.Board()
	fmt.Printf("Final position: %s\n", b.FEN())
	if stats != nil {
		printTotals(stats)
	}
}

func printStats(db *store.Store) {
	if last, ok, err := db.LastOutcome(); err == nil && ok {
		fmt.Printf("Last game: %s (played %s, %s)\n", last.Result, last.Local, last.At.Format(time.RFC822))
	}
	stats, err := db.Stats()
	if err != nil {
		fail(err)
	}
	printTotals(stats)
}

func printTotals(st *store.Stats) {
	fmt.Printf("Games: %d  ", st.GamesPlayed)
	color.New(color.FgGreen).Printf("won %d  ", st.Wins)
	color.New(color.FgRed).Printf("lost %d  ", st.Losses)
	color.New(color.FgYellow).Printf("aborted %d", st.Aborted)
	fmt.Printf("  (%.0f%%, %s at the board)\n", st.WinRate(), st.TotalTime.Round(time.Second))
}

func fail(err error) {
	color.New(color.FgRed).Fprintf(os.Stderr, "chessterm: %v\n", err)
	os.Exit(1)
}
