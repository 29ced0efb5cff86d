package pkg

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Match pairs two relay connections. Players[Player1] arrived first.
type Match struct {
	ID      string
	Name    string
	Players [2]*Player

	archive *Archive
	once    sync.Once
	done    chan struct{}
}

func NewMatch(white, black *Player, archive *Archive) *Match {
	white.Color, black.Color = Player1, Player2
	return &Match{
		ID:      uuid.NewString(),
		Name:    petname.Generate(2, "-"),
		Players: [2]*Player{white, black},
		archive: archive,
		done:    make(chan struct{}),
	}
}

// Run relays packets both ways until one side hangs up, then closes both.
func (m *Match) Run(ctx context.Context) {
	log := zap.L().With(zap.String("match", m.ID), zap.String("name", m.Name))
	if err := m.archive.Start(ctx, m); err != nil {
		log.Warn("archive start failed", zap.Error(err))
	}
	log.Info("match started",
		zap.String("white", m.Players[Player1].Name),
		zap.String("black", m.Players[Player2].Name),
	)

	record := func(from *Player, rec MoveRecord) {
		if err := m.archive.Record(ctx, m.ID, rec); err != nil {
			log.Warn("archive record failed", zap.Error(err))
		}
	}

	errc := make(chan error, 2)
	go func() { errc <- m.Players[Player1].Forward(m.Players[Player2], record) }()
	go func() { errc <- m.Players[Player2].Forward(m.Players[Player1], record) }()

	var err error
	select {
	case err = <-errc:
	case <-ctx.Done():
		err = ctx.Err()
	}
	m.Close()

	status, reason := MatchFinished, "peer closed"
	if err != nil && !isClosed(err) {
		status, reason = MatchAborted, err.Error()
	}
	if aerr := m.archive.Finish(context.WithoutCancel(ctx), m.ID, status, reason); aerr != nil {
		log.Warn("archive finish failed", zap.Error(aerr))
	}
	log.Info("match ended", zap.String("status", string(status)), zap.String("reason", reason))
}

// Close disconnects both players.
func (m *Match) Close() {
	m.once.Do(func() {
		for _, p := range m.Players {
			p.Disconnect()
		}
		close(m.done)
	})
}

func (m *Match) Done() <-chan struct{} { return m.done }

func isClosed(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed)
}
