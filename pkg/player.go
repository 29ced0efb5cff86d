package pkg

import (
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/qnkhuat/netchess/pkg/board"
	"go.uber.org/zap"
)

// PlayerColor is a side's identity. Player1 is White and moves first.
type PlayerColor = board.Color

const (
	Player1 = board.White
	Player2 = board.Black
)

// ParseColor validates a configured side.
func ParseColor(s string) (PlayerColor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "player1", "1", "w":
		return Player1, nil
	case "black", "player2", "2", "b":
		return Player2, nil
	default:
		return Player1, fmt.Errorf("unknown side %q: want white or black", s)
	}
}

// PlayerNumber is 1 for White and 2 for Black.
func PlayerNumber(c PlayerColor) int {
	return int(c) + 1
}

// Player is one relay-side connection.
type Player struct {
	Conn  net.Conn
	Color PlayerColor
	Id    int
	Name  string
}

func NewPlayer(conn net.Conn, id int, name string) *Player {
	return &Player{Conn: conn, Id: id, Name: name}
}

// Forward copies whole packets from p to dst until either side fails. Each
// packet is handed to record before it is written.
func (p *Player) Forward(dst *Player, record func(from *Player, m MoveRecord)) error {
	var pkt Packet
	for {
		if _, err := io.ReadFull(p.Conn, pkt[:]); err != nil {
			return fmt.Errorf("read from %s: %w", p.Name, err)
		}
		if m, err := Decode(pkt); err == nil {
			if record != nil {
				record(p, m)
			}
		} else {
			zap.L().Warn("relaying undecodable packet", zap.String("player", p.Name), zap.Error(err))
		}
		if _, err := dst.Conn.Write(pkt[:]); err != nil {
			return fmt.Errorf("write to %s: %w", dst.Name, err)
		}
	}
}

func (p *Player) Disconnect() {
	p.Conn.Close()
}
