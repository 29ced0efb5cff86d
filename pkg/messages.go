package pkg

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/qnkhuat/netchess/pkg/board"
)

// PacketSize is the number of bytes in one move packet.
const PacketSize = 7

var (
	ErrMalformedPacket = errors.New("malformed packet")
	ErrConnectionLost  = errors.New("connection lost")
	ErrOutOfTurn       = errors.New("move received out of turn")
)

// Packet is one half-move on the wire: piece, from.x, from.y, capture,
// target, to.x, to.y. There is no length prefix or checksum.
type Packet [PacketSize]byte

// MoveRecord describes one half-move. It is both the network message and the
// move log line.
type MoveRecord struct {
	Piece   board.Piece
	From    board.Square
	Capture bool
	Target  board.Piece
	To      board.Square
}

// Encode serializes m into a packet.
func Encode(m MoveRecord) Packet {
	var capture byte
	if m.Capture {
		capture = 1
	}
	return Packet{
		byte(m.Piece),
		byte(m.From.X),
		byte(m.From.Y),
		capture,
		byte(m.Target),
		byte(m.To.X),
		byte(m.To.Y),
	}
}

// Decode parses a packet, rejecting fields a board cannot hold.
func Decode(p Packet) (MoveRecord, error) {
	m := MoveRecord{
		Piece:  board.Piece(p[0]),
		From:   board.Sq(int(p[1]), int(p[2])),
		Target: board.Piece(p[4]),
		To:     board.Sq(int(p[5]), int(p[6])),
	}
	switch p[3] {
	case 0:
	case 1:
		m.Capture = true
	default:
		return MoveRecord{}, fmt.Errorf("%w: capture flag %d", ErrMalformedPacket, p[3])
	}
	if err := m.validate(); err != nil {
		return MoveRecord{}, err
	}
	return m, nil
}

func (m MoveRecord) validate() error {
	if !m.Piece.Valid() || m.Piece == board.Empty {
		return fmt.Errorf("%w: moving piece %d", ErrMalformedPacket, m.Piece)
	}
	if !m.Target.Valid() {
		return fmt.Errorf("%w: target piece %d", ErrMalformedPacket, m.Target)
	}
	if !m.From.InBounds() || !m.To.InBounds() {
		return fmt.Errorf("%w: square %s -> %s", ErrMalformedPacket, m.From, m.To)
	}
	return nil
}

// Fields returns the seven logical fields in wire order.
func (m MoveRecord) Fields() [PacketSize]int {
	p := Encode(m)
	var out [PacketSize]int
	for i, b := range p {
		out[i] = int(b)
	}
	return out
}

// LogLine renders m as space separated decimals, without the newline.
func (m MoveRecord) LogLine() string {
	f := m.Fields()
	parts := make([]string, len(f))
	for i, v := range f {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

// ParseLogLine is the inverse of LogLine.
func ParseLogLine(line string) (MoveRecord, error) {
	fields := strings.Fields(line)
	if len(fields) != PacketSize {
		return MoveRecord{}, fmt.Errorf("%w: %d fields", ErrMalformedPacket, len(fields))
	}
	var p Packet
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 10, 8)
		if err != nil {
			return MoveRecord{}, fmt.Errorf("%w: field %d: %v", ErrMalformedPacket, i, err)
		}
		p[i] = byte(v)
	}
	return Decode(p)
}

// Describe is the human readable last-move text.
func (m MoveRecord) Describe() string {
	if m.Capture {
		return fmt.Sprintf("%s %s captured %s %s.", m.Piece, m.From, m.Target, m.To)
	}
	return fmt.Sprintf("%s %s moved to %s.", m.Piece, m.From, m.To)
}
