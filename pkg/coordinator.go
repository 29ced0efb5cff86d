package pkg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	ConnTimeout   = 30 * time.Second
	KeepAlive     = 15 * time.Second
	ConnQueueSize = 10
)

// Inbound is a move read by the background reader, or the error that ended it.
type Inbound struct {
	Record MoveRecord
	Err    error
}

// Coordinator moves packets over the session connection. Send and Receive
// block; Listen moves receiving onto its own goroutine.
type Coordinator struct {
	Conn           net.Conn
	ReceiveTimeout time.Duration

	await chan struct{}

	mu         sync.Mutex
	terminated bool
}

func NewCoordinator(conn net.Conn, receiveTimeout time.Duration) *Coordinator {
	return &Coordinator{
		Conn:           conn,
		ReceiveTimeout: receiveTimeout,
		await:          make(chan struct{}, 1),
	}
}

// Connect dials the peer (or relay) at address.
func Connect(ctx context.Context, address string) (*Coordinator, error) {
	d := net.Dialer{Timeout: ConnTimeout, KeepAlive: KeepAlive}
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", address, err)
	}
	zap.L().Info("connected", zap.String("remote", conn.RemoteAddr().String()))
	return NewCoordinator(conn, 0), nil
}

// Accept listens on address and waits for exactly one peer.
func Accept(ctx context.Context, address string) (*Coordinator, error) {
	lc := net.ListenConfig{KeepAlive: KeepAlive}
	l, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", address, err)
	}
	defer l.Close()
	zap.L().Info("waiting for peer", zap.String("address", l.Addr().String()))

	stop := context.AfterFunc(ctx, func() { l.Close() })
	defer stop()

	conn, err := l.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("accept: %w", err)
	}
	zap.L().Info("peer connected", zap.String("remote", conn.RemoteAddr().String()))
	return NewCoordinator(conn, 0), nil
}

// Send writes one packet. Any failure is fatal to the session.
func (c *Coordinator) Send(m MoveRecord) error {
	if c.Terminated() {
		return ErrConnectionLost
	}
	p := Encode(m)

	if err := c.Conn.SetWriteDeadline(time.Now().Add(ConnTimeout)); err != nil {
		return fmt.Errorf("%w: %v", ErrConnectionLost, err)
	}
	n, err := c.Conn.Write(p[:])
	c.Conn.SetWriteDeadline(time.Time{})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnectionLost, err)
	}
	if n != PacketSize {
		return fmt.Errorf("%w: short write %d/%d", ErrConnectionLost, n, PacketSize)
	}
	zap.L().Debug("sent packet", zap.String("move", m.LogLine()))
	return nil
}

// Receive reads exactly one packet.
func (c *Coordinator) Receive() (MoveRecord, error) {
	if c.Terminated() {
		return MoveRecord{}, ErrConnectionLost
	}
	deadline := time.Time{}
	if c.ReceiveTimeout > 0 {
		deadline = time.Now().Add(c.ReceiveTimeout)
	}
	if err := c.Conn.SetReadDeadline(deadline); err != nil {
		return MoveRecord{}, fmt.Errorf("%w: %v", ErrConnectionLost, err)
	}

	var p Packet
	if _, err := io.ReadFull(c.Conn, p[:]); err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return MoveRecord{}, fmt.Errorf("%w: no move within %s", ErrConnectionLost, c.ReceiveTimeout)
		}
		return MoveRecord{}, fmt.Errorf("%w: %v", ErrConnectionLost, err)
	}
	m, err := Decode(p)
	if err != nil {
		return MoveRecord{}, err
	}
	zap.L().Debug("received packet", zap.String("move", m.LogLine()))
	return m, nil
}

// Await asks the Listen goroutine to read the next packet. Calls while a
// request is already pending are merged.
func (c *Coordinator) Await() {
	select {
	case c.await <- struct{}{}:
	default:
	}
}

// Listen starts the reader goroutine. It reads one packet per Await call and
// stops after the first error or when ctx is done.
func (c *Coordinator) Listen(ctx context.Context) <-chan Inbound {
	in := make(chan Inbound, ConnQueueSize)
	go func() {
		defer close(in)
		for {
			select {
			case <-ctx.Done():
				return
			case <-c.await:
			}

			rec, err := c.Receive()
			select {
			case in <- Inbound{Record: rec, Err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return in
}

func (c *Coordinator) Terminated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.terminated
}

// Close shuts the connection down. It is safe to call more than once.
func (c *Coordinator) Close() error {
	c.mu.Lock()
	if c.terminated {
		c.mu.Unlock()
		return nil
	}
	c.terminated = true
	c.mu.Unlock()

	if c.Conn == nil {
		return nil
	}
	return c.Conn.Close()
}
