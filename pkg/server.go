package pkg

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/creack/pty"
	"github.com/gliderlabs/ssh"
	gossh "golang.org/x/crypto/ssh"
	"go.uber.org/zap"
)

const (
	ServerIdleTimeout = 5 * time.Minute
	SshPort           = ":2222"
	ServerPort        = ":1998"
)

// Server is the pairing relay. Connections are paired in arrival order: the
// first becomes Player1 (White), the second Player2 (Black).
type Server struct {
	Addr        string
	Archive     *Archive
	IdleTimeout time.Duration

	mu      sync.Mutex
	waiting *Player
	nextID  int
	Matches map[string]*Match
}

func NewServer(addr string, archive *Archive) *Server {
	return &Server{
		Addr:        addr,
		Archive:     archive,
		IdleTimeout: ServerIdleTimeout,
		Matches:     make(map[string]*Match),
	}
}

// ListenAndServe accepts connections on s.Addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	zap.L().Info("relay listening", zap.String("address", l.Addr().String()))
	return s.Serve(ctx, l)
}

func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	stop := context.AfterFunc(ctx, func() { l.Close() })
	defer stop()

	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			zap.L().Warn("accept failed", zap.Error(err))
			continue
		}
		s.AddConn(ctx, conn)
	}
}

// AddConn parks conn until a partner arrives, then starts the match.
func (s *Server) AddConn(ctx context.Context, conn net.Conn) {
	s.mu.Lock()
	s.nextID++
	p := NewPlayer(conn, s.nextID, conn.RemoteAddr().String())

	if s.waiting == nil {
		s.waiting = p
		s.mu.Unlock()
		zap.L().Info("player waiting", zap.String("player", p.Name))
		go s.expire(p)
		return
	}

	white := s.waiting
	s.waiting = nil
	m := NewMatch(white, p, s.Archive)
	s.Matches[m.ID] = m
	s.mu.Unlock()

	go func() {
		m.Run(ctx)
		s.mu.Lock()
		delete(s.Matches, m.ID)
		s.mu.Unlock()
	}()
}

// expire drops p if nobody pairs with it in time.
func (s *Server) expire(p *Player) {
	if s.IdleTimeout <= 0 {
		return
	}
	time.Sleep(s.IdleTimeout)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.waiting == p {
		s.waiting = nil
		p.Disconnect()
		zap.L().Info("dropped idle player", zap.String("player", p.Name))
	}
}

// ActiveMatches is the number of matches being relayed.
func (s *Server) ActiveMatches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Matches)
}

// NewSSHServer serves the terminal client over ssh: every session runs
// clientPath in a pty with the arguments the user passed to ssh.
func NewSSHServer(addr, clientPath, hostKeyFile string) (*ssh.Server, error) {
	s := &ssh.Server{
		Addr:        addr,
		IdleTimeout: ServerIdleTimeout,
		Handler:     sshHandler(clientPath),
	}

	if hostKeyFile != "" {
		if err := s.SetOption(ssh.HostKeyFile(hostKeyFile)); err != nil {
			return nil, fmt.Errorf("host key: %w", err)
		}
		return s, nil
	}

	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	signer, err := gossh.NewSignerFromKey(key)
	if err != nil {
		return nil, err
	}
	s.AddHostKey(signer)
	zap.L().Warn("using an ephemeral ssh host key")
	return s, nil
}

// sessionEnv is the client environment for one ssh session. SSH_CONNECTION
// follows the OpenSSH layout so the client knows it is remote.
func sessionEnv(base []string, term string, remote, local net.Addr) []string {
	hostPort := func(a net.Addr) string {
		host, port, err := net.SplitHostPort(a.String())
		if err != nil {
			return a.String() + " 0"
		}
		return host + " " + port
	}
	env := append([]string{}, base...)
	return append(env,
		"TERM="+term,
		"SSH_CONNECTION="+hostPort(remote)+" "+hostPort(local),
	)
}

func sshHandler(clientPath string) ssh.Handler {
	return func(s ssh.Session) {
		ptyReq, winCh, isPty := s.Pty()
		if !isPty {
			io.WriteString(s, "non-interactive terminals are not supported\n")
			s.Exit(1)
			return
		}

		cmdCtx, cancelCmd := context.WithCancel(s.Context())
		defer cancelCmd()

		cmd := exec.CommandContext(cmdCtx, clientPath, s.Command()...)
		cmd.Env = sessionEnv(os.Environ(), ptyReq.Term, s.RemoteAddr(), s.LocalAddr())

		f, err := pty.StartWithSize(cmd, &pty.Winsize{
			Rows: uint16(ptyReq.Window.Height),
			Cols: uint16(ptyReq.Window.Width),
		})
		if err != nil {
			io.WriteString(s, fmt.Sprintf("failed to initialize pseudo-terminal: %s\n", err))
			s.Exit(1)
			return
		}
		defer f.Close()
		zap.L().Info("ssh session", zap.String("user", s.User()), zap.String("remote", s.RemoteAddr().String()))

		go func() {
			for win := range winCh {
				pty.Setsize(f, &pty.Winsize{Rows: uint16(win.Height), Cols: uint16(win.Width)})
			}
		}()

		go func() {
			io.Copy(f, s)
		}()
		io.Copy(s, f)

		f.Close()
		cmd.Wait()
	}
}
