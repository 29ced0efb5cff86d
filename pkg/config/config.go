// Package config reads the connection file and the client settings.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/qnkhuat/netchess/pkg"
	"github.com/qnkhuat/netchess/pkg/board"
	"github.com/qnkhuat/netchess/pkg/gui"
	yaml "gopkg.in/yaml.v3"
)

var (
	// ErrNoConnection is returned when the connection file cannot be used.
	ErrNoConnection = errors.New("no connection")
	// ErrNoSide is returned when neither the settings nor the flags pick a side.
	ErrNoSide = errors.New("no side configured: set side to white or black")
)

// Connection is the peer address from the two-line connection file.
type Connection struct {
	Host string
	Port int
}

// Address joins host and port for net.Dial.
func (c Connection) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// LoadConnection reads path: the host on line 1, the decimal port on line 2.
func LoadConnection(path string) (Connection, error) {
	f, err := os.Open(path)
	if err != nil {
		return Connection{}, fmt.Errorf("%w: %v", ErrNoConnection, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() && len(lines) < 2 {
		lines = append(lines, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return Connection{}, fmt.Errorf("%w: %v", ErrNoConnection, err)
	}
	if len(lines) < 2 {
		return Connection{}, fmt.Errorf("%w: %s needs a host line and a port line", ErrNoConnection, path)
	}

	port, err := strconv.Atoi(lines[1])
	if err != nil || port <= 0 || port > 65535 {
		return Connection{}, fmt.Errorf("%w: bad port %q", ErrNoConnection, lines[1])
	}
	return Connection{Host: lines[0], Port: port}, nil
}

// Settings are the client options read from settings.yaml.
type Settings struct {
	Side           string         `yaml:"side"`
	Nickname       string         `yaml:"nickname"`
	ConnectionFile string         `yaml:"connection_file"`
	Listen         bool           `yaml:"listen"`
	ReceiveTimeout time.Duration  `yaml:"receive_timeout"`
	MoveLog        string         `yaml:"move_log"`
	DataDir        string         `yaml:"data_dir"`
	LogFile        string         `yaml:"log_file"`
	LogLevel       string         `yaml:"log_level"`
	Sound          bool           `yaml:"sound"`
	Theme          string         `yaml:"theme"`
	Themes         []gui.ThemeHex `yaml:"themes"`
}

// Default returns the settings used when no file is present.
func Default() *Settings {
	return &Settings{
		Nickname:       petname.Generate(2, "-"),
		ConnectionFile: filepath.Join("config", "connection.chessconf"),
		MoveLog:        "moves.log",
		DataDir:        "data",
		LogFile:        filepath.Join("logs", "client.log"),
		LogLevel:       "info",
		Sound:          true,
		Theme:          gui.ThemeBasic.Name,
	}
}

// LoadSettings reads the YAML file at path over the defaults. A missing file
// is not an error. NETCHESS_SIDE and NETCHESS_LOG_LEVEL override the file.
// Sound is off inside an ssh session, where the cues would play on the host.
func LoadSettings(path string) (*Settings, error) {
	s := Default()

	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read settings: %w", err)
		default:
			if err := yaml.Unmarshal(raw, s); err != nil {
				return nil, fmt.Errorf("parse settings %s: %w", path, err)
			}
		}
	}

	if v := strings.TrimSpace(os.Getenv("NETCHESS_SIDE")); v != "" {
		s.Side = v
	}
	if v := strings.TrimSpace(os.Getenv("NETCHESS_LOG_LEVEL")); v != "" {
		s.LogLevel = v
	}

	if os.Getenv("SSH_CONNECTION") != "" {
		s.Sound = false
	}

	if s.ReceiveTimeout < 0 {
		return nil, fmt.Errorf("receive_timeout must not be negative")
	}
	if strings.TrimSpace(s.Nickname) == "" {
		s.Nickname = petname.Generate(2, "-")
	}
	return s, nil
}

// Color is the configured side. Both peers must set it, one white and one
// black; there is no default.
func (s *Settings) Color() (pkg.PlayerColor, error) {
	if strings.TrimSpace(s.Side) == "" {
		return board.White, ErrNoSide
	}
	return pkg.ParseColor(s.Side)
}
