package pkg

import (
	"fmt"
	"os"
	"sync"
)

// MoveLog is the append-only record of the half-moves of one session.
type MoveLog struct {
	mu sync.Mutex
	f  *os.File
}

// OpenMoveLog truncates the log at path and keeps it open for appending.
func OpenMoveLog(path string) (*MoveLog, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open move log: %w", err)
	}
	return &MoveLog{f: f}, nil
}

// Append writes one line for m. A nil log discards.
func (l *MoveLog) Append(m MoveRecord) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return os.ErrClosed
	}
	_, err := l.f.WriteString(m.LogLine() + "\n")
	return err
}

func (l *MoveLog) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}
