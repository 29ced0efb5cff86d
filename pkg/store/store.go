// Package store keeps the result of the last game, read by the launcher after
// the board closes, and running win/loss statistics.
package store

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	keyOutcome = "outcome"
	keyStats   = "stats"
)

// Result mirrors the session outcome without importing the session package.
type Result string

const (
	ResultNone    Result = ""
	ResultWhite   Result = "white"
	ResultBlack   Result = "black"
	ResultAborted Result = "aborted"
)

// Outcome is the stored flag for the last session.
type Outcome struct {
	Result  Result    `json:"result"`
	Local   string    `json:"local"`
	Session string    `json:"session"`
	At      time.Time `json:"at"`
}

// Stats are the totals over all sessions played from this data dir.
type Stats struct {
	GamesPlayed int           `json:"games_played"`
	Wins        int           `json:"wins"`
	Losses      int           `json:"losses"`
	Aborted     int           `json:"aborted"`
	TotalTime   time.Duration `json:"total_time"`
}

// Store wraps BadgerDB.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the database in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ClearOutcome drops the stored outcome at the start of a session.
func (s *Store) ClearOutcome() error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(keyOutcome))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// SetOutcome stores o as the last outcome.
func (s *Store) SetOutcome(o Outcome) error {
	if o.At.IsZero() {
		o.At = time.Now()
	}
	return s.put(keyOutcome, o)
}

// LastOutcome returns the stored outcome; ok is false when none is stored.
func (s *Store) LastOutcome() (o Outcome, ok bool, err error) {
	ok, err = s.get(keyOutcome, &o)
	return o, ok, err
}

// RecordResult adds one finished session to the statistics.
func (s *Store) RecordResult(o Outcome, d time.Duration) (*Stats, error) {
	stats, err := s.Stats()
	if err != nil {
		return nil, err
	}
	stats.GamesPlayed++
	stats.TotalTime += d
	switch {
	case o.Result == ResultAborted || o.Result == ResultNone:
		stats.Aborted++
	case strings.EqualFold(string(o.Result), o.Local):
		stats.Wins++
	default:
		stats.Losses++
	}
	if err := s.put(keyStats, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// Stats loads the statistics, empty if none were recorded.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}
	if _, err := s.get(keyStats, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// WinRate is the share of decided games won, 0-100.
func (st *Stats) WinRate() float64 {
	decided := st.Wins + st.Losses
	if decided == 0 {
		return 0
	}
	return float64(st.Wins) / float64(decided) * 100
}

func (s *Store) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

func (s *Store) get(key string, v any) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, err
}
