package pkg

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const ttlMatch = 7 * 24 * time.Hour

// MatchStatus is the lifecycle of a relayed match.
type MatchStatus string

const (
	MatchActive   MatchStatus = "ACTIVE"
	MatchFinished MatchStatus = "FINISHED"
	MatchAborted  MatchStatus = "ABORTED"
)

// MatchInfo is the archived header of a relayed match.
type MatchInfo struct {
	ID     string
	Name   string
	White  string
	Black  string
	Status MatchStatus
	Reason string
}

// Archive keeps relayed matches in Redis: a hash per match and a list of
// move log lines.
type Archive struct{ rdb *redis.Client }

// NewArchive connects to the Redis server at url (redis://host:port/db).
func NewArchive(url string) (*Archive, error) {
	opt, err := redis.ParseURL(strings.TrimSpace(url))
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Archive{rdb: rdb}, nil
}

func NewArchiveFromClient(rdb *redis.Client) *Archive { return &Archive{rdb: rdb} }

func (a *Archive) keyMatch(id string) string { return "match:" + id }
func (a *Archive) keyMoves(id string) string { return a.keyMatch(id) + ":moves" }
func (a *Archive) keyIndex() string          { return "match:index" }

// Start records a freshly paired match.
func (a *Archive) Start(ctx context.Context, m *Match) error {
	if a == nil {
		return nil
	}
	pipe := a.rdb.TxPipeline()
	pipe.HSet(ctx, a.keyMatch(m.ID),
		"name", m.Name,
		"white", m.Players[Player1].Name,
		"black", m.Players[Player2].Name,
		"status", string(MatchActive),
		"started_at", time.Now().Unix(),
	)
	pipe.Expire(ctx, a.keyMatch(m.ID), ttlMatch)
	pipe.ZAdd(ctx, a.keyIndex(), redis.Z{Score: float64(time.Now().Unix()), Member: m.ID})
	_, err := pipe.Exec(ctx)
	return err
}

// Record appends one relayed half-move.
func (a *Archive) Record(ctx context.Context, matchID string, rec MoveRecord) error {
	if a == nil {
		return nil
	}
	if err := a.rdb.RPush(ctx, a.keyMoves(matchID), rec.LogLine()).Err(); err != nil {
		return err
	}
	return a.rdb.Expire(ctx, a.keyMoves(matchID), ttlMatch).Err()
}

// Finish closes the match record.
func (a *Archive) Finish(ctx context.Context, matchID string, status MatchStatus, reason string) error {
	if a == nil {
		return nil
	}
	return a.rdb.HSet(ctx, a.keyMatch(matchID),
		"status", string(status),
		"reason", reason,
		"ended_at", time.Now().Unix(),
	).Err()
}

// Moves returns the archived half-moves of a match in order.
func (a *Archive) Moves(ctx context.Context, matchID string) ([]MoveRecord, error) {
	lines, err := a.rdb.LRange(ctx, a.keyMoves(matchID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]MoveRecord, 0, len(lines))
	for _, l := range lines {
		m, err := ParseLogLine(l)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Info loads the header of a match; nil when it is unknown or expired.
func (a *Archive) Info(ctx context.Context, matchID string) (*MatchInfo, error) {
	v, err := a.rdb.HGetAll(ctx, a.keyMatch(matchID)).Result()
	if err != nil {
		return nil, err
	}
	if len(v) == 0 {
		return nil, nil
	}
	return &MatchInfo{
		ID:     matchID,
		Name:   v["name"],
		White:  v["white"],
		Black:  v["black"],
		Status: MatchStatus(v["status"]),
		Reason: v["reason"],
	}, nil
}

// Recent lists the ids of the latest n matches, newest first.
func (a *Archive) Recent(ctx context.Context, n int64) ([]string, error) {
	return a.rdb.ZRevRange(ctx, a.keyIndex(), 0, n-1).Result()
}

func (a *Archive) Close() error {
	if a == nil {
		return nil
	}
	return a.rdb.Close()
}
