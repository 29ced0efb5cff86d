package pkg

import (
	"fmt"
	"sync"
	"time"
)

// Clock accumulates the time one side spends on its turns.
type Clock struct {
	mu      sync.Mutex
	used    time.Duration
	started time.Time
	Paused  bool
	now     func() time.Time
}

func (cl *Clock) String() string {
	d := cl.Used()
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func NewClock() *Clock {
	return &Clock{Paused: true, now: time.Now}
}

// Tick resumes the clock at the start of a turn.
func (cl *Clock) Tick() {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if !cl.Paused {
		return
	}
	cl.Paused = false
	cl.started = cl.now()
}

// Pause stops the clock at the end of a turn.
func (cl *Clock) Pause() {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if cl.Paused {
		return
	}
	cl.used += cl.now().Sub(cl.started)
	cl.Paused = true
}

// Used is the total time on the clock, including a running turn.
func (cl *Clock) Used() time.Duration {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if cl.Paused {
		return cl.used
	}
	return cl.used + cl.now().Sub(cl.started)
}

func (cl *Clock) Reset() {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.used = 0
	cl.Paused = true
}
