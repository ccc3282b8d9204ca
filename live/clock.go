package live

import (
	"context"
	"sync"
	"time"
)

// TickFunc runs on every clock tick. Returning false stops the clock.
type TickFunc func(ctx context.Context) bool

// ClockBank owns the countdown of every currently live match. Each match
// gets its own cancellable ticker goroutine; pause, finish and cancel all
// go through Stop so no goroutine outlives its match.
type ClockBank struct {
	mu     sync.Mutex
	clocks map[int]context.CancelFunc
}

func NewClockBank() *ClockBank {
	return &ClockBank{clocks: make(map[int]context.CancelFunc)}
}

// Start launches a ticker for the match, replacing any running one.
func (b *ClockBank) Start(matchID int, interval time.Duration, tick TickFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	b.mu.Lock()
	if prev, ok := b.clocks[matchID]; ok {
		prev()
	}
	b.clocks[matchID] = cancel
	b.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !tick(ctx) {
					b.Stop(matchID)
					return
				}
			}
		}
	}()
}

// Stop cancels the match's ticker if one is running.
func (b *ClockBank) Stop(matchID int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if cancel, ok := b.clocks[matchID]; ok {
		cancel()
		delete(b.clocks, matchID)
	}
}

// StopAll cancels every running ticker, used on shutdown.
func (b *ClockBank) StopAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, cancel := range b.clocks {
		cancel()
		delete(b.clocks, id)
	}
}
