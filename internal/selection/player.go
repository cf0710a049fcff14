package selection

import (
	"context"
	"log/slog"
	"time"
)

// Player emits TimerTick events into a store every interval while the
// selection is playing. Pausing stops further ticks; a tick already in flight
// is harmless because the reducer ignores ticks when not playing.
type Player struct {
	store    *Store
	interval time.Duration
	logger   *slog.Logger
}

// NewPlayer creates a player for store. A nil logger discards output.
func NewPlayer(store *Store, interval time.Duration, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Player{store: store, interval: interval, logger: logger}
}

// Run blocks until ctx is cancelled.
func (p *Player) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !p.store.Get().Playing {
				continue
			}
			if st, changed := p.store.Dispatch(TimerTick{}); changed {
				p.logger.Debug("auto-advance", "year", st.Year)
			}
		}
	}
}
