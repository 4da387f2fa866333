package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/catwhisperingninja/cat-dexscreener/internal/core"
)

// RateLimiter enforces per-class sliding-window admission. Each class owns an
// independent window of recent admission timestamps; AwaitSlot suspends the
// caller until admitting it would keep the trailing-window count at or below
// the class capacity.
type RateLimiter struct {
	classes map[string]*classState

	// Clock supplies timestamps; tests inject synthetic time.
	Clock func() time.Time

	// Sleep suspends for the given duration or until ctx is done. Tests
	// replace it to advance the synthetic clock instead of waiting.
	Sleep func(ctx context.Context, d time.Duration) error
}

type classState struct {
	mu       sync.Mutex
	capacity int
	window   time.Duration
	stamps   []time.Time
}

// NewRateLimiter builds a limiter from class configuration. A capacity below
// one or a non-positive window is a configuration error.
func NewRateLimiter(classes map[string]core.LimiterClass) (*RateLimiter, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("at least one limiter class is required")
	}

	states := make(map[string]*classState, len(classes))
	for name, cfg := range classes {
		if cfg.Capacity < 1 {
			return nil, fmt.Errorf("limiter class %q: capacity must be at least 1", name)
		}
		if cfg.Window <= 0 {
			return nil, fmt.Errorf("limiter class %q: window must be positive", name)
		}
		states[name] = &classState{
			capacity: cfg.Capacity,
			window:   cfg.Window,
			stamps:   make([]time.Time, 0, cfg.Capacity),
		}
	}

	return &RateLimiter{classes: states}, nil
}

// AwaitSlot blocks until the named class has room for one more admission,
// records the admission, and returns. It only fails when ctx is done before
// admission (in which case no slot was consumed) or when the class does not
// exist.
func (l *RateLimiter) AwaitSlot(ctx context.Context, class string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	state, ok := l.classes[class]
	if !ok {
		return fmt.Errorf("unknown limiter class: %s", class)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		now := l.now()

		state.mu.Lock()
		state.prune(now)
		if len(state.stamps) < state.capacity {
			state.stamps = append(state.stamps, now)
			state.mu.Unlock()
			return nil
		}

		// Window is full: the next slot opens when the oldest admission
		// leaves the trailing window. A clock that stepped backward could
		// produce a negative delay; clamp and re-check immediately.
		delay := state.window - now.Sub(state.stamps[0])
		state.mu.Unlock()

		if delay < 0 {
			delay = 0
		}

		if err := l.sleep(ctx, delay); err != nil {
			return err
		}
		// Another suspended caller may have taken the freed slot; loop and
		// re-evaluate against current state.
	}
}

// Usage reports the admission count inside the current trailing window for
// the named class.
func (l *RateLimiter) Usage(class string) (core.ClassUsage, bool) {
	state, ok := l.classes[class]
	if !ok {
		return core.ClassUsage{}, false
	}

	now := l.now()

	state.mu.Lock()
	state.prune(now)
	usage := core.ClassUsage{
		Class:    class,
		Capacity: state.capacity,
		Window:   state.window,
		InFlight: len(state.stamps),
	}
	state.mu.Unlock()

	return usage, true
}

// Classes returns the configured class names in stable order.
func (l *RateLimiter) Classes() []string {
	names := make([]string, 0, len(l.classes))
	for name := range l.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// prune drops timestamps older than the trailing window. Callers hold the
// class mutex.
func (s *classState) prune(now time.Time) {
	cutoff := now.Add(-s.window)
	idx := 0
	for idx < len(s.stamps) && !s.stamps[idx].After(cutoff) {
		idx++
	}
	if idx > 0 {
		s.stamps = append(s.stamps[:0], s.stamps[idx:]...)
	}
}

func (l *RateLimiter) now() time.Time {
	if l != nil && l.Clock != nil {
		return l.Clock()
	}
	return time.Now().UTC()
}

func (l *RateLimiter) sleep(ctx context.Context, d time.Duration) error {
	if l != nil && l.Sleep != nil {
		return l.Sleep(ctx, d)
	}
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
