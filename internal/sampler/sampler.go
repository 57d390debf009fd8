// Package sampler runs the fixed-period acquisition loop and the
// broadcast bus connecting it to its subscribers.
package sampler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/luki/steepwatch/internal/sensor"
)

// DefaultPeriod is the time between samples.
const DefaultPeriod = 200 * time.Millisecond

// Bus fans readings out to subscribers. Delivery is at-most-once: a
// subscriber that has not drained its previous reading misses the
// tick rather than backing up the sampler.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan sensor.Reading
	next int
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan sensor.Reading)}
}

// Subscribe registers a new consumer and returns its channel along
// with a function that removes the subscription.
func (b *Bus) Subscribe() (<-chan sensor.Reading, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan sensor.Reading, 1)
	b.subs[id] = ch
	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
	return ch, cancel
}

// Publish offers r to every subscriber without blocking. With no
// subscribers it is a no-op.
func (b *Bus) Publish(r sensor.Reading) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- r:
		default:
		}
	}
}

// Loop pulls one reading per tick from the source and publishes it.
type Loop struct {
	Source sensor.Source
	Bus    *Bus
	Period time.Duration // defaults to DefaultPeriod
	Log    *slog.Logger
}

// Run samples until ctx is canceled. A failed read is logged and the
// tick skipped with the source state unchanged; a transient bus fault
// therefore costs one sample, which the confidence window absorbs.
func (l *Loop) Run(ctx context.Context) error {
	period := l.Period
	if period <= 0 {
		period = DefaultPeriod
	}
	log := l.Log
	if log == nil {
		log = slog.Default()
	}

	if err := l.Source.Start(); err != nil {
		return fmt.Errorf("start source: %w", err)
	}
	defer l.Source.Close()

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r, err := l.Source.Read()
			if err != nil {
				log.Error("sensor read failed", "error", err)
				continue
			}
			l.Bus.Publish(r)
		}
	}
}
