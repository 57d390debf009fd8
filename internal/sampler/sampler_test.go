package sampler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luki/steepwatch/internal/sensor"
)

func TestBusDeliversInOrder(t *testing.T) {
	b := NewBus()
	ch, cancel := b.Subscribe()
	defer cancel()

	b.Publish(sensor.Reading{Object: 1})
	got := <-ch
	assert.Equal(t, 1.0, got.Object)

	b.Publish(sensor.Reading{Object: 2})
	got = <-ch
	assert.Equal(t, 2.0, got.Object)
}

func TestBusDropsWhenSubscriberIsSlow(t *testing.T) {
	b := NewBus()
	ch, cancel := b.Subscribe()
	defer cancel()

	// Nothing drains ch; the second publish must not block and the
	// subscriber only ever sees the first reading.
	b.Publish(sensor.Reading{Object: 1})
	b.Publish(sensor.Reading{Object: 2})

	got := <-ch
	assert.Equal(t, 1.0, got.Object)
	select {
	case r := <-ch:
		t.Fatalf("unexpected queued reading %v", r)
	default:
	}
}

func TestBusPublishWithoutSubscribers(t *testing.T) {
	b := NewBus()
	// Must be a no-op, not a panic or a block.
	b.Publish(sensor.Reading{Object: 42})
}

func TestBusUnsubscribe(t *testing.T) {
	b := NewBus()
	ch, cancel := b.Subscribe()
	cancel()
	b.Publish(sensor.Reading{Object: 7})
	select {
	case r := <-ch:
		t.Fatalf("canceled subscriber received %v", r)
	default:
	}
}

// failingSource errors on every read after a successful start.
type failingSource struct {
	reads int
}

func (f *failingSource) Start() error { return nil }

func (f *failingSource) Read() (sensor.Reading, error) {
	f.reads++
	if f.reads%2 == 0 {
		return sensor.Reading{}, sensor.ErrIO
	}
	return sensor.Reading{Ambient: 23, Object: 50}, nil
}

func (f *failingSource) Close() error { return nil }

func TestLoopPublishesEachTick(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe()
	defer cancel()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	loop := &Loop{
		Source: &sensor.Sine{PhaseStep: 0.2},
		Bus:    bus,
		Period: time.Millisecond,
	}
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	for i := 0; i < 5; i++ {
		select {
		case r := <-ch:
			assert.Equal(t, 23.0, r.Ambient)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for reading")
		}
	}

	stop()
	require.NoError(t, <-done)
}

func TestLoopSkipsFailedReads(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe()
	defer cancel()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	loop := &Loop{Source: &failingSource{}, Bus: bus, Period: time.Millisecond}
	go loop.Run(ctx)

	// Every delivered reading is a good one; failures only thin the
	// stream out.
	for i := 0; i < 3; i++ {
		select {
		case r := <-ch:
			assert.Equal(t, 50.0, r.Object)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for reading")
		}
	}
}

func TestLoopStartFailure(t *testing.T) {
	bad := &sensor.MLX90614{BusName: "no-such-bus"}
	loop := &Loop{Source: bad, Bus: NewBus(), Period: time.Millisecond}

	err := loop.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, sensor.ErrIO))
}
