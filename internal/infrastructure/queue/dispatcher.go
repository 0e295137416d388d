package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/restaurant/storage-tracker/internal/core/ports"
)

const (
	defaultDelay = 100 * time.Millisecond
	writeTimeout = 5 * time.Second
)

// ErrClosed is returned by Flush after Close.
var ErrClosed = errors.New("dispatcher closed")

// WriteObserver is told about every completed write.
type WriteObserver func(key string, took time.Duration, err error)

// Dispatcher debounces writes to a KeyValueStore. Each key has at most one
// pending value; scheduling again before the delay elapses replaces the value
// and restarts the timer, so bursts of changes collapse into one write.
type Dispatcher struct {
	store    ports.KeyValueStore
	delay    time.Duration
	log      zerolog.Logger
	observer WriteObserver

	mu      sync.Mutex
	pending map[string]*pendingWrite
	seq     uint64
	closed  bool

	// writeMu serializes writes; written holds the last sequence stored per
	// key so an older value never lands after a newer one.
	writeMu sync.Mutex
	written map[string]uint64
}

type pendingWrite struct {
	value []byte
	seq   uint64
	timer *time.Timer
}

type queued struct {
	value []byte
	seq   uint64
}

// NewDispatcher creates a Dispatcher. If delay <= 0, defaultDelay is used.
func NewDispatcher(store ports.KeyValueStore, delay time.Duration, log zerolog.Logger) *Dispatcher {
	if delay <= 0 {
		delay = defaultDelay
	}
	return &Dispatcher{
		store:   store,
		delay:   delay,
		log:     log,
		pending: make(map[string]*pendingWrite),
		written: make(map[string]uint64),
	}
}

// OnWrite installs an observer for completed writes.
func (d *Dispatcher) OnWrite(fn WriteObserver) {
	d.mu.Lock()
	d.observer = fn
	d.mu.Unlock()
}

// Schedule queues value for key. Calls after Close are dropped.
func (d *Dispatcher) Schedule(key string, value []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		d.log.Warn().Str("key", key).Msg("write scheduled after close, dropped")
		return
	}

	d.seq++
	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
		p.value = value
		p.seq = d.seq
		p.timer = time.AfterFunc(d.delay, func() { d.fire(key, p) })
		return
	}

	p := &pendingWrite{value: value, seq: d.seq}
	p.timer = time.AfterFunc(d.delay, func() { d.fire(key, p) })
	d.pending[key] = p
}

// Pending returns the number of keys waiting to be written.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

func (d *Dispatcher) fire(key string, p *pendingWrite) {
	d.mu.Lock()
	if d.pending[key] != p {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	q := queued{value: p.value, seq: p.seq}
	d.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	_ = d.write(ctx, key, q)
}

// Flush writes every pending value immediately.
func (d *Dispatcher) Flush(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	batch := d.drainLocked()
	d.mu.Unlock()

	return d.writeAll(ctx, batch)
}

// Close flushes pending writes and stops accepting new ones.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	batch := d.drainLocked()
	d.mu.Unlock()

	return d.writeAll(ctx, batch)
}

func (d *Dispatcher) drainLocked() map[string]queued {
	batch := make(map[string]queued, len(d.pending))
	for key, p := range d.pending {
		p.timer.Stop()
		batch[key] = queued{value: p.value, seq: p.seq}
		delete(d.pending, key)
	}
	return batch
}

func (d *Dispatcher) writeAll(ctx context.Context, batch map[string]queued) error {
	var errs []error
	for key, q := range batch {
		if err := d.write(ctx, key, q); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) write(ctx context.Context, key string, q queued) error {
	d.writeMu.Lock()
	if q.seq < d.written[key] {
		d.writeMu.Unlock()
		return nil
	}
	start := time.Now()
	err := d.store.Set(ctx, key, q.value)
	took := time.Since(start)
	if err == nil {
		d.written[key] = q.seq
	}
	d.writeMu.Unlock()

	if err != nil {
		d.log.Error().Err(err).Str("key", key).Msg("storage write failed")
	} else {
		d.log.Debug().Str("key", key).Int("bytes", len(q.value)).Dur("took", took).Msg("storage write")
	}

	d.mu.Lock()
	obs := d.observer
	d.mu.Unlock()
	if obs != nil {
		obs(key, took, err)
	}
	return err
}
