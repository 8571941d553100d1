package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/explore-taroudant/explore-api/internal/core/domain"
	"github.com/explore-taroudant/explore-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// ErrClosed is returned by Record after Close.
var ErrClosed = errors.New("audit dispatcher closed")

// AuditDispatcher writes moderation events to a sink off the request path.
// Events are sharded by listing id onto a fixed set of workers, so the
// decisions on one listing are persisted in the order they were made.
type AuditDispatcher struct {
	workers []chan *domain.ModerationEvent
	sink    ports.AuditLog
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

var _ ports.AuditLog = (*AuditDispatcher)(nil)

// NewAuditDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, sink ports.AuditLog, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan *domain.ModerationEvent, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan *domain.ModerationEvent, channelBuffer)
	}
	return d
}

// Start launches the worker goroutines. They run until Close drains them.
func (d *AuditDispatcher) Start() {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// Record enqueues event for its listing's worker. It blocks only while that
// worker's buffer is full, and gives up when ctx ends.
func (d *AuditDispatcher) Record(ctx context.Context, event *domain.ModerationEvent) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}

	select {
	case d.workers[d.shardIndex(event.ListingID)] <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting events and waits until every queued event is written.
func (d *AuditDispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps a listing id deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(listingID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(listingID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *AuditDispatcher) runWorker(id int, ch <-chan *domain.ModerationEvent) {
	defer d.wg.Done()
	for event := range ch {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := d.sink.Record(ctx, event); err != nil {
			d.log.Error().Err(err).
				Str("listing_id", event.ListingID).
				Str("action", string(event.Action)).
				Int("worker_id", id).
				Msg("audit write failed")
		}
		cancel()
	}
}
