package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Ramakrishnajakkula/url-shortener/internal/storage"
)

// Repo is the slice of the store the recorder needs.
type Repo interface {
	WriteClickEvents(ctx context.Context, events []storage.ClickEvent) error
	IncrementClicks(ctx context.Context, code string) error
}

const (
	bufferSize    = 1000
	flushSize     = 25
	flushInterval = 5 * time.Second
	flushTimeout  = 3 * time.Second
)

// ClickRecorder persists click events off the redirect path. Events arrive
// on a buffered channel and are flushed in batches, either when the batch
// grows past flushSize or on the ticker. Failures are logged and dropped;
// nothing here may ever surface to a request handler.
type ClickRecorder struct {
	in     chan storage.ClickEvent
	logger *zap.Logger
	repo   Repo
	done   chan struct{}
	once   sync.Once
}

func NewClickRecorder(logger *zap.Logger, repo Repo) *ClickRecorder {
	return &ClickRecorder{
		in:     make(chan storage.ClickEvent, bufferSize),
		logger: logger,
		repo:   repo,
		done:   make(chan struct{}),
	}
}

func (w *ClickRecorder) GetInChannel() chan<- storage.ClickEvent {
	return w.in
}

// FlushClicks runs until the inbound channel is closed, then performs a
// final flush. Run it on its own goroutine.
func (w *ClickRecorder) FlushClicks() {
	defer close(w.done)

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	var batch []storage.ClickEvent

	for {
		select {
		case event, ok := <-w.in:
			if !ok {
				w.flush(batch)
				return
			}
			batch = append(batch, event)
			if len(batch) >= flushSize {
				w.flush(batch)
				batch = nil
			}
		case <-ticker.C:
			if len(batch) == 0 {
				continue
			}
			w.flush(batch)
			batch = nil
		}
	}
}

func (w *ClickRecorder) flush(batch []storage.ClickEvent) {
	if len(batch) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	if err := w.repo.WriteClickEvents(ctx, batch); err != nil {
		w.logger.Error("cannot record click events", zap.Error(err), zap.Int("count", len(batch)))
		return
	}

	for _, event := range batch {
		if err := w.repo.IncrementClicks(ctx, event.Shortcode); err != nil {
			w.logger.Warn("cannot increment click count",
				zap.Error(err), zap.String("shortcode", event.Shortcode))
		}
	}
}

// Stop closes the inbound channel and waits for the final flush.
// Safe to call more than once.
func (w *ClickRecorder) Stop() {
	w.once.Do(func() {
		close(w.in)
	})
	<-w.done
}
