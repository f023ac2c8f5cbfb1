package app

import (
	"context"
	"sync"
	"time"

	"github.com/malcano/flea-market-kiosk/internal/domain"
	"github.com/malcano/flea-market-kiosk/internal/storage"
)

const saveTimeout = 5 * time.Second

// saver writes snapshots through a single goroutine so overlapping saves can
// never finish out of order and clobber the slot with stale state. Enqueue
// keeps only the latest snapshot; a burst of mutations collapses into one
// write.
type saver struct {
	store  storage.SnapshotStore
	notify func(error)

	mu      sync.Mutex
	pending *domain.Snapshot
	lastErr error

	wake     chan struct{}
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newSaver(store storage.SnapshotStore, notify func(error)) *saver {
	w := &saver{
		store:  store,
		notify: notify,
		wake:   make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *saver) enqueue(snap domain.Snapshot) {
	w.mu.Lock()
	w.pending = &snap
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// degraded returns the error from the most recent save attempt, or nil when
// the last write (or no write yet) succeeded.
func (w *saver) degraded() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// close flushes the pending snapshot and stops the writer.
func (w *saver) close() {
	w.stopOnce.Do(func() {
		close(w.stop)
	})
	<-w.done
}

func (w *saver) run() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w.flush()
		case <-w.stop:
			w.flush()
			return
		}
	}
}

func (w *saver) flush() {
	for {
		w.mu.Lock()
		snap := w.pending
		w.pending = nil
		w.mu.Unlock()
		if snap == nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		err := w.store.Save(ctx, *snap)
		cancel()

		w.mu.Lock()
		w.lastErr = err
		w.mu.Unlock()

		if err != nil && w.notify != nil {
			w.notify(err)
		}
	}
}
