package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/malcano/flea-market-kiosk/internal/clock"
	"github.com/malcano/flea-market-kiosk/internal/domain"
	"github.com/malcano/flea-market-kiosk/internal/money"
	"github.com/malcano/flea-market-kiosk/internal/storage"
)

// Session owns the single kiosk session: catalog, cart, ledger and admin
// settings. Commands run to completion under one lock, and every mutation
// enqueues a whole-snapshot save. In-memory state stays authoritative even
// when the store is down; save failures reach the observer instead of
// rolling anything back.
type Session struct {
	mu       sync.Mutex
	clock    clock.Clock
	state    domain.Snapshot
	unlocked bool
	saver    *saver
	notify   func(error)
}

type SessionOption func(*Session)

// WithSaveObserver registers a callback for load and save failures. The
// callback runs on the saver goroutine and must not block.
func WithSaveObserver(fn func(error)) SessionOption {
	return func(s *Session) {
		if fn != nil {
			s.notify = fn
		}
	}
}

// NewSession loads the snapshot slot and starts the save writer. An absent
// or unreadable slot falls back to defaults; startup never fails on storage.
func NewSession(ctx context.Context, store storage.SnapshotStore, clk clock.Clock, opts ...SessionOption) *Session {
	if clk == nil {
		clk = clock.NewSystem()
	}
	s := &Session{clock: clk}
	for _, opt := range opts {
		opt(s)
	}

	snap, found, err := store.Load(ctx)
	switch {
	case err != nil:
		if s.notify != nil {
			s.notify(fmt.Errorf("load snapshot: %w", err))
		}
		snap = domain.Defaults()
	case !found:
		snap = domain.Defaults()
	default:
		snap.Normalize()
	}
	s.state = snap

	s.saver = newSaver(store, s.notify)
	return s
}

// Close flushes any pending save and stops the writer.
func (s *Session) Close() {
	s.saver.close()
}

// PersistenceDegraded reports whether the most recent save attempt failed.
func (s *Session) PersistenceDegraded() bool {
	return s.saver.degraded() != nil
}

func (s *Session) persistLocked() {
	s.saver.enqueue(s.state.Clone())
}

func (s *Session) AppTitle() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.AppTitle
}

func (s *Session) Theme() domain.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Theme
}

func (s *Session) InitialCash() money.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.InitialCash
}

// SetAppTitle renames the kiosk. The original edits the title straight from
// the kiosk header, so this is the one ungated setting.
func (s *Session) SetAppTitle(title string) error {
	if title == "" {
		return domain.ErrTitleRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AppTitle = title
	s.persistLocked()
	return nil
}

func (s *Session) SetInitialCash(amount money.Money) error {
	if amount.IsNegative() {
		return domain.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.unlocked {
		return domain.ErrAuthFailed
	}
	s.state.InitialCash = amount
	s.persistLocked()
	return nil
}

func (s *Session) SetTheme(theme domain.Theme) error {
	if !theme.Valid() {
		return domain.ErrInvalidTheme
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.unlocked {
		return domain.ErrAuthFailed
	}
	s.state.Theme = theme
	s.persistLocked()
	return nil
}

// ResetData clears the ledger and zeroes the starting cash. Catalog, cart,
// title, pin and theme survive.
func (s *Session) ResetData() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.unlocked {
		return domain.ErrAuthFailed
	}
	s.state.Sales = nil
	s.state.InitialCash = money.Zero()
	s.persistLocked()
	return nil
}
