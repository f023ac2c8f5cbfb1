package app

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/malcano/flea-market-kiosk/internal/clock"
	"github.com/malcano/flea-market-kiosk/internal/domain"
	"github.com/malcano/flea-market-kiosk/internal/money"
)

// memStore keeps the serialized slot in memory so tests cover the same
// encode/decode path the real stores use.
type memStore struct {
	mu      sync.Mutex
	data    []byte
	found   bool
	saves   int
	loadErr error
	saveErr error
}

func (m *memStore) Load(ctx context.Context) (domain.Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return domain.Snapshot{}, false, m.loadErr
	}
	if !m.found {
		return domain.Snapshot{}, false, nil
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(m.data, &snap); err != nil {
		return domain.Snapshot{}, false, err
	}
	return snap, true, nil
}

func (m *memStore) Save(ctx context.Context, snap domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	m.data = data
	m.found = true
	m.saves++
	return nil
}

func (m *memStore) stored(t *testing.T) domain.Snapshot {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.found {
		t.Fatalf("expected a saved snapshot")
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(m.data, &snap); err != nil {
		t.Fatalf("decode stored snapshot: %v", err)
	}
	return snap
}

var testNow = time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)

func newTestSession(t *testing.T) (*Session, *memStore) {
	t.Helper()
	store := &memStore{}
	sess := NewSession(context.Background(), store, clock.NewFixed(testNow))
	t.Cleanup(sess.Close)
	return sess, store
}

func unlock(t *testing.T, sess *Session) {
	t.Helper()
	if err := sess.SubmitPin(domain.DefaultAdminPin); err != nil {
		t.Fatalf("unlock gate: %v", err)
	}
}

func seedProduct(t *testing.T, sess *Session, name, category string, price int64) domain.Product {
	t.Helper()
	wasUnlocked := sess.Unlocked()
	if !wasUnlocked {
		unlock(t, sess)
	}
	product, err := sess.AddProduct(name, category, money.FromInt(price))
	if err != nil {
		t.Fatalf("seed product %s: %v", name, err)
	}
	if !wasUnlocked {
		sess.LockGate()
	}
	return product
}

func TestNewSession_Defaults(t *testing.T) {
	t.Parallel()

	t.Run("empty store starts from defaults", func(t *testing.T) {
		sess, _ := newTestSession(t)

		if got := sess.AppTitle(); got != domain.DefaultAppTitle {
			t.Fatalf("expected default title, got %q", got)
		}
		if got := sess.Theme(); got != domain.ThemeSystem {
			t.Fatalf("expected system theme, got %q", got)
		}
		if !sess.InitialCash().IsZero() {
			t.Fatalf("expected zero initial cash, got %s", sess.InitialCash())
		}
		if len(sess.Products()) != 0 || len(sess.Cart()) != 0 || len(sess.Sales()) != 0 {
			t.Fatalf("expected empty collections")
		}
		if sess.Unlocked() {
			t.Fatalf("gate must start locked")
		}
	})

	t.Run("unreadable store falls back to defaults and notifies", func(t *testing.T) {
		store := &memStore{loadErr: errors.New("disk gone")}
		var notified error
		sess := NewSession(context.Background(), store, clock.NewFixed(testNow), WithSaveObserver(func(err error) {
			notified = err
		}))
		t.Cleanup(sess.Close)

		if got := sess.AppTitle(); got != domain.DefaultAppTitle {
			t.Fatalf("expected default title, got %q", got)
		}
		if notified == nil {
			t.Fatalf("expected load failure to reach the observer")
		}
	})

	t.Run("existing snapshot is restored and normalized", func(t *testing.T) {
		store := &memStore{}
		seed := domain.Snapshot{
			Products: []domain.Product{{ID: "p1", Name: "Mug", Category: "Kitchen", Price: money.FromInt(4000)}},
			AppTitle: "Saturday Market",
			// AdminPin and Theme left blank, as an older snapshot might.
		}
		data, err := json.Marshal(seed)
		if err != nil {
			t.Fatalf("marshal seed: %v", err)
		}
		store.data = data
		store.found = true

		sess := NewSession(context.Background(), store, clock.NewFixed(testNow))
		t.Cleanup(sess.Close)

		if got := sess.AppTitle(); got != "Saturday Market" {
			t.Fatalf("expected restored title, got %q", got)
		}
		products := sess.Products()
		if len(products) != 1 || products[0].Name != "Mug" {
			t.Fatalf("expected restored catalog, got %+v", products)
		}
		if err := sess.SubmitPin(domain.DefaultAdminPin); err != nil {
			t.Fatalf("expected blank pin to normalize to default: %v", err)
		}
		if got := sess.Theme(); got != domain.ThemeSystem {
			t.Fatalf("expected blank theme to normalize to system, got %q", got)
		}
	})
}

func TestSession_MutationsPersist(t *testing.T) {
	t.Parallel()

	sess, store := newTestSession(t)
	product := seedProduct(t, sess, "Widget", "Toys", 1000)

	if _, err := sess.AddToCart(product.ID); err != nil {
		t.Fatalf("add to cart: %v", err)
	}
	if err := sess.SetAppTitle("Night Market"); err != nil {
		t.Fatalf("set title: %v", err)
	}

	// Close flushes the pending save; the stored snapshot must reflect the
	// latest state.
	sess.Close()

	snap := store.stored(t)
	if len(snap.Products) != 1 || snap.Products[0].ID != product.ID {
		t.Fatalf("expected persisted catalog, got %+v", snap.Products)
	}
	if len(snap.Cart) != 1 || snap.Cart[0].Quantity != 1 {
		t.Fatalf("expected persisted cart, got %+v", snap.Cart)
	}
	if snap.AppTitle != "Night Market" {
		t.Fatalf("expected persisted title, got %q", snap.AppTitle)
	}
}

func TestSession_SaveFailureKeepsStateAndNotifies(t *testing.T) {
	t.Parallel()

	store := &memStore{saveErr: errors.New("slot unavailable")}
	failures := make(chan error, 16)
	sess := NewSession(context.Background(), store, clock.NewFixed(testNow), WithSaveObserver(func(err error) {
		failures <- err
	}))
	t.Cleanup(sess.Close)

	product := seedProduct(t, sess, "Widget", "Toys", 1000)
	if _, err := sess.AddToCart(product.ID); err != nil {
		t.Fatalf("add to cart: %v", err)
	}

	select {
	case err := <-failures:
		if err == nil {
			t.Fatalf("expected a save failure")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("save failure never reached the observer")
	}

	// In-memory state stays authoritative even with the store down.
	if len(sess.Cart()) != 1 {
		t.Fatalf("expected cart to survive save failure")
	}
	if !sess.PersistenceDegraded() {
		t.Fatalf("expected degraded persistence to be reported")
	}
}

func TestSession_SettingsGating(t *testing.T) {
	t.Parallel()

	sess, _ := newTestSession(t)

	if err := sess.SetInitialCash(money.FromInt(50000)); err != domain.ErrAuthFailed {
		t.Fatalf("expected ErrAuthFailed while locked, got %v", err)
	}
	if err := sess.SetTheme(domain.ThemeDark); err != domain.ErrAuthFailed {
		t.Fatalf("expected ErrAuthFailed while locked, got %v", err)
	}
	if err := sess.ResetData(); err != domain.ErrAuthFailed {
		t.Fatalf("expected ErrAuthFailed while locked, got %v", err)
	}

	unlock(t, sess)

	if err := sess.SetInitialCash(money.FromInt(50000)); err != nil {
		t.Fatalf("set initial cash: %v", err)
	}
	if err := sess.SetInitialCash(money.FromInt(-1)); err != domain.ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if err := sess.SetTheme("sepia"); err != domain.ErrInvalidTheme {
		t.Fatalf("expected ErrInvalidTheme, got %v", err)
	}
	if err := sess.SetTheme(domain.ThemeDark); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if got := sess.Theme(); got != domain.ThemeDark {
		t.Fatalf("expected dark theme, got %q", got)
	}
}

func TestSession_ResetDataClearsLedgerAndCash(t *testing.T) {
	t.Parallel()

	sess, _ := newTestSession(t)
	product := seedProduct(t, sess, "Widget", "Toys", 1000)
	unlock(t, sess)

	if err := sess.SetInitialCash(money.FromInt(30000)); err != nil {
		t.Fatalf("set initial cash: %v", err)
	}
	if _, err := sess.AddToCart(product.ID); err != nil {
		t.Fatalf("add to cart: %v", err)
	}
	co := sess.BeginCheckout()
	if err := co.SelectMethod(domain.PaymentCard); err != nil {
		t.Fatalf("select method: %v", err)
	}
	if _, err := co.Complete(); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if err := sess.ResetData(); err != nil {
		t.Fatalf("reset data: %v", err)
	}

	if len(sess.Sales()) != 0 {
		t.Fatalf("expected empty ledger after reset")
	}
	if !sess.InitialCash().IsZero() {
		t.Fatalf("expected zero initial cash after reset")
	}
	// The catalog survives a data reset.
	if len(sess.Products()) != 1 {
		t.Fatalf("expected catalog to survive reset")
	}
}

func TestSession_SetAppTitle(t *testing.T) {
	t.Parallel()

	sess, _ := newTestSession(t)
	if err := sess.SetAppTitle(""); err != domain.ErrTitleRequired {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
	// Title edits are ungated; the original changes it from the kiosk header.
	if err := sess.SetAppTitle("Spring Fair"); err != nil {
		t.Fatalf("set title: %v", err)
	}
	if got := sess.AppTitle(); got != "Spring Fair" {
		t.Fatalf("expected new title, got %q", got)
	}
}
