package app

import (
	"testing"

	"github.com/malcano/flea-market-kiosk/internal/domain"
)

func TestSession_Gate(t *testing.T) {
	t.Parallel()

	t.Run("wrong pin is refused", func(t *testing.T) {
		sess, _ := newTestSession(t)
		if err := sess.SubmitPin("9999"); err != domain.ErrAuthFailed {
			t.Fatalf("expected ErrAuthFailed, got %v", err)
		}
		if sess.Unlocked() {
			t.Fatalf("gate must stay locked after a wrong pin")
		}
	})

	t.Run("correct pin unlocks until relocked", func(t *testing.T) {
		sess, _ := newTestSession(t)
		if err := sess.SubmitPin(domain.DefaultAdminPin); err != nil {
			t.Fatalf("submit pin: %v", err)
		}
		if !sess.Unlocked() {
			t.Fatalf("expected gate unlocked")
		}
		sess.LockGate()
		if sess.Unlocked() {
			t.Fatalf("expected gate locked again")
		}
	})
}

func TestSession_ChangePin(t *testing.T) {
	t.Parallel()

	sess, store := newTestSession(t)

	t.Run("requires the gate open", func(t *testing.T) {
		if err := sess.ChangePin("1234"); err != domain.ErrAuthFailed {
			t.Fatalf("expected ErrAuthFailed, got %v", err)
		}
	})

	unlock(t, sess)

	t.Run("rejects short pins", func(t *testing.T) {
		if err := sess.ChangePin("12"); err != domain.ErrWeakPin {
			t.Fatalf("expected ErrWeakPin, got %v", err)
		}
	})

	t.Run("new pin replaces the old one", func(t *testing.T) {
		if err := sess.ChangePin("1234"); err != nil {
			t.Fatalf("change pin: %v", err)
		}
		sess.LockGate()
		if err := sess.SubmitPin(domain.DefaultAdminPin); err != domain.ErrAuthFailed {
			t.Fatalf("expected old pin refused, got %v", err)
		}
		if err := sess.SubmitPin("1234"); err != nil {
			t.Fatalf("expected new pin accepted: %v", err)
		}
	})

	t.Run("new pin survives a restart", func(t *testing.T) {
		sess.Close()
		snap := store.stored(t)
		if snap.AdminPin != "1234" {
			t.Fatalf("expected persisted pin, got %q", snap.AdminPin)
		}
	})
}

func TestSession_ResetPin(t *testing.T) {
	t.Parallel()

	sess, _ := newTestSession(t)
	unlock(t, sess)
	if err := sess.ChangePin("7777"); err != nil {
		t.Fatalf("change pin: %v", err)
	}
	sess.LockGate()

	t.Run("wrong confirmation phrase is refused", func(t *testing.T) {
		if err := sess.ResetPin("reset please"); err != domain.ErrAuthFailed {
			t.Fatalf("expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("the phrase restores the default pin even while locked", func(t *testing.T) {
		if err := sess.ResetPin(PinResetPhrase); err != nil {
			t.Fatalf("reset pin: %v", err)
		}
		if err := sess.SubmitPin(domain.DefaultAdminPin); err != nil {
			t.Fatalf("expected default pin accepted: %v", err)
		}
	})
}
