package app

import "github.com/malcano/flea-market-kiosk/internal/domain"

// PinResetPhrase is the out-of-band confirmation for the forced PIN reset.
// The original kiosk ships the same master override: anyone who knows the
// phrase can reset the PIN to the default, locked or not. Kept as-is; the
// gate is a convenience latch, not a security boundary.
const PinResetPhrase = "RESET"

// SubmitPin unlocks the admin gate when the candidate matches the
// configured PIN. Attempts are unlimited; a miss leaves the gate locked.
func (s *Session) SubmitPin(candidate string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if candidate != s.state.AdminPin {
		return domain.ErrAuthFailed
	}
	s.unlocked = true
	return nil
}

// LockGate relocks the session, as leaving the admin view does. The gate
// always starts locked; it is never persisted.
func (s *Session) LockGate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unlocked = false
}

func (s *Session) Unlocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unlocked
}

// ChangePin sets a new admin PIN. Requires the gate to be unlocked; PINs
// shorter than four characters are rejected.
func (s *Session) ChangePin(newPin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.unlocked {
		return domain.ErrAuthFailed
	}
	if len(newPin) < 4 {
		return domain.ErrWeakPin
	}
	s.state.AdminPin = newPin
	s.persistLocked()
	return nil
}

// ResetPin forces the admin PIN back to the default when the caller supplies
// the exact confirmation phrase. Works regardless of lock state.
func (s *Session) ResetPin(confirmation string) error {
	if confirmation != PinResetPhrase {
		return domain.ErrAuthFailed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AdminPin = domain.DefaultAdminPin
	s.persistLocked()
	return nil
}
