package http

import (
	"encoding/json"
	"net/http"

	"github.com/malcano/flea-market-kiosk/internal/app"
)

type pinRequest struct {
	Pin string `json:"pin"`
}

// HandleAdminPin submits a PIN to unlock the gate (POST) or changes the
// configured PIN while unlocked (PUT).
func HandleAdminPin(sess *app.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pinRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		switch r.Method {
		case http.MethodPost:
			if err := sess.SubmitPin(req.Pin); err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, gateView(sess))
		case http.MethodPut:
			if err := sess.ChangePin(req.Pin); err != nil {
				writeDomainError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

type resetPinRequest struct {
	Confirmation string `json:"confirmation"`
}

// HandleAdminPinReset is the forced reset escape hatch: the exact
// confirmation phrase restores the default PIN regardless of lock state.
func HandleAdminPinReset(sess *app.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req resetPinRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		if err := sess.ResetPin(req.Confirmation); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleAdminLock relocks the gate, as leaving the admin view does.
func HandleAdminLock(sess *app.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		sess.LockGate()
		writeJSON(w, http.StatusOK, gateView(sess))
	}
}

// HandleAdminReset clears sales history and starting cash.
func HandleAdminReset(sess *app.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		if err := sess.ResetData(); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type gateResponse struct {
	Unlocked bool `json:"unlocked"`
}

func gateView(sess *app.Session) gateResponse {
	return gateResponse{Unlocked: sess.Unlocked()}
}
