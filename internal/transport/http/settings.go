package http

import (
	"encoding/json"
	"net/http"

	"github.com/malcano/flea-market-kiosk/internal/app"
	"github.com/malcano/flea-market-kiosk/internal/domain"
	"github.com/malcano/flea-market-kiosk/internal/money"
)

type settingsResponse struct {
	AppTitle    string       `json:"app_title"`
	Theme       domain.Theme `json:"theme"`
	InitialCash money.Money  `json:"initial_cash"`
	Unlocked    bool         `json:"unlocked"`
}

type updateSettingsRequest struct {
	InitialCash *money.Money `json:"initial_cash"`
	Theme       *string      `json:"theme"`
}

// HandleSettings reads and updates the admin configuration. The PIN itself
// is never served.
func HandleSettings(sess *app.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, settingsResponse{
				AppTitle:    sess.AppTitle(),
				Theme:       sess.Theme(),
				InitialCash: sess.InitialCash(),
				Unlocked:    sess.Unlocked(),
			})
		case http.MethodPut:
			var req updateSettingsRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			if req.InitialCash != nil {
				if err := sess.SetInitialCash(*req.InitialCash); err != nil {
					writeDomainError(w, err)
					return
				}
			}
			if req.Theme != nil {
				if err := sess.SetTheme(domain.Theme(*req.Theme)); err != nil {
					writeDomainError(w, err)
					return
				}
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

type titleRequest struct {
	Title string `json:"title"`
}

// HandleTitle renames the kiosk; edited from the kiosk header, so ungated.
func HandleTitle(sess *app.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req titleRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if err := sess.SetAppTitle(req.Title); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
