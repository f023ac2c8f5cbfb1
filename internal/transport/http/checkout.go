package http

import (
	"encoding/json"
	"net/http"

	"github.com/malcano/flea-market-kiosk/internal/app"
	"github.com/malcano/flea-market-kiosk/internal/domain"
	"github.com/malcano/flea-market-kiosk/internal/money"
)

type checkoutRequest struct {
	Method         string       `json:"method"`
	AmountReceived *money.Money `json:"amount_received"`
}

type checkoutResponse struct {
	Sale                domain.Sale `json:"sale"`
	PersistenceDegraded bool        `json:"persistence_degraded"`
}

// HandleCheckout runs one checkout attempt over the current cart: select
// the method, tender cash when given, complete. Business rules stay in the
// core; this handler only drives the protocol.
func HandleCheckout(sess *app.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req checkoutRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		co := sess.BeginCheckout()
		method := domain.PaymentMethod(req.Method)
		if err := co.SelectMethod(method); err != nil {
			writeDomainError(w, err)
			return
		}
		if method == domain.PaymentCash && req.AmountReceived != nil {
			if err := co.Tender(*req.AmountReceived); err != nil {
				writeDomainError(w, err)
				return
			}
		}

		result, err := co.Complete()
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, checkoutResponse{
			Sale:                result.Sale,
			PersistenceDegraded: result.PersistenceDegraded,
		})
	}
}
