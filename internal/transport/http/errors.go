package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/malcano/flea-market-kiosk/internal/domain"
)

const (
	codeMethodNotAllowed    = "method_not_allowed"
	codeNotFound            = "not_found"
	codeInvalidRequestBody  = "invalid_request_body"
	codeAuthFailed          = "auth_failed"
	codeWeakPin             = "weak_pin"
	codeProductNotFound     = "product_not_found"
	codeNameRequired        = "name_required"
	codeInvalidPrice        = "invalid_price"
	codeInvalidAmount       = "invalid_amount"
	codeInvalidMethod       = "invalid_method"
	codeInvalidTheme        = "invalid_theme"
	codeTitleRequired       = "title_required"
	codeEmptyCart           = "empty_cart"
	codeNoMethodSelected    = "no_method_selected"
	codeInsufficientPayment = "insufficient_payment"
	codeCheckoutCompleted   = "checkout_completed"
	codeCheckoutCancelled   = "checkout_cancelled"
	codeSaleExists          = "sale_exists"
	codeImportParseFailure  = "import_parse_failure"
	codeForbidden           = "forbidden"
	codeInternalError       = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps the core error taxonomy onto stable status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrAuthFailed):
		writeError(w, http.StatusUnauthorized, codeAuthFailed, err.Error())
	case errors.Is(err, domain.ErrWeakPin):
		writeError(w, http.StatusBadRequest, codeWeakPin, err.Error())
	case errors.Is(err, domain.ErrProductNotFound):
		writeError(w, http.StatusNotFound, codeProductNotFound, err.Error())
	case errors.Is(err, domain.ErrNameRequired):
		writeError(w, http.StatusBadRequest, codeNameRequired, err.Error())
	case errors.Is(err, domain.ErrInvalidPrice):
		writeError(w, http.StatusBadRequest, codeInvalidPrice, err.Error())
	case errors.Is(err, domain.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, codeInvalidAmount, err.Error())
	case errors.Is(err, domain.ErrInvalidMethod):
		writeError(w, http.StatusBadRequest, codeInvalidMethod, err.Error())
	case errors.Is(err, domain.ErrInvalidTheme):
		writeError(w, http.StatusBadRequest, codeInvalidTheme, err.Error())
	case errors.Is(err, domain.ErrTitleRequired):
		writeError(w, http.StatusBadRequest, codeTitleRequired, err.Error())
	case errors.Is(err, domain.ErrEmptyCart):
		writeError(w, http.StatusConflict, codeEmptyCart, err.Error())
	case errors.Is(err, domain.ErrNoMethodSelected):
		writeError(w, http.StatusConflict, codeNoMethodSelected, err.Error())
	case errors.Is(err, domain.ErrInsufficientPayment):
		writeError(w, http.StatusConflict, codeInsufficientPayment, err.Error())
	case errors.Is(err, domain.ErrCheckoutCompleted):
		writeError(w, http.StatusConflict, codeCheckoutCompleted, err.Error())
	case errors.Is(err, domain.ErrCheckoutCancelled):
		writeError(w, http.StatusConflict, codeCheckoutCancelled, err.Error())
	case errors.Is(err, domain.ErrSaleExists):
		writeError(w, http.StatusConflict, codeSaleExists, err.Error())
	case errors.Is(err, domain.ErrImportParse):
		writeError(w, http.StatusBadRequest, codeImportParseFailure, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
