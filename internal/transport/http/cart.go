package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/malcano/flea-market-kiosk/internal/app"
	"github.com/malcano/flea-market-kiosk/internal/domain"
	"github.com/malcano/flea-market-kiosk/internal/money"
)

type cartResponse struct {
	Items          []domain.CartItem `json:"items"`
	Total          money.Money       `json:"total"`
	TotalFormatted string            `json:"total_formatted"`
}

func cartView(sess *app.Session) cartResponse {
	items := sess.Cart()
	total := domain.CartTotal(items)
	return cartResponse{
		Items:          items,
		Total:          total,
		TotalFormatted: total.Format(),
	}
}

// HandleCart serves the current cart and clears it.
func HandleCart(sess *app.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, cartView(sess))
		case http.MethodDelete:
			sess.ClearCart()
			w.WriteHeader(http.StatusNoContent)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

type addCartItemRequest struct {
	ProductID string `json:"product_id"`
}

// HandleCartItems adds one unit of a product to the cart.
func HandleCartItems(sess *app.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req addCartItemRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil || req.ProductID == "" {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		item, err := sess.AddToCart(req.ProductID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, item)
	}
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// HandleCartItem updates or removes a single cart line by product ID.
func HandleCartItem(sess *app.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := strings.TrimPrefix(r.URL.Path, "/cart/items/")
		if productID == "" || strings.Contains(productID, "/") {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch r.Method {
		case http.MethodPut:
			var req setQuantityRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			sess.SetCartQuantity(productID, req.Quantity)
			writeJSON(w, http.StatusOK, cartView(sess))
		case http.MethodDelete:
			sess.RemoveFromCart(productID)
			w.WriteHeader(http.StatusNoContent)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}
