package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/malcano/flea-market-kiosk/internal/app"
	"github.com/malcano/flea-market-kiosk/internal/money"
	"github.com/malcano/flea-market-kiosk/internal/report"
)

type productRequest struct {
	Name     string      `json:"name"`
	Category string      `json:"category"`
	Price    money.Money `json:"price"`
}

// HandleCatalog lists the catalog and creates products.
func HandleCatalog(sess *app.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, sess.Products())
		case http.MethodPost:
			var req productRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			product, err := sess.AddProduct(req.Name, req.Category, req.Price)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, product)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleProduct updates or removes a single catalog entry.
func HandleProduct(sess *app.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/catalog/")
		if id == "" || strings.Contains(id, "/") {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch r.Method {
		case http.MethodPut:
			var req productRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			product, err := sess.UpdateProduct(id, req.Name, req.Category, req.Price)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, product)
		case http.MethodDelete:
			if err := sess.RemoveProduct(id); err != nil {
				writeDomainError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

type importResponse struct {
	Count int `json:"count"`
}

// HandleCatalogImport replaces the whole catalog from an uploaded product
// workbook. All-or-nothing: a malformed workbook leaves the catalog alone.
func HandleCatalogImport(sess *app.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		products, err := report.ParseProducts(r.Body)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if err := sess.ReplaceCatalog(products); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, importResponse{Count: len(products)})
	}
}

// HandleCatalogTemplate serves the sample import workbook.
func HandleCatalogTemplate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="kiosk_template.xlsx"`)
		if err := report.WriteTemplate(w); err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		}
	}
}
