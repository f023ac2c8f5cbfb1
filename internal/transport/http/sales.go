package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/malcano/flea-market-kiosk/internal/app"
	"github.com/malcano/flea-market-kiosk/internal/money"
	"github.com/malcano/flea-market-kiosk/internal/report"
)

// HandleSales lists the ledger and clears it.
func HandleSales(sess *app.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, sess.Sales())
		case http.MethodDelete:
			if err := sess.ClearSales(); err != nil {
				writeDomainError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleSale deletes a single sale record by ID.
func HandleSale(sess *app.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/sales/")
		if id == "" || strings.Contains(id, "/") {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if r.Method != http.MethodDelete {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		if err := sess.DeleteSale(id); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type productStatView struct {
	Name     string      `json:"name"`
	Category string      `json:"category"`
	Quantity int         `json:"quantity"`
	Revenue  money.Money `json:"revenue"`
}

type categoryStatView struct {
	Category string      `json:"category"`
	Revenue  money.Money `json:"revenue"`
}

type statsResponse struct {
	Count        int                `json:"count"`
	TotalRevenue money.Money        `json:"total_revenue"`
	CardRevenue  money.Money        `json:"card_revenue"`
	CashRevenue  money.Money        `json:"cash_revenue"`
	Products     []productStatView  `json:"products"`
	Categories   []categoryStatView `json:"categories"`
}

// HandleSalesStats serves the dashboard aggregates, recomputed per request.
func HandleSalesStats(sess *app.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		stats := sess.Stats()
		resp := statsResponse{
			Count:        stats.Count,
			TotalRevenue: stats.TotalRevenue,
			CardRevenue:  stats.CardRevenue,
			CashRevenue:  stats.CashRevenue,
			Products:     make([]productStatView, 0, len(stats.Products)),
			Categories:   make([]categoryStatView, 0, len(stats.Categories)),
		}
		for _, p := range stats.Products {
			resp.Products = append(resp.Products, productStatView{
				Name:     p.Name,
				Category: p.Category,
				Quantity: p.Quantity,
				Revenue:  p.Revenue,
			})
		}
		for _, c := range stats.Categories {
			resp.Categories = append(resp.Categories, categoryStatView{
				Category: c.Category,
				Revenue:  c.Revenue,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleSalesImport restores sales from an uploaded backup workbook.
func HandleSalesImport(sess *app.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		sales, err := report.ParseSales(r.Body)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if err := sess.ImportSales(sales); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, importResponse{Count: len(sales)})
	}
}

// HandleSalesReport streams the four-sheet accounting report.
func HandleSalesReport(sess *app.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		filename := fmt.Sprintf("flea_market_report_%s.xlsx", time.Now().Format("2006-01-02"))
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		if err := report.WriteSalesReport(w, sess.Sales(), sess.InitialCash()); err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		}
	}
}
