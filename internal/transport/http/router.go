package http

import (
	"net/http"

	"github.com/malcano/flea-market-kiosk/internal/app"
)

// NewRouter wires every kiosk route onto one mux. Exact patterns take
// precedence over the trailing-slash handlers that parse an ID suffix.
func NewRouter(sess *app.Session) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", HealthHandler)

	mux.Handle("/catalog", HandleCatalog(sess))
	mux.Handle("/catalog/import", HandleCatalogImport(sess))
	mux.Handle("/catalog/template", HandleCatalogTemplate())
	mux.Handle("/catalog/", HandleProduct(sess))

	mux.Handle("/cart", HandleCart(sess))
	mux.Handle("/cart/items", HandleCartItems(sess))
	mux.Handle("/cart/items/", HandleCartItem(sess))

	mux.Handle("/checkout", HandleCheckout(sess))

	mux.Handle("/sales", HandleSales(sess))
	mux.Handle("/sales/stats", HandleSalesStats(sess))
	mux.Handle("/sales/import", HandleSalesImport(sess))
	mux.Handle("/sales/report", HandleSalesReport(sess))
	mux.Handle("/sales/", HandleSale(sess))

	mux.Handle("/settings", HandleSettings(sess))
	mux.Handle("/settings/title", HandleTitle(sess))

	mux.Handle("/admin/pin", HandleAdminPin(sess))
	mux.Handle("/admin/pin/reset", HandleAdminPinReset(sess))
	mux.Handle("/admin/lock", HandleAdminLock(sess))
	mux.Handle("/admin/reset", HandleAdminReset(sess))

	mux.Handle("/", NotFoundHandler())

	return mux
}
