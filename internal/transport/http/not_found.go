package http

import "net/http"

// NotFoundHandler answers unknown routes with the standard JSON error
// shape so kiosk clients never have to parse a plain-text 404.
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	})
}
