package middleware

import "net/http"

// IsHTMXRequest checks whether the request was issued by htmx
func IsHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// Redirect sends the client to url: htmx requests get HX-Redirect, others a 303
func Redirect(w http.ResponseWriter, r *http.Request, url string) {
	if IsHTMXRequest(r) {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
