package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"micasa-storefront/internal/logging"
)

const errorFragment = `<div class="alert alert-error" role="alert"><p>%s</p></div>`

// Recoverer turns panics into a 500 response. HTMX requests get a fragment
// that can be swapped into the page.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				logging.FromContext(r.Context()).
					WithField("panic", fmt.Sprint(err)).
					WithField("stack", string(debug.Stack())).
					Error("recovered from panic")

				WriteError(w, r, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// WriteError responds with msg. HTMX requests receive an HTML fragment,
// others a plain text body.
func WriteError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if IsHTMXRequest(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		fmt.Fprintf(w, errorFragment, msg)
		return
	}
	http.Error(w, msg, status)
}

// NotFoundHandler handles unknown routes
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusNotFound, "The page you're looking for doesn't exist.")
	})
}

// MethodNotAllowedHandler handles 405 errors
func MethodNotAllowedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, "Method not allowed for this endpoint.")
	})
}
