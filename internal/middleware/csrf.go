package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"

	"micasa-storefront/internal/logging"
	"micasa-storefront/internal/store"
)

type csrfKey struct{}

// CSRFMiddleware issues and checks the per-visitor form token
type CSRFMiddleware struct {
	state *store.State
}

// NewCSRFMiddleware creates a new CSRF middleware
func NewCSRFMiddleware(state *store.State) *CSRFMiddleware {
	return &CSRFMiddleware{state: state}
}

// Protect ensures a token exists for every visitor, exposes it to templates
// through the request context, and rejects state-changing requests that do
// not echo it back in the X-CSRF-Token header or csrf_token form field.
func (m *CSRFMiddleware) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.state.Open(r)
		if err != nil {
			WriteError(w, r, http.StatusInternalServerError, "Session error. Please refresh the page and try again.")
			return
		}

		fresh := !sess.HasCSRFToken()
		token := sess.CSRFToken()

		if r.Method != http.MethodGet && r.Method != http.MethodHead && r.Method != http.MethodOptions {
			requestToken := r.Header.Get("X-CSRF-Token")
			if requestToken == "" {
				requestToken = r.FormValue("csrf_token")
			}
			if fresh || subtle.ConstantTimeCompare([]byte(requestToken), []byte(token)) != 1 {
				logging.FromContext(r.Context()).WithField("path", r.URL.Path).Warn("csrf token mismatch")
				WriteError(w, r, http.StatusForbidden, "Security token mismatch. Please refresh the page and try again.")
				return
			}
		}

		if fresh {
			if err := sess.Save(w); err != nil {
				logging.FromContext(r.Context()).WithError(err).Error("failed to save csrf token")
			}
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), csrfKey{}, token)))
	})
}

// CSRFToken returns the token for the current request
func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(csrfKey{}).(string)
	return token
}
