package handlers

import (
	"bytes"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"micasa-storefront/internal/config"
	"micasa-storefront/internal/logging"
	"micasa-storefront/internal/middleware"
	"micasa-storefront/internal/services"
	"micasa-storefront/internal/store"
	"micasa-storefront/web/templates/pages"

	"github.com/a-h/templ"
)

// base carries what every storefront handler needs to load visitor state and
// fill the shared page data
type base struct {
	state *store.State
	shop  config.ShopConfig
}

func (b base) open(w http.ResponseWriter, r *http.Request) (*store.Session, bool) {
	sess, err := b.state.Open(r)
	if err != nil {
		logging.FromContext(r.Context()).WithError(err).Error("failed to open session")
		middleware.WriteError(w, r, http.StatusInternalServerError, "Session error. Please refresh the page and try again.")
		return nil, false
	}
	return sess, true
}

func (b base) save(w http.ResponseWriter, r *http.Request, sess *store.Session) bool {
	if err := sess.Save(w); err != nil {
		logging.FromContext(r.Context()).WithError(err).Error("failed to save session")
		middleware.WriteError(w, r, http.StatusInternalServerError, "Could not save your changes. Please try again.")
		return false
	}
	return true
}

func (b base) common(r *http.Request, sess *store.Session, title string) pages.Common {
	return pages.Common{
		Title:     title,
		CSRFToken: middleware.CSRFToken(r.Context()),
		Currency:  b.shop.Currency,
		CartCount: services.BadgeCount(sess.Cart()),
	}
}

// render buffers c so a template error never leaves a half-written page
func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		logging.FromContext(r.Context()).WithError(err).Error("failed to render template")
		middleware.WriteError(w, r, http.StatusInternalServerError, "Failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// parseYearMonth reads year and month (1-12) from values
func parseYearMonth(values url.Values) (int, time.Month, bool) {
	year, err := strconv.Atoi(values.Get("year"))
	if err != nil || year < 1 || year > 9999 {
		return 0, 0, false
	}
	month, err := strconv.Atoi(values.Get("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, time.Month(month), true
}
