package handlers

import (
	"net/http"

	"micasa-storefront/internal/config"
	"micasa-storefront/internal/models"
	"micasa-storefront/internal/store"
	"micasa-storefront/web/templates/pages"
)

// ProductLister lists merchandise in display order
type ProductLister interface {
	Products() []*models.Product
}

// PublicHandler handles the landing and merchandise pages
type PublicHandler struct {
	base
	events   EventCatalog
	products ProductLister
}

// NewPublicHandler creates a new public handler
func NewPublicHandler(state *store.State, shop config.ShopConfig, events EventCatalog, products ProductLister) *PublicHandler {
	return &PublicHandler{
		base:     base{state: state, shop: shop},
		events:   events,
		products: products,
	}
}

// HomePage lists the tour dates
func (h *PublicHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	render(w, r, http.StatusOK, pages.Home(pages.HomePage{
		Common: h.common(r, sess, ""),
		Events: h.events.Events(),
	}))
}

// MerchPage lists the merchandise with add-to-cart forms
func (h *PublicHandler) MerchPage(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	render(w, r, http.StatusOK, pages.Merch(pages.MerchPage{
		Common:   h.common(r, sess, "Merch"),
		Products: h.products.Products(),
	}))
}
