package handlers

import (
	"errors"
	"net/http"
	"strings"

	"micasa-storefront/internal/config"
	"micasa-storefront/internal/logging"
	"micasa-storefront/internal/middleware"
	"micasa-storefront/internal/models"
	"micasa-storefront/internal/services"
	"micasa-storefront/internal/store"
	"micasa-storefront/web/templates/pages"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// cartUpdatedEvent tells the nav badge to refresh itself
const cartUpdatedEvent = "cart-updated"

// CartHandler handles the merchandise cart
type CartHandler struct {
	base
	cart services.CartServiceInterface
}

// NewCartHandler creates a new cart handler
func NewCartHandler(state *store.State, shop config.ShopConfig, cart services.CartServiceInterface) *CartHandler {
	return &CartHandler{
		base: base{state: state, shop: shop},
		cart: cart,
	}
}

func (h *CartHandler) view(r *http.Request, sess *store.Session) pages.CartView {
	cart := sess.Cart()
	return pages.CartView{
		Common: h.common(r, sess, "Your Cart"),
		Items:  cart.Items,
		Totals: h.cart.Totals(cart),
	}
}

// AddToCart adds a product, in the chosen size if it has sizes
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	qty := 1
	if raw := strings.TrimSpace(r.FormValue("quantity")); raw != "" {
		n, err := services.ParseQuantity(raw)
		if err != nil {
			middleware.WriteError(w, r, http.StatusBadRequest, "Invalid quantity")
			return
		}
		qty = n
	}

	item, err := h.cart.NewLine(r.FormValue("product_id"), r.FormValue("size"))
	switch {
	case errors.Is(err, models.ErrProductNotFound):
		middleware.WriteError(w, r, http.StatusNotFound, "Product not found")
		return
	case errors.Is(err, models.ErrInvalidInput):
		middleware.WriteError(w, r, http.StatusBadRequest, "Please choose a size")
		return
	case err != nil:
		logging.FromContext(r.Context()).WithError(err).Error("failed to resolve product")
		middleware.WriteError(w, r, http.StatusInternalServerError, "Failed to add item to cart")
		return
	}

	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	cart := sess.Cart()
	if err := services.AddItem(cart, item, qty); err != nil {
		middleware.WriteError(w, r, http.StatusBadRequest, "Invalid quantity")
		return
	}
	if !h.persist(w, r, sess, cart) {
		return
	}

	logging.FromContext(r.Context()).WithFields(logrus.Fields{
		"item_id":  item.ID,
		"quantity": qty,
	}).Info("item added to cart")

	if middleware.IsHTMXRequest(r) {
		w.Header().Set("HX-Trigger", cartUpdatedEvent)
		render(w, r, http.StatusOK, pages.CartAdded(h.common(r, sess, "")))
		return
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// ViewCart renders the cart page
func (h *CartHandler) ViewCart(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	render(w, r, http.StatusOK, pages.Cart(h.view(r, sess)))
}

// UpdateQuantity overwrites a line's quantity. Invalid input leaves the cart
// untouched and re-renders the stored value.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := h.open(w, r)
	if !ok {
		return
	}

	qty, err := services.ParseQuantity(r.FormValue("quantity"))
	if err != nil {
		logging.FromContext(r.Context()).WithField("item_id", id).Info("rejected cart quantity")
		if middleware.IsHTMXRequest(r) {
			render(w, r, http.StatusBadRequest, pages.CartItems(h.view(r, sess)))
			return
		}
		middleware.WriteError(w, r, http.StatusBadRequest, "Quantity must be a whole number of at least 1")
		return
	}

	cart := sess.Cart()
	if err := services.SetQuantity(cart, id, qty); err != nil {
		middleware.WriteError(w, r, http.StatusBadRequest, "Quantity must be a whole number of at least 1")
		return
	}
	if !h.persist(w, r, sess, cart) {
		return
	}
	h.respond(w, r, sess)
}

// RemoveItem deletes a line from the cart
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := h.open(w, r)
	if !ok {
		return
	}

	// Cart decodes a fresh copy, so RemoveItem may filter it in place
	cart := sess.Cart()
	services.RemoveItem(cart, id)
	if !h.persist(w, r, sess, cart) {
		return
	}

	logging.FromContext(r.Context()).WithField("item_id", id).Info("item removed from cart")
	h.respond(w, r, sess)
}

// Badge renders the nav cart link
func (h *CartHandler) Badge(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	render(w, r, http.StatusOK, pages.CartBadge(h.common(r, sess, "")))
}

func (h *CartHandler) persist(w http.ResponseWriter, r *http.Request, sess *store.Session, cart *models.Cart) bool {
	if err := sess.SetCart(cart); err != nil {
		logging.FromContext(r.Context()).WithError(err).Error("failed to store cart")
		middleware.WriteError(w, r, http.StatusInternalServerError, "Failed to update cart")
		return false
	}
	return h.save(w, r, sess)
}

func (h *CartHandler) respond(w http.ResponseWriter, r *http.Request, sess *store.Session) {
	if middleware.IsHTMXRequest(r) {
		w.Header().Set("HX-Trigger", cartUpdatedEvent)
		render(w, r, http.StatusOK, pages.CartItems(h.view(r, sess)))
		return
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}
