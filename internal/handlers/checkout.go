package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"micasa-storefront/internal/config"
	"micasa-storefront/internal/logging"
	"micasa-storefront/internal/middleware"
	"micasa-storefront/internal/payment"
	"micasa-storefront/internal/services"
	"micasa-storefront/internal/store"
	"micasa-storefront/web/templates/pages"

	"github.com/sirupsen/logrus"
)

// FormValidator checks a submitted payment form
type FormValidator interface {
	Validate(f payment.Form) (payment.Form, payment.Errors)
}

// CheckoutHandler handles the order summary and payment form
type CheckoutHandler struct {
	base
	cart      services.CartServiceInterface
	payments  services.PaymentService
	validator FormValidator
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(state *store.State, shop config.ShopConfig, cart services.CartServiceInterface, payments services.PaymentService, validator FormValidator) *CheckoutHandler {
	return &CheckoutHandler{
		base:      base{state: state, shop: shop},
		cart:      cart,
		payments:  payments,
		validator: validator,
	}
}

// summary builds the order summary. A booking that lost to the cart is
// dropped from the session, which the caller must save.
func (h *CheckoutHandler) summary(sess *store.Session) services.OrderSummary {
	booking, _ := sess.Booking()
	summary := h.cart.BuildOrderSummary(sess.Cart(), booking)
	if summary.DiscardBooking {
		sess.ClearBooking()
	}
	return summary
}

// CheckoutPage renders the summary and an empty payment form
func (h *CheckoutHandler) CheckoutPage(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	summary := h.summary(sess)
	if summary.DiscardBooking && !h.save(w, r, sess) {
		return
	}

	render(w, r, http.StatusOK, pages.Checkout(pages.CheckoutPage{
		Common:  h.common(r, sess, "Checkout"),
		Summary: summary,
	}))
}

// ProcessPayment validates every field, charges the order and clears the
// visitor's cart and booking
func (h *CheckoutHandler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	summary := h.summary(sess)

	form, errs := h.validator.Validate(formFromRequest(r))
	if !errs.Valid() {
		if summary.DiscardBooking && !h.save(w, r, sess) {
			return
		}
		logging.FromContext(r.Context()).WithField("invalid_fields", len(errs)).Info("payment form rejected")

		form.CardNumber, form.CVC = "", ""
		render(w, r, http.StatusUnprocessableEntity, pages.Checkout(pages.CheckoutPage{
			Common:  h.common(r, sess, "Checkout"),
			Summary: summary,
			Form:    form,
			Errors:  errs,
		}))
		return
	}

	var result *services.PaymentResult
	if !summary.IsEmpty() {
		var err error
		result, err = h.payments.ProcessPayment(r.Context(), summary.Total, services.BillingInfo{
			Name:      form.FullName,
			Country:   form.Country,
			OrderKind: string(summary.Kind),
		})
		if err != nil {
			logging.FromContext(r.Context()).WithError(err).Error("payment failed")
			middleware.WriteError(w, r, http.StatusBadGateway, "Payment could not be processed. Please try again.")
			return
		}
	}

	sess.ClearOrder()
	if !h.save(w, r, sess) {
		return
	}

	fields := logrus.Fields{"order_kind": summary.Kind, "total": summary.Total}
	if result != nil {
		fields["payment_id"] = result.PaymentID
	}
	logging.FromContext(r.Context()).WithFields(fields).Info("order paid")

	w.Header().Set("Refresh", fmt.Sprintf("%s; url=%s",
		strconv.FormatFloat(h.shop.RedirectDelay.Seconds(), 'f', -1, 64), h.shop.LandingPath))
	render(w, r, http.StatusOK, pages.Success(pages.SuccessPage{
		Common:        h.common(r, sess, "Payment Successful"),
		Result:        result,
		RedirectURL:   h.shop.LandingPath,
		RedirectDelay: h.shop.RedirectDelay,
		ToastDuration: h.shop.ToastDuration,
	}))
}

func formFromRequest(r *http.Request) payment.Form {
	return payment.Form{
		FullName:    r.FormValue("full_name"),
		PhoneNumber: r.FormValue("phone_number"),
		Address:     r.FormValue("address"),
		City:        r.FormValue("city"),
		PostalCode:  r.FormValue("postal_code"),
		Country:     r.FormValue("country"),
		CardNumber:  r.FormValue("card_number"),
		ExpiryDate:  r.FormValue("expiry_date"),
		CVC:         r.FormValue("cvc"),
	}
}
