package pages

import (
	"bytes"
	"context"
	"testing"
	"time"

	"micasa-storefront/internal/calendar"
	"micasa-storefront/internal/catalog"
	"micasa-storefront/internal/models"
	"micasa-storefront/internal/payment"
	"micasa-storefront/internal/services"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func common() Common {
	return Common{CSRFToken: "tok", Currency: "R"}
}

func TestBookingPage(t *testing.T) {
	cat := catalog.Default()
	event, err := cat.Event("la")
	require.NoError(t, err)

	svc := services.NewBookingService(services.TicketPrices{GA: 50000, VIP: 120000, ServiceFee: 5000})
	doc := render(t, Booking(BookingPanel{
		Common:   common(),
		Event:    event,
		Calendar: calendar.ForEvent(event, cat, time.Now()),
		Quote:    svc.Quote(0, 0),
		Prices:   svc.Prices(),
	}))

	assert.Equal(t, event.Title, doc.Find("#event-title").Text())
	assert.Equal(t, "December 2025", doc.Find("#month-year").Text())
	assert.Equal(t, 7, doc.Find(".day-name").Length())
	assert.Equal(t, 1, doc.Find(".day.past").Length())
	assert.Equal(t, 31, doc.Find("[data-day]").Length())

	selected := doc.Find(".day.available.selected")
	require.Equal(t, 1, selected.Length())
	assert.Equal(t, "15", selected.Text())

	assert.Equal(t, "R 0.00", doc.Find("#total").Text())
	_, disabled := doc.Find("#book-now").Attr("disabled")
	assert.True(t, disabled)

	prev, _ := doc.Find(".prev-month").Attr("hx-get")
	assert.Equal(t, "/booking/calendar?year=2025&month=11&event=la", prev)

	token, _ := doc.Find(`#booking-form input[name="csrf_token"]`).Attr("value")
	assert.Equal(t, "tok", token)
}

func TestTicketTotals(t *testing.T) {
	svc := services.NewBookingService(services.TicketPrices{GA: 50000, VIP: 120000, ServiceFee: 5000})
	doc := render(t, TicketTotals(TotalsView{Common: common(), Quote: svc.Quote(2, 1), Prices: svc.Prices()}))

	assert.Equal(t, "R 2200.00", doc.Find("#subtotal").Text())
	assert.Equal(t, "R 50.00", doc.Find("#service-fee").Text())
	assert.Equal(t, "R 2250.00", doc.Find("#total").Text())
	_, disabled := doc.Find("#book-now").Attr("disabled")
	assert.False(t, disabled)
}

func TestCartBadge(t *testing.T) {
	doc := render(t, CartBadge(Common{}))
	assert.Equal(t, 1, doc.Find("#cart-link").Length())
	assert.Equal(t, 0, doc.Find(".cart-badge").Length())

	doc = render(t, CartBadge(Common{CartCount: 3}))
	assert.Equal(t, "3", doc.Find(".cart-badge").Text())
}

func TestCartItems(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		doc := render(t, CartItems(CartView{Common: common()}))
		assert.Contains(t, doc.Find(".empty-cart").Text(), "Your cart is empty.")
		href, _ := doc.Find(".empty-cart a").Attr("href")
		assert.Equal(t, "/merch", href)
	})

	t.Run("items", func(t *testing.T) {
		doc := render(t, CartItems(CartView{
			Common: common(),
			Items: []models.CartItem{
				{ID: "tour-tee-M", Name: "Tour Tee (Size: M)", Price: 35000, Quantity: 2},
			},
			Totals: services.CartTotals{Subtotal: 70000, Shipping: 10000, Total: 80000},
		}))
		item := doc.Find(`.cart-item[data-product-id="tour-tee-M"]`)
		require.Equal(t, 1, item.Length())
		qty, _ := item.Find(`input[name="quantity"]`).Attr("value")
		assert.Equal(t, "2", qty)
		assert.Equal(t, "R 800.00", doc.Find("#cart-total").Text())
	})
}

func TestCheckoutPage(t *testing.T) {
	doc := render(t, Checkout(CheckoutPage{
		Common: common(),
		Summary: services.OrderSummary{
			Kind:            services.SummaryBooking,
			Lines:           []services.SummaryLine{{Label: "Mi Casa LA - General Admission (x2)", Amount: 100000}},
			SpecialRequests: "Fish &amp; chips &lt;please&gt;",
			Subtotal:        100000,
			FeeLabel:        services.ServiceFeeLabel,
			Fee:             5000,
			Total:           105000,
		},
		Form:   payment.Form{FullName: "Thandi", CardNumber: "4111111111111111", CVC: "123", ExpiryDate: "13 / 30"},
		Errors: payment.Errors{"expiry_date": "Invalid month."},
	}))

	assert.Equal(t, "Service Fee", doc.Find("#summary-fee-label").Text())
	assert.Equal(t, "R 1050.00", doc.Find("#summary-total").Text())
	assert.Equal(t, "Fish & chips <please>", doc.Find(".special-requests span").Text())

	assert.True(t, doc.Find("#expiry_date").Parent().HasClass("invalid"))
	assert.Equal(t, "Invalid month.", doc.Find("#expiry_date-error").Text())
	assert.False(t, doc.Find("#full_name").Parent().HasClass("invalid"))

	name, _ := doc.Find("#full_name").Attr("value")
	assert.Equal(t, "Thandi", name)
	card, _ := doc.Find("#card_number").Attr("value")
	assert.Empty(t, card)
	cvc, _ := doc.Find("#cvc").Attr("value")
	assert.Empty(t, cvc)
}

func TestCheckoutPage_Empty(t *testing.T) {
	doc := render(t, Checkout(CheckoutPage{Common: common(), Summary: services.OrderSummary{Kind: services.SummaryEmpty, FeeLabel: services.ShippingLabel}}))
	assert.Contains(t, doc.Find("#summary-items-list").Text(), "Your cart is empty.")
	assert.Equal(t, "Shipping", doc.Find("#summary-fee-label").Text())
}

func TestSuccessPage(t *testing.T) {
	doc := render(t, Success(SuccessPage{
		Common:        common(),
		Result:        &services.PaymentResult{PaymentID: "pay-1"},
		RedirectURL:   "/",
		ToastDuration: 4 * time.Second,
	}))
	assert.Equal(t, "Payment Successful! Thank you for your order.", doc.Find("#toast-message").Text())
	duration, _ := doc.Find("#toast").Attr("data-duration")
	assert.Equal(t, "4000", duration)
	assert.Equal(t, "pay-1", doc.Find(".payment-ref code").Text())
}
