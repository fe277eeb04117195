package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"micasa-storefront/internal/catalog"
	"micasa-storefront/internal/config"
	"micasa-storefront/internal/payment"
	"micasa-storefront/internal/services"
	"micasa-storefront/internal/store"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPaymentService struct {
	mock.Mock
}

func (m *mockPaymentService) ProcessPayment(ctx context.Context, amount int, billing services.BillingInfo) (*services.PaymentResult, error) {
	args := m.Called(ctx, amount, billing)
	return args.Get(0).(*services.PaymentResult), args.Error(1)
}

type mockValidator struct {
	mock.Mock
}

func (m *mockValidator) Validate(f payment.Form) (payment.Form, payment.Errors) {
	args := m.Called(f)
	return args.Get(0).(payment.Form), args.Get(1).(payment.Errors)
}

var testShop = config.ShopConfig{
	Currency:       "R",
	ServiceFee:     5000,
	ShippingFee:    10000,
	GAPrice:        50000,
	VIPPrice:       120000,
	DefaultEventID: "la",
	PhoneRegion:    "ZA",
	RedirectDelay:  2500 * time.Millisecond,
	ToastDuration:  4 * time.Second,
	LandingPath:    "/",
}

// testEnv routes requests to the handlers and carries the visitor's cookie
// between them
type testEnv struct {
	t         *testing.T
	router    chi.Router
	payments  *mockPaymentService
	validator *mockValidator
	cookies   map[string]*http.Cookie
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	fs, err := store.NewFilesystemStore(t.TempDir(), "test-secret-key", 3600, false)
	require.NoError(t, err)
	state := store.New(fs, "micasa")
	cat := catalog.Default()
	bookingService := services.NewBookingService(services.TicketPrices{GA: testShop.GAPrice, VIP: testShop.VIPPrice, ServiceFee: testShop.ServiceFee})
	cartService := services.NewCartService(cat, testShop.ShippingFee)

	env := &testEnv{
		t:         t,
		payments:  &mockPaymentService{},
		validator: &mockValidator{},
		cookies:   map[string]*http.Cookie{},
	}

	public := NewPublicHandler(state, testShop, cat, cat)
	booking := NewBookingHandler(state, testShop, cat, bookingService)
	booking.SetClock(func() time.Time { return time.Date(2025, 11, 20, 10, 0, 0, 0, time.UTC) })
	cart := NewCartHandler(state, testShop, cartService)
	checkout := NewCheckoutHandler(state, testShop, cartService, env.payments, env.validator)

	r := chi.NewRouter()
	r.Get("/", public.HomePage)
	r.Get("/merch", public.MerchPage)
	r.Get("/booking", booking.BookingPage)
	r.Post("/booking", booking.Submit)
	r.Get("/booking/calendar", booking.Calendar)
	r.Post("/booking/calendar/select", booking.SelectDay)
	r.Post("/booking/totals", booking.Totals)
	r.Post("/booking/confirm", booking.Confirm)
	r.Post("/booking/cancel", booking.Cancel)
	r.Get("/cart", cart.ViewCart)
	r.Post("/cart/add", cart.AddToCart)
	r.Get("/cart/badge", cart.Badge)
	r.Post("/cart/items/{id}/quantity", cart.UpdateQuantity)
	r.Post("/cart/items/{id}/remove", cart.RemoveItem)
	r.Get("/payment", checkout.CheckoutPage)
	r.Post("/payment", checkout.ProcessPayment)
	env.router = r

	return env
}

func (e *testEnv) do(method, target string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	e.t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	for _, c := range e.cookies {
		req.AddCookie(c)
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)

	for _, c := range rr.Result().Cookies() {
		e.cookies[c.Name] = c
	}
	return rr
}

func (e *testEnv) get(target string) *httptest.ResponseRecorder {
	return e.do(http.MethodGet, target, nil, false)
}

func (e *testEnv) htmxPost(target string, form url.Values) *httptest.ResponseRecorder {
	return e.do(http.MethodPost, target, form, true)
}

func parse(t *testing.T, rr *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rr.Body.String()))
	require.NoError(t, err)
	return doc
}

func badgeCount(t *testing.T, env *testEnv) string {
	t.Helper()
	rr := env.get("/cart/badge")
	require.Equal(t, http.StatusOK, rr.Code)
	return parse(t, rr).Find(".cart-badge").Text()
}
