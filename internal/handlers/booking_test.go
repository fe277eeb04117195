package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingPage(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantTitle  string
		wantMonth  string
		wantSelDay string
	}{
		{"explicit event", "/booking?event=ny", "Galaxy Theater - New York", "December 2025", "22"},
		{"next year event", "/booking?event=ct", "Stellar Dome - Cape Town", "January 2026", "12"},
		{"unknown event falls back", "/booking?event=nope", "The Cosmic Arena - Los Angeles", "December 2025", "15"},
		{"no event", "/booking", "The Cosmic Arena - Los Angeles", "December 2025", "15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rr := env.get(tt.target)
			require.Equal(t, http.StatusOK, rr.Code)

			doc := parse(t, rr)
			assert.Equal(t, tt.wantTitle, doc.Find("#event-title").Text())
			assert.Equal(t, tt.wantMonth, doc.Find("#month-year").Text())
			assert.Equal(t, tt.wantSelDay, doc.Find(".day.selected").Text())
			assert.Equal(t, "R 0.00", doc.Find("#total").Text())
		})
	}
}

func TestBookingPage_MonthOverride(t *testing.T) {
	env := newTestEnv(t)
	rr := env.get("/booking?event=la&year=2026&month=1")
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parse(t, rr)
	assert.Equal(t, "January 2026", doc.Find("#month-year").Text())
	assert.Equal(t, 0, doc.Find(".day.selected").Length())
	assert.Equal(t, "12", doc.Find(".day.available").Text())
}

func TestCalendarNavigation(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(http.MethodGet, "/booking/calendar?year=2026&month=1&event=la", nil, true)
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parse(t, rr)
	assert.Equal(t, "January 2026", doc.Find("#month-year").Text())
	assert.Equal(t, 4, doc.Find(".day.past").Length())
	assert.Equal(t, 31, doc.Find("[data-day]").Length())

	next, _ := doc.Find(".next-month").Attr("hx-get")
	assert.Equal(t, "/booking/calendar?year=2026&month=2&event=la", next)

	rr = env.do(http.MethodGet, "/booking/calendar?year=2025&month=13&event=la", nil, true)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCalendarNavigation_UnknownEventHighlightsNothing(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(http.MethodGet, "/booking/calendar?year=2025&month=12&event=nope", nil, true)
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parse(t, rr)
	assert.Equal(t, 2, doc.Find(".day.available").Length())
	assert.Equal(t, 0, doc.Find(".day.selected").Length())

	prev, _ := doc.Find(".prev-month").Attr("hx-get")
	assert.Equal(t, "/booking/calendar?year=2025&month=11&event=nope", prev)
}

func TestSelectDay(t *testing.T) {
	t.Run("day with event re-renders the panel", func(t *testing.T) {
		env := newTestEnv(t)
		rr := env.htmxPost("/booking/calendar/select", url.Values{"year": {"2026"}, "month": {"1"}, "day": {"12"}})
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "/booking?event=ct", rr.Header().Get("HX-Replace-Url"))

		doc := parse(t, rr)
		assert.Equal(t, 1, doc.Find("#booking-panel").Length())
		assert.Equal(t, "Stellar Dome - Cape Town", doc.Find("#event-title").Text())
		assert.Equal(t, "12", doc.Find(".day.selected").Text())
	})

	t.Run("ticket selection survives switching events", func(t *testing.T) {
		env := newTestEnv(t)
		rr := env.htmxPost("/booking/calendar/select", url.Values{
			"year":             {"2025"},
			"month":            {"12"},
			"day":              {"22"},
			"ga_tickets":       {"2"},
			"vip_tickets":      {"1"},
			"special_requests": {"aisle seats"},
		})
		require.Equal(t, http.StatusOK, rr.Code)

		doc := parse(t, rr)
		assert.Equal(t, "Galaxy Theater - New York", doc.Find("#event-title").Text())
		ga, _ := doc.Find("#ga-tickets").Attr("value")
		vip, _ := doc.Find("#vip-tickets").Attr("value")
		assert.Equal(t, "2", ga)
		assert.Equal(t, "1", vip)
		assert.Equal(t, "R 2250.00", doc.Find("#total").Text())
		assert.Equal(t, "aisle seats", doc.Find("#special-requests").Text())
		_, disabled := doc.Find("#book-now").Attr("disabled")
		assert.False(t, disabled)

		include, _ := doc.Find(".day-form").First().Attr("hx-include")
		assert.Equal(t, "#booking-form", include)
	})

	t.Run("day without event is a no-op", func(t *testing.T) {
		env := newTestEnv(t)
		rr := env.htmxPost("/booking/calendar/select", url.Values{"year": {"2025"}, "month": {"12"}, "day": {"16"}})
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())
	})

	t.Run("plain form post redirects", func(t *testing.T) {
		env := newTestEnv(t)
		rr := env.do(http.MethodPost, "/booking/calendar/select", url.Values{"year": {"2025"}, "month": {"12"}, "day": {"22"}}, false)
		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/booking?event=ny", rr.Header().Get("Location"))
	})

	t.Run("malformed day", func(t *testing.T) {
		env := newTestEnv(t)
		rr := env.htmxPost("/booking/calendar/select", url.Values{"year": {"2025"}, "month": {"12"}, "day": {"x"}})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestTicketTotals(t *testing.T) {
	tests := []struct {
		name        string
		ga, vip     string
		wantTotal   string
		wantFee     string
		wantEnabled bool
	}{
		{"nothing selected", "0", "0", "R 0.00", "R 0.00", false},
		{"mixed", "2", "1", "R 2250.00", "R 50.00", true},
		{"vip only", "", "1", "R 1250.00", "R 50.00", true},
		{"garbage counts as zero", "abc", "-3", "R 0.00", "R 0.00", false},
		{"leading digits", "3x", "0", "R 1550.00", "R 50.00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rr := env.htmxPost("/booking/totals", url.Values{"ga_tickets": {tt.ga}, "vip_tickets": {tt.vip}})
			require.Equal(t, http.StatusOK, rr.Code)

			doc := parse(t, rr)
			assert.Equal(t, tt.wantTotal, doc.Find("#total").Text())
			assert.Equal(t, tt.wantFee, doc.Find("#service-fee").Text())
			_, disabled := doc.Find("#book-now").Attr("disabled")
			assert.Equal(t, tt.wantEnabled, !disabled)
		})
	}
}

func TestSubmitBooking_NoTickets(t *testing.T) {
	env := newTestEnv(t)

	rr := env.htmxPost("/booking", url.Values{"event": {"la"}, "ga_tickets": {"0"}, "vip_tickets": {""}})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "Please select at least one ticket.", parse(t, rr).Find("#booking-error").Text())

	rr = env.htmxPost("/booking/confirm", nil)
	assert.Equal(t, http.StatusConflict, rr.Code, "nothing was stored")
}

func TestSubmitBooking_SpecialRequestsTooLong(t *testing.T) {
	env := newTestEnv(t)

	rr := env.htmxPost("/booking", url.Values{
		"event":            {"la"},
		"ga_tickets":       {"1"},
		"special_requests": {strings.Repeat("wheelchair access please ", 120)},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "Special requests must be 500 characters or fewer.", parse(t, rr).Find("#booking-error").Text())

	rr = env.htmxPost("/booking/confirm", nil)
	assert.Equal(t, http.StatusConflict, rr.Code, "nothing was stored")
}

func TestBookingAndFullCartStoredTogether(t *testing.T) {
	env := newTestEnv(t)
	special := strings.Repeat("&", 500)

	rr := env.htmxPost("/booking", url.Values{"event": {"la"}, "ga_tickets": {"2"}, "special_requests": {special}})
	require.Equal(t, http.StatusOK, rr.Code)
	rr = env.htmxPost("/booking/confirm", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = env.htmxPost("/booking", url.Values{"event": {"ny"}, "vip_tickets": {"1"}, "special_requests": {special}})
	require.Equal(t, http.StatusOK, rr.Code)

	for _, product := range []string{"tour-tee", "hoodie"} {
		for _, size := range []string{"S", "M", "L", "XL"} {
			rr = env.htmxPost("/cart/add", url.Values{"product_id": {product}, "size": {size}})
			require.Equal(t, http.StatusOK, rr.Code, "%s-%s", product, size)
		}
	}
	for _, product := range []string{"cap", "vinyl", "poster"} {
		rr = env.htmxPost("/cart/add", url.Values{"product_id": {product}})
		require.Equal(t, http.StatusOK, rr.Code, product)
	}

	assert.Equal(t, "11", badgeCount(t, env))
	page := parse(t, env.get("/booking?event=ny"))
	assert.Equal(t, 1, page.Find("#confirmation-modal").Length(), "pending booking kept")
}

func TestSubmitBooking_NoTicketsPlainForm(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(http.MethodPost, "/booking", url.Values{"event": {"ny"}, "special_requests": {"aisle"}}, false)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	doc := parse(t, rr)
	assert.Equal(t, "Galaxy Theater - New York", doc.Find("#event-title").Text())
	assert.Equal(t, "Please select at least one ticket.", doc.Find("#booking-error").Text())
	assert.Equal(t, "aisle", doc.Find("#special-requests").Text())
}

func TestBookingFlow(t *testing.T) {
	env := newTestEnv(t)

	rr := env.htmxPost("/booking", url.Values{
		"event":            {"ny"},
		"ga_tickets":       {"2"},
		"vip_tickets":      {"0"},
		"special_requests": {"  Wheelchair access & <b>front</b> row  "},
	})
	require.Equal(t, http.StatusOK, rr.Code)

	modal := parse(t, rr)
	assert.Equal(t, "Galaxy Theater - New York", modal.Find("#confirm-event-title").Text())
	assert.Equal(t, "Dec 22, 2025", modal.Find("#confirm-event-date").Text())
	assert.Equal(t, []string{"2 x General Admission"}, modal.Find(".confirm-tickets li").Map(func(_ int, s *goquery.Selection) string { return s.Text() }))
	assert.Equal(t, "R 1050.00", modal.Find("#confirm-total").Text())

	// a reload of the same event shows the modal again
	page := parse(t, env.get("/booking?event=ny"))
	assert.Equal(t, 1, page.Find("#confirmation-modal").Length())

	rr = env.htmxPost("/booking/confirm", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "/payment", rr.Header().Get("HX-Redirect"))

	checkout := parse(t, env.get("/payment"))
	assert.Equal(t, "Galaxy Theater - New York - General Admission (x2)", checkout.Find(".summary-item span").First().Text())
	assert.Equal(t, "Wheelchair access & <b>front</b> row", checkout.Find(".special-requests span").Text())
	assert.Equal(t, "Service Fee", checkout.Find("#summary-fee-label").Text())
	assert.Equal(t, "R 1000.00", checkout.Find("#summary-subtotal").Text())
	assert.Equal(t, "R 50.00", checkout.Find("#summary-shipping").Text())
	assert.Equal(t, "R 1050.00", checkout.Find("#summary-total").Text())
}

func TestCancelBooking(t *testing.T) {
	env := newTestEnv(t)

	rr := env.htmxPost("/booking", url.Values{"event": {"la"}, "vip_tickets": {"1"}})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(http.MethodPost, "/booking/cancel", url.Values{}, false)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/booking?event=la", rr.Header().Get("Location"))

	rr = env.htmxPost("/booking/confirm", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	checkout := parse(t, env.get("/payment"))
	assert.Contains(t, checkout.Find("#summary-items-list").Text(), "Your cart is empty.")
}
