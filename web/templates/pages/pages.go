// Package pages renders the storefront's HTML pages and htmx fragments.
package pages

import (
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"time"

	"micasa-storefront/internal/calendar"
	"micasa-storefront/internal/models"
	"micasa-storefront/internal/payment"
	"micasa-storefront/internal/services"

	"github.com/a-h/templ"
)

//go:embed *.html
var files embed.FS

// pageNames are the templates that define "content" for the layout
var pageNames = []string{"home", "booking", "cart", "merch", "checkout", "success"}

var (
	fragments *template.Template
	layouts   = map[string]*template.Template{}
)

func init() {
	fragments = template.Must(template.New("fragments").Funcs(funcs).ParseFS(files, "layout.html", "partials.html"))
	for _, name := range pageNames {
		t := template.Must(template.Must(fragments.Clone()).ParseFS(files, name+".html"))
		layouts[name] = t.Lookup("layout")
	}
}

var funcs = template.FuncMap{
	"money":       models.FormatMoney,
	"inc":         func(i int) int { return i + 1 },
	"ms":          func(d time.Duration) int64 { return d.Milliseconds() },
	"weekdays":    func() []string { return calendar.WeekdayNames },
	"calendarURL": calendarURL,
	"bookingURL":  bookingURL,
	"storedText":  storedText,
	"fieldOf":     fieldOf,
	"maxRequests": func() int { return services.MaxSpecialRequestsLength },
}

// formField is the data for one labelled checkout input
type formField struct {
	Name, Label, Type, Value string
	Error                    string
	Class                    string
}

func fieldOf(p CheckoutPage, name, label, inputType, value string) formField {
	f := formField{Name: name, Label: label, Type: inputType, Value: value, Error: p.Errors[name]}
	if f.Error != "" {
		f.Class = "invalid"
	}
	return f
}

// calendarURL is the navigation partial for the month delta months away
func calendarURL(m calendar.Month, delta int) string {
	y, mo := shift(m, delta)
	return fmt.Sprintf("/booking/calendar?year=%d&month=%d&event=%s", y, int(mo), url.QueryEscape(m.SelectedID))
}

// bookingURL is the full-page equivalent of calendarURL
func bookingURL(m calendar.Month, delta int) string {
	y, mo := shift(m, delta)
	return fmt.Sprintf("/booking?event=%s&year=%d&month=%d", url.QueryEscape(m.SelectedID), y, int(mo))
}

func shift(m calendar.Month, delta int) (int, time.Month) {
	switch {
	case delta < 0:
		return m.Prev()
	case delta > 0:
		return m.Next()
	}
	return m.Year, m.Month
}

func page(name string, data any) templ.Component {
	return templ.FromGoHTML(layouts[name], data)
}

func fragment(name string, data any) templ.Component {
	t := fragments.Lookup(name)
	if t == nil {
		panic(fmt.Sprintf("pages: no fragment %q", name))
	}
	return templ.FromGoHTML(t, data)
}

// Common is carried by every page and fragment
type Common struct {
	Title     string
	CSRFToken string
	Currency  string
	CartCount int
}

// HomePage lists upcoming events
type HomePage struct {
	Common
	Events []*models.Event
}

// BookingPanel is the event details, calendar and ticket form for one event
type BookingPanel struct {
	Common
	Event           *models.Event
	Calendar        calendar.Month
	Quote           services.Quote
	Prices          services.TicketPrices
	SpecialRequests string
	Error           string

	// Pending is shown in the confirmation modal when set
	Pending *models.BookingDetails
}

// PendingModal returns the modal data for the pending booking
func (p BookingPanel) PendingModal() BookingModal {
	return BookingModal{Common: p.Common, Booking: p.Pending}
}

// CalendarView is the data for the calendar fragment
type CalendarView struct {
	Common
	Month calendar.Month
}

// CalendarView returns the panel's calendar fragment data
func (p BookingPanel) CalendarView() CalendarView {
	return CalendarView{Common: p.Common, Month: p.Calendar}
}

// TotalsView is the data for the ticket totals fragment
type TotalsView struct {
	Common
	Quote  services.Quote
	Prices services.TicketPrices
}

// TotalsView returns the panel's totals fragment data
func (p BookingPanel) TotalsView() TotalsView {
	return TotalsView{Common: p.Common, Quote: p.Quote, Prices: p.Prices}
}

// BookingModal asks the visitor to confirm a pending booking
type BookingModal struct {
	Common
	Booking *models.BookingDetails
}

// CartView is the cart page and its items fragment
type CartView struct {
	Common
	Items  []models.CartItem
	Totals services.CartTotals
}

// MerchPage lists the merchandise
type MerchPage struct {
	Common
	Products []*models.Product
}

// CheckoutPage shows the order summary and the payment form
type CheckoutPage struct {
	Common
	Summary services.OrderSummary
	Form    payment.Form
	Errors  payment.Errors
}

// SuccessPage confirms payment before returning to RedirectURL
type SuccessPage struct {
	Common
	Result        *services.PaymentResult
	RedirectURL   string
	RedirectDelay time.Duration
	ToastDuration time.Duration
}

// Home is the landing page
func Home(d HomePage) templ.Component { return page("home", d) }

// Booking is the full booking page
func Booking(d BookingPanel) templ.Component { return page("booking", d) }

// BookingPanelFragment re-renders the whole panel after a day is picked
func BookingPanelFragment(d BookingPanel) templ.Component { return fragment("booking_panel", d) }

func Calendar(d CalendarView) templ.Component { return fragment("calendar", d) }

func TicketTotals(d TotalsView) templ.Component { return fragment("ticket_totals", d) }

func BookingFormError(d BookingPanel) templ.Component { return fragment("booking_error", d) }

func BookingConfirm(d BookingModal) templ.Component { return fragment("booking_modal", d) }

func Cart(d CartView) templ.Component { return page("cart", d) }

// CartAdded acknowledges an add-to-cart click in place of the button label
func CartAdded(d Common) templ.Component { return fragment("cart_added", d) }

// CartItems is the cart listing with totals, swapped after every edit
func CartItems(d CartView) templ.Component { return fragment("cart_items", d) }

// CartBadge is the nav cart link. The count element is omitted at zero.
func CartBadge(d Common) templ.Component { return fragment("cart_badge", d) }

func Merch(d MerchPage) templ.Component { return page("merch", d) }

func Checkout(d CheckoutPage) templ.Component { return page("checkout", d) }

func Success(d SuccessPage) templ.Component { return page("success", d) }
