package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"micasa-storefront/internal/calendar"
	"micasa-storefront/internal/config"
	"micasa-storefront/internal/logging"
	"micasa-storefront/internal/middleware"
	"micasa-storefront/internal/models"
	"micasa-storefront/internal/services"
	"micasa-storefront/internal/store"
	"micasa-storefront/web/templates/pages"

	"github.com/sirupsen/logrus"
)

const noTicketsMessage = "Please select at least one ticket."

var requestTooLongMessage = fmt.Sprintf("Special requests must be %d characters or fewer.", services.MaxSpecialRequestsLength)

// formMessage is the inline message for a booking the visitor can correct
func formMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, models.ErrNoTickets):
		return noTicketsMessage, true
	case errors.Is(err, models.ErrRequestTooLong):
		return requestTooLongMessage, true
	}
	return "", false
}

// EventCatalog is the read side of the event table
type EventCatalog interface {
	Event(id string) (*models.Event, error)
	EventOnDay(year int, month time.Month, day int) (*models.Event, bool)
	Events() []*models.Event
}

// BookingHandler handles the event booking page and its fragments
type BookingHandler struct {
	base
	events  EventCatalog
	booking services.BookingServiceInterface
	now     func() time.Time
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(state *store.State, shop config.ShopConfig, events EventCatalog, booking services.BookingServiceInterface) *BookingHandler {
	return &BookingHandler{
		base:    base{state: state, shop: shop},
		events:  events,
		booking: booking,
		now:     time.Now,
	}
}

// SetClock replaces the clock used to place events without a parseable date
func (h *BookingHandler) SetClock(now func() time.Time) {
	h.now = now
}

func (h *BookingHandler) panel(r *http.Request, sess *store.Session, event *models.Event, month calendar.Month) pages.BookingPanel {
	return pages.BookingPanel{
		Common:   h.common(r, sess, event.Title),
		Event:    event,
		Calendar: month,
		Quote:    h.booking.Quote(0, 0),
		Prices:   h.booking.Prices(),
	}
}

func (h *BookingHandler) event(w http.ResponseWriter, r *http.Request, id string) (*models.Event, bool) {
	event, err := h.events.Event(id)
	if err != nil {
		logging.FromContext(r.Context()).WithError(err).WithField("event_id", id).Error("no event to show")
		middleware.WriteError(w, r, http.StatusInternalServerError, "No events are available right now.")
		return nil, false
	}
	return event, true
}

// BookingPage renders the booking page. Unknown or missing event ids show the
// default event.
func (h *BookingHandler) BookingPage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	event, ok := h.event(w, r, query.Get("event"))
	if !ok {
		return
	}
	sess, ok := h.open(w, r)
	if !ok {
		return
	}

	month := calendar.ForEvent(event, h.events, h.now())
	if year, m, ok := parseYearMonth(query); ok {
		month = calendar.Build(year, m, event.ID, h.events)
	}

	p := h.panel(r, sess, event, month)
	if pending, ok := sess.PendingBooking(); ok && pending.Event.ID == event.ID {
		p.Pending = pending
	}
	render(w, r, http.StatusOK, pages.Booking(p))
}

// Calendar renders the calendar for another month. The event id is carried
// as given, so an unknown id highlights no day.
func (h *BookingHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	year, month, ok := parseYearMonth(query)
	if !ok {
		middleware.WriteError(w, r, http.StatusBadRequest, "Invalid month")
		return
	}
	selected := query.Get("event")
	sess, ok := h.open(w, r)
	if !ok {
		return
	}

	render(w, r, http.StatusOK, pages.Calendar(pages.CalendarView{
		Common: h.common(r, sess, ""),
		Month:  calendar.Build(year, month, selected, h.events),
	}))
}

// SelectDay switches the page to the event on the picked day, keeping the
// visitor's ticket quantities and special requests. Days without an event
// are ignored.
func (h *BookingHandler) SelectDay(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.WriteError(w, r, http.StatusBadRequest, "Invalid form data")
		return
	}
	year, month, ok := parseYearMonth(r.PostForm)
	day, err := strconv.Atoi(r.PostForm.Get("day"))
	if !ok || err != nil {
		middleware.WriteError(w, r, http.StatusBadRequest, "Invalid date")
		return
	}

	event, found := h.events.EventOnDay(year, month, day)
	if !found {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	target := "/booking?event=" + url.QueryEscape(event.ID)
	if !middleware.IsHTMXRequest(r) {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	p := h.panel(r, sess, event, calendar.Build(year, month, event.ID, h.events))
	p.Quote = h.booking.Quote(
		services.ParseTicketQuantity(r.PostForm.Get("ga_tickets")),
		services.ParseTicketQuantity(r.PostForm.Get("vip_tickets")),
	)
	p.SpecialRequests = r.PostForm.Get("special_requests")

	w.Header().Set("HX-Replace-Url", target)
	render(w, r, http.StatusOK, pages.BookingPanelFragment(p))
}

// Totals recomputes the ticket totals as quantities change
func (h *BookingHandler) Totals(w http.ResponseWriter, r *http.Request) {
	quote := h.booking.Quote(
		services.ParseTicketQuantity(r.FormValue("ga_tickets")),
		services.ParseTicketQuantity(r.FormValue("vip_tickets")),
	)
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	render(w, r, http.StatusOK, pages.TicketTotals(pages.TotalsView{
		Common: h.common(r, sess, ""),
		Quote:  quote,
		Prices: h.booking.Prices(),
	}))
}

// Submit snapshots the selection and asks the visitor to confirm it
func (h *BookingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	event, ok := h.event(w, r, r.FormValue("event"))
	if !ok {
		return
	}
	ga := services.ParseTicketQuantity(r.FormValue("ga_tickets"))
	vip := services.ParseTicketQuantity(r.FormValue("vip_tickets"))
	special := r.FormValue("special_requests")

	sess, ok := h.open(w, r)
	if !ok {
		return
	}

	snapshot, err := h.booking.Snapshot(event, ga, vip, special)
	if err != nil {
		message, ok := formMessage(err)
		if !ok {
			logging.FromContext(r.Context()).WithError(err).Error("failed to build booking")
			middleware.WriteError(w, r, http.StatusInternalServerError, "Failed to create booking")
			return
		}
		p := h.panel(r, sess, event, calendar.ForEvent(event, h.events, h.now()))
		p.Quote = h.booking.Quote(ga, vip)
		p.SpecialRequests = special
		p.Error = message
		if middleware.IsHTMXRequest(r) {
			render(w, r, http.StatusUnprocessableEntity, pages.BookingFormError(p))
		} else {
			render(w, r, http.StatusUnprocessableEntity, pages.Booking(p))
		}
		return
	}

	if err := sess.SetPendingBooking(snapshot); err != nil {
		logging.FromContext(r.Context()).WithError(err).Error("failed to store pending booking")
		middleware.WriteError(w, r, http.StatusInternalServerError, "Failed to create booking")
		return
	}
	if !h.save(w, r, sess) {
		return
	}

	logging.FromContext(r.Context()).WithFields(logrus.Fields{
		"event_id": event.ID,
		"tickets":  snapshot.TicketCount(),
		"total":    snapshot.Total,
	}).Info("booking awaiting confirmation")

	if middleware.IsHTMXRequest(r) {
		render(w, r, http.StatusOK, pages.BookingConfirm(pages.BookingModal{
			Common:  h.common(r, sess, ""),
			Booking: snapshot,
		}))
		return
	}

	p := h.panel(r, sess, event, calendar.ForEvent(event, h.events, h.now()))
	p.Quote = h.booking.Quote(ga, vip)
	p.SpecialRequests = special
	p.Pending = snapshot
	render(w, r, http.StatusOK, pages.Booking(p))
}

// Confirm persists the pending booking for checkout
func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	pending, ok := sess.PendingBooking()
	if !ok {
		middleware.WriteError(w, r, http.StatusConflict, "There is no booking to confirm. Please select your tickets again.")
		return
	}

	if err := sess.SetBooking(pending); err != nil {
		logging.FromContext(r.Context()).WithError(err).Error("failed to store booking")
		middleware.WriteError(w, r, http.StatusInternalServerError, "Failed to confirm booking")
		return
	}
	sess.ClearPendingBooking()
	if !h.save(w, r, sess) {
		return
	}

	logging.FromContext(r.Context()).WithField("event_id", pending.Event.ID).Info("booking confirmed")
	middleware.Redirect(w, r, "/payment")
}

// Cancel drops the pending booking and closes the modal
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	target := "/booking"
	if pending, ok := sess.PendingBooking(); ok {
		target += "?event=" + url.QueryEscape(pending.Event.ID)
	}
	sess.ClearPendingBooking()
	if !h.save(w, r, sess) {
		return
	}

	if middleware.IsHTMXRequest(r) {
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
