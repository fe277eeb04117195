package services

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"micasa-storefront/internal/models"
)

// Ticket class names as shown on the booking form and in summaries
const (
	GeneralAdmissionName = "General Admission"
	VIPExperienceName    = "VIP Experience"
)

// MaxSpecialRequestsLength is the most characters a visitor may write in the
// special requests box
const MaxSpecialRequestsLength = 500

// MaxTicketQuantity bounds one ticket class. Larger values read as invalid.
const MaxTicketQuantity = 10000

// TicketPrices are the unit prices and the flat booking fee, in cents
type TicketPrices struct {
	GA         int
	VIP        int
	ServiceFee int
}

// Quote is the live ticket total shown beside the booking form
type Quote struct {
	GAQty    int
	VIPQty   int
	Subtotal int
	Fee      int
	Total    int
}

// Tickets returns the number of tickets selected
func (q Quote) Tickets() int {
	return q.GAQty + q.VIPQty
}

// CanSubmit reports whether the booking form may be submitted
func (q Quote) CanSubmit() bool {
	return q.Tickets() > 0
}

// BookingService prices ticket selections and builds booking snapshots
type BookingService struct {
	prices TicketPrices
}

// NewBookingService creates a new booking service
func NewBookingService(prices TicketPrices) *BookingService {
	return &BookingService{prices: prices}
}

// Prices returns the configured ticket prices
func (s *BookingService) Prices() TicketPrices {
	return s.prices
}

// Quote prices a selection. Negative quantities count as zero.
func (s *BookingService) Quote(gaQty, vipQty int) Quote {
	gaQty, vipQty = max(gaQty, 0), max(vipQty, 0)

	q := Quote{
		GAQty:    gaQty,
		VIPQty:   vipQty,
		Subtotal: gaQty*s.prices.GA + vipQty*s.prices.VIP,
	}
	if q.Tickets() > 0 {
		q.Fee = s.prices.ServiceFee
	}
	q.Total = q.Subtotal + q.Fee
	return q
}

// Snapshot builds the booking record persisted for checkout
func (s *BookingService) Snapshot(event *models.Event, gaQty, vipQty int, specialRequests string) (*models.BookingDetails, error) {
	if event == nil {
		return nil, models.ErrEventNotFound
	}

	q := s.Quote(gaQty, vipQty)
	if !q.CanSubmit() {
		return nil, fmt.Errorf("booking %s: %w", event.ID, models.ErrNoTickets)
	}
	if !SpecialRequestsFit(specialRequests) {
		return nil, fmt.Errorf("booking %s: %w", event.ID, models.ErrRequestTooLong)
	}

	ev := *event
	ev.Images = append([]string(nil), event.Images...)

	return &models.BookingDetails{
		Event: ev,
		Tickets: []models.TicketLine{
			{Name: GeneralAdmissionName, Qty: q.GAQty, Price: s.prices.GA},
			{Name: VIPExperienceName, Qty: q.VIPQty, Price: s.prices.VIP},
		},
		SpecialRequests: SanitizeSpecialRequests(specialRequests),
		ServiceFee:      s.prices.ServiceFee,
		Total:           q.Total,
	}, nil
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// SanitizeSpecialRequests trims free text and escapes it for safe inclusion
// as HTML text content.
func SanitizeSpecialRequests(s string) string {
	return textEscaper.Replace(strings.TrimSpace(s))
}

// SpecialRequestsFit reports whether the trimmed text is within
// MaxSpecialRequestsLength characters
func SpecialRequestsFit(s string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) <= MaxSpecialRequestsLength
}

// ParseTicketQuantity reads a quantity field the way a number input is read:
// leading digits are used, anything blank, non-numeric or negative is zero.
// Values above MaxTicketQuantity, including ones that overflow int, are zero
// too rather than being clamped.
func ParseTicketQuantity(s string) int {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		return 0
	}
	s = strings.TrimPrefix(s, "+")

	end := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if end >= 0 {
		s = s[:end]
	}
	n, err := strconv.Atoi(s)
	if err != nil || n > MaxTicketQuantity {
		return 0
	}
	return n
}
