package services

import (
	"fmt"

	"micasa-storefront/internal/models"
)

// SummaryKind tells which order branch the checkout summary shows
type SummaryKind string

const (
	SummaryEmpty   SummaryKind = "empty"
	SummaryCart    SummaryKind = "cart"
	SummaryBooking SummaryKind = "booking"
)

// Fee labels shown on the summary's second total row
const (
	ShippingLabel   = "Shipping"
	ServiceFeeLabel = "Service Fee"
)

// SummaryLine is one row of the order summary
type SummaryLine struct {
	Label  string
	Amount int
}

// OrderSummary is the checkout page's view of what is being paid for
type OrderSummary struct {
	Kind            SummaryKind
	Lines           []SummaryLine
	SpecialRequests string
	Subtotal        int
	FeeLabel        string
	Fee             int
	Total           int

	// DiscardBooking is set when a stale booking lost to a non-empty cart
	DiscardBooking bool
}

// IsEmpty reports whether there is nothing to pay for
func (o OrderSummary) IsEmpty() bool {
	return o.Kind == SummaryEmpty
}

// BuildOrderSummary picks exactly one branch: a non-empty cart wins and marks
// any booking for discarding, otherwise the booking snapshot is shown with its
// stored fee and total, otherwise the summary is empty.
func (s *CartService) BuildOrderSummary(cart *models.Cart, booking *models.BookingDetails) OrderSummary {
	switch {
	case !cart.IsEmpty():
		totals := s.Totals(cart)
		summary := OrderSummary{
			Kind:           SummaryCart,
			Subtotal:       totals.Subtotal,
			FeeLabel:       ShippingLabel,
			Fee:            totals.Shipping,
			Total:          totals.Total,
			DiscardBooking: booking != nil,
		}
		for _, item := range cart.Items {
			summary.Lines = append(summary.Lines, SummaryLine{
				Label:  fmt.Sprintf("%s (x%d)", item.Name, item.Quantity),
				Amount: item.LineTotal(),
			})
		}
		return summary

	case booking != nil:
		summary := OrderSummary{
			Kind:            SummaryBooking,
			SpecialRequests: booking.SpecialRequests,
			FeeLabel:        ServiceFeeLabel,
			Fee:             booking.ServiceFee,
			Total:           booking.Total,
		}
		for _, t := range booking.Tickets {
			summary.Subtotal += t.LineTotal()
			if t.Qty <= 0 {
				continue
			}
			summary.Lines = append(summary.Lines, SummaryLine{
				Label:  fmt.Sprintf("%s - %s (x%d)", booking.Event.Title, t.Name, t.Qty),
				Amount: t.LineTotal(),
			})
		}
		return summary
	}

	return OrderSummary{Kind: SummaryEmpty, FeeLabel: ShippingLabel}
}
