package models

// TicketLine is one ticket class inside a booking snapshot
type TicketLine struct {
	Name  string `json:"name"`
	Qty   int    `json:"qty"`
	Price int    `json:"price"` // in cents
}

// LineTotal returns price times quantity
func (t TicketLine) LineTotal() int {
	return t.Price * t.Qty
}

// BookingDetails is the snapshot taken when the booking form is submitted.
// It is consumed once at checkout and then deleted.
type BookingDetails struct {
	Event           Event        `json:"event"`
	Tickets         []TicketLine `json:"tickets"`
	SpecialRequests string       `json:"specialRequests"` // already HTML-escaped
	ServiceFee      int          `json:"serviceFee"`
	Total           int          `json:"total"`
}

// TicketCount returns the number of tickets across all classes
func (b *BookingDetails) TicketCount() int {
	n := 0
	for _, t := range b.Tickets {
		n += t.Qty
	}
	return n
}

// Valid reports whether the snapshot has the shape checkout relies on
func (b *BookingDetails) Valid() bool {
	if b == nil || b.Event.Title == "" || len(b.Tickets) == 0 {
		return false
	}
	for _, t := range b.Tickets {
		if t.Qty < 0 || t.Price < 0 {
			return false
		}
	}
	return b.ServiceFee >= 0 && b.Total >= 0
}
