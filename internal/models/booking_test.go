package models

import "testing"

func TestBookingDetails_Valid(t *testing.T) {
	valid := BookingDetails{
		Event: Event{ID: "la", Title: "The Cosmic Arena - Los Angeles"},
		Tickets: []TicketLine{
			{Name: "General Admission", Qty: 2, Price: 50000},
			{Name: "VIP Experience", Qty: 0, Price: 120000},
		},
		ServiceFee: 5000,
		Total:      105000,
	}

	tests := []struct {
		name   string
		mutate func(b *BookingDetails)
		want   bool
	}{
		{"complete snapshot", func(b *BookingDetails) {}, true},
		{"missing event", func(b *BookingDetails) { b.Event = Event{} }, false},
		{"no ticket lines", func(b *BookingDetails) { b.Tickets = nil }, false},
		{"negative quantity", func(b *BookingDetails) { b.Tickets = []TicketLine{{Name: "GA", Qty: -1}} }, false},
		{"negative total", func(b *BookingDetails) { b.Total = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := valid
			b.Tickets = append([]TicketLine(nil), valid.Tickets...)
			tt.mutate(&b)
			if got := b.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}

	var nilBooking *BookingDetails
	if nilBooking.Valid() {
		t.Error("nil booking should not be valid")
	}
}

func TestBookingDetails_TicketCount(t *testing.T) {
	b := BookingDetails{Tickets: []TicketLine{{Qty: 2}, {Qty: 1}}}
	if got := b.TicketCount(); got != 3 {
		t.Errorf("TicketCount() = %d, want 3", got)
	}
}
