package services

import (
	"context"

	"micasa-storefront/internal/models"
)

// ProductSource resolves merchandise by id
type ProductSource interface {
	Product(id string) (*models.Product, error)
}

// BookingServiceInterface defines the ticket-selection operations
type BookingServiceInterface interface {
	Quote(gaQty, vipQty int) Quote
	Snapshot(event *models.Event, gaQty, vipQty int, specialRequests string) (*models.BookingDetails, error)
	Prices() TicketPrices
}

// CartServiceInterface defines merchandise cart operations
type CartServiceInterface interface {
	NewLine(productID, size string) (models.CartItem, error)
	Totals(cart *models.Cart) CartTotals
	BuildOrderSummary(cart *models.Cart, booking *models.BookingDetails) OrderSummary
}

// PaymentService charges a validated order
type PaymentService interface {
	ProcessPayment(ctx context.Context, amount int, billing BillingInfo) (*PaymentResult, error)
}
