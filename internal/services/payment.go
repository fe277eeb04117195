package services

import (
	"context"
	"fmt"
	"time"

	"micasa-storefront/internal/logging"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// BillingInfo identifies who is paying and for what
type BillingInfo struct {
	Name      string
	Country   string
	OrderKind string
}

// PaymentResult represents the outcome of a charge
type PaymentResult struct {
	PaymentID     string
	Status        string
	Amount        int
	TransactionID string
	ProcessedAt   time.Time
}

// MockPaymentService simulates a gateway: every validated charge succeeds
type MockPaymentService struct {
	now   func() time.Time
	newID func() string
}

// NewMockPaymentService creates a new simulated payment service
func NewMockPaymentService() *MockPaymentService {
	return &MockPaymentService{
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// ProcessPayment simulates a successful charge of amount cents
func (s *MockPaymentService) ProcessPayment(ctx context.Context, amount int, billing BillingInfo) (*PaymentResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("process payment: amount must be positive, got %d", amount)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("process payment: %w", err)
	}

	id := s.newID()
	result := &PaymentResult{
		PaymentID:     "mock_pay_" + id,
		Status:        "success",
		Amount:        amount,
		TransactionID: "txn_" + id,
		ProcessedAt:   s.now(),
	}

	logging.FromContext(ctx).WithFields(logrus.Fields{
		"payment_id": result.PaymentID,
		"amount":     amount,
		"order_kind": billing.OrderKind,
		"country":    billing.Country,
	}).Info("mock payment processed")

	return result, nil
}
