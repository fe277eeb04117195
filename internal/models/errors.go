package models

import "errors"

// Common errors used throughout the storefront
var (
	ErrEventNotFound   = errors.New("event not found")
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrNoTickets       = errors.New("please select at least one ticket")
	ErrRequestTooLong  = errors.New("special requests are too long")
	ErrNoPendingOrder  = errors.New("no pending booking")
	ErrCorruptState    = errors.New("persisted state is corrupt")
	ErrDuplicateDate   = errors.New("events share a calendar day")
)
