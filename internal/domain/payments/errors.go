package payments

import "errors"

var (
	ErrSessionNotFound  = errors.New("payment session not found")
	ErrNotPurchasable   = errors.New("content is not purchasable")
	ErrAlreadyEntitled  = errors.New("viewer already has access")
	ErrInvalidIntent    = errors.New("invalid payment intent")
	ErrSessionForbidden = errors.New("payment session belongs to another user")
)
