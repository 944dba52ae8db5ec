package billing

import "errors"

// ErrDuplicate is returned when an idempotency key is already being
// processed by another request.
var ErrDuplicate = errors.New("duplicate transaction")
