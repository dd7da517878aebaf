package registration

import "errors"

// Workflow error kinds. Handlers match these with errors.Is and decide
// how to surface them; anything else is a store failure.
var (
	ErrNotFound         = errors.New("registration not found")
	ErrDuplicateContact = errors.New("mobile number already registered")
	ErrDuplicateVoucher = errors.New("voucher number already assigned")
	ErrMissingVoucher   = errors.New("voucher number required before approval")
	ErrValidation       = errors.New("missing required field")
)
