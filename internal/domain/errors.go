package domain

import "errors"

// ErrValidation marks sessions rejected before persistence. Storage and
// computation failures are wrapped with %w at the call site instead; the
// timer treats aggregation errors as "feature not updated this cycle"
// rather than fatal.
var ErrValidation = errors.New("validation failed")
