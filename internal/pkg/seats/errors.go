package seats

import "errors"

var (
	// ErrMalformedRecord is returned when enrollmentStatus is missing, a required
	// count is absent, or a count is negative.
	ErrMalformedRecord = errors.New("malformed availability record")
)
