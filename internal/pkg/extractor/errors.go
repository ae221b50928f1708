package extractor

import "errors"

var (
	// ErrStructuredDataNotFound means the drupal settings script is not on the page,
	// usually because the layout changed or the fetch returned something else.
	ErrStructuredDataNotFound = errors.New("structured data block not found")

	ErrMalformedStructuredData = errors.New("structured data block is not valid json")

	// ErrAvailabilityDataNotFound covers a missing ucb.enrollment.available path as
	// well as seat data that is present but ill-formed.
	ErrAvailabilityDataNotFound = errors.New("availability data not found")

	ErrInvalidThreshold = errors.New("threshold must not be negative")
)
