package scraper

import "fmt"

// TransportError reports that the upstream feed could not be fetched.
// StatusCode carries the upstream HTTP status when the request
// completed, and is zero when it never did (network fault, timeout).
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("scraper: feed request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("scraper: feed request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// FormatError reports that the feed body was fetched but could not be
// interpreted: not valid JSON, or missing the expected product list.
// An empty-but-present product list is not a FormatError.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("scraper: bad feed payload: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("scraper: bad feed payload: %s", e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Err }
