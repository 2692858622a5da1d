package storeapi

import (
	"errors"
	"fmt"
)

// StatusError is a network-level failure: the store replied with a non-2xx
// status or could not be reached meaningfully.
type StatusError struct {
	Service    string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Service, e.StatusCode, e.Message)
}

// RejectionError is a business rejection: the store answered success:false
// ("order not found", "already verified", ...). No local state should be
// mutated when one of these comes back.
type RejectionError struct {
	Message string
}

func (e *RejectionError) Error() string {
	return e.Message
}

// IsRejection reports whether err is a store-side business rejection rather
// than a transport failure.
func IsRejection(err error) bool {
	var re *RejectionError
	return errors.As(err, &re)
}
