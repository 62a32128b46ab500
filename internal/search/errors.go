package search

import (
	"errors"
	"fmt"
)

// ErrorKind classifies provider failures
type ErrorKind string

const (
	KindTransport ErrorKind = "transport"
	KindStatus    ErrorKind = "status"
	KindDecode    ErrorKind = "decode"
	KindTimeout   ErrorKind = "timeout"
	KindRateLimit ErrorKind = "ratelimit"
)

// ErrNotConfigured is returned by a provider searched without credentials
var ErrNotConfigured = errors.New("provider not configured")

// ProviderError is a failed provider call. It never reaches the caller of a
// check; the aggregator logs it and treats the provider as empty.
type ProviderError struct {
	Provider   string
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("%s: unexpected status %d", e.Provider, e.StatusCode)
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s error", e.Provider, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
