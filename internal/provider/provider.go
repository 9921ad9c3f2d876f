package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/Olamide1/leadengine/internal/lead"
)

// Provider is the common contract for every search backend. Fetch returns
// normalized results for the given intent, capped at maxResults, or an error
// whose Kind tells the aggregator how to proceed.
type Provider interface {
	Fetch(ctx context.Context, intent lead.Intent, maxResults int) ([]lead.RawResult, error)
	Name() string
}

// Kind classifies adapter failures so the aggregator and the retry
// combinator can react without inspecting provider-specific errors.
type Kind int

const (
	// KindTransient covers network blips and timeouts; retry with backoff.
	KindTransient Kind = iota
	// KindRateLimited means the backend told us to slow down; skip the
	// provider for this run.
	KindRateLimited
	// KindQuotaExceeded means the local call budget for the current window
	// is spent; skip until the window resets.
	KindQuotaExceeded
	// KindFatal is misconfiguration (bad key, billing disabled); never
	// retry, surface as provider unavailable.
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindRateLimited:
		return "rate_limited"
	case KindQuotaExceeded:
		return "quota_exceeded"
	case KindFatal:
		return "fatal"
	}
	return "unknown"
}

// Error wraps a provider failure with its Kind and the provider name.
type Error struct {
	Provider string
	Kind     Kind
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Errf builds a classified provider error.
func Errf(name string, kind Kind, format string, args ...any) *Error {
	return &Error{Provider: name, Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Wrap classifies an existing error. A nil err returns nil.
func Wrap(name string, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Provider: name, Kind: kind, Err: err}
}

// KindOf extracts the Kind from err. Unclassified errors count as
// transient so that plain network failures keep their retry semantics.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindTransient
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
