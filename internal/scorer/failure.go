package scorer

import (
	"context"
	"errors"
	"fmt"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"google.golang.org/genai"
)

// Reason classifies why a district could not be scored.
type Reason string

const (
	ReasonTimeout       Reason = "timeout"
	ReasonTransport     Reason = "transport"
	ReasonRateLimited   Reason = "rate_limited"
	ReasonMalformed     Reason = "malformed"
	ReasonMissingFields Reason = "missing_fields"
	ReasonOutOfRange    Reason = "out_of_range"
)

// Failure is returned by ScoreDistrict when no result could be produced.
// The scorer never retries; Transient tells the caller whether a retry
// could plausibly succeed.
type Failure struct {
	Reason   Reason
	District string
	Err      error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("scorer: %s: %s", f.District, f.Reason)
	}
	return fmt.Sprintf("scorer: %s: %s: %v", f.District, f.Reason, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Transient reports whether the failure came from the service rather than
// from the content of its reply.
func (f *Failure) Transient() bool {
	switch f.Reason {
	case ReasonTimeout, ReasonTransport, ReasonRateLimited:
		return true
	default:
		return false
	}
}

// AsFailure extracts a *Failure from err's chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// classifyCallError maps a provider call error to a failure reason.
func classifyCallError(err error) Reason {
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	if statusOf(err) == 429 {
		return ReasonRateLimited
	}
	return ReasonTransport
}

// statusOf returns the HTTP status carried by a provider SDK error, or 0.
func statusOf(err error) int {
	var anthropicErr *sdk.Error
	if errors.As(err, &anthropicErr) {
		return anthropicErr.StatusCode
	}
	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		return genaiErr.Code
	}
	var genaiPtr *genai.APIError
	if errors.As(err, &genaiPtr) && genaiPtr != nil {
		return genaiPtr.Code
	}
	return 0
}
