package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// SystemInstruction is sent alongside every structured prompt.
const SystemInstruction = "You are a Next.js and React expert. Generate code based on the user's requirements. Return code in a structured format that can be parsed."

const DefaultTimeout = 60 * time.Second

// Client sends a prompt to a generative text model and returns its raw reply.
// Implementations return a *Failure on error.
type Client interface {
	Complete(ctx context.Context, prompt, system string) (string, error)
}

type FailureKind string

const (
	FailureTimeout     FailureKind = "timeout"
	FailureRateLimited FailureKind = "rate_limited"
	FailureTransport   FailureKind = "transport"
	FailureOther       FailureKind = "other"
)

type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("model %s: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Options tune a single completion.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

// classify maps a provider error onto the failure taxonomy. statusCode is the
// HTTP status reported by the provider, or 0 when unknown.
func classify(err error, statusCode int) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}

	kind := FailureOther
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = FailureTimeout
	case statusCode == 429:
		kind = FailureRateLimited
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = FailureTimeout
	case errors.As(err, &netErr):
		kind = FailureTransport
	case statusCode == 0 && isRateLimitMessage(err.Error()):
		kind = FailureRateLimited
	}
	return &Failure{Kind: kind, Err: err}
}

func isRateLimitMessage(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "rate limit") || strings.Contains(msg, "429")
}
