package gateway

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

// Kind is the retry classification of a gateway failure.
type Kind int

const (
	KindUnclassified Kind = iota
	KindLoadFailure
	KindEmptyResponse
	KindFormatIncompatible
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindLoadFailure:
		return "load_failure"
	case KindEmptyResponse:
		return "empty_response"
	case KindFormatIncompatible:
		return "format_incompatible"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "unclassified"
	}
}

// Error is a classified gateway failure.
type Error struct {
	Kind       Kind
	Model      string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Model != "" {
		return fmt.Sprintf("[%s] %s", e.Model, msg)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with an explicit kind.
func NewError(kind Kind, model string, err error) *Error {
	return &Error{Kind: kind, Model: model, Err: err}
}

// KindOf returns the classification carried by err, or KindUnclassified.
func KindOf(err error) Kind {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	return KindUnclassified
}

// IsKind reports whether err carries the given classification.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

var (
	formatSignatures    = []string{"unknown field", "invalid_argument"}
	rateLimitSignatures = []string{"rate limit", "ratelimit", "quota", "resource_exhausted", "too many requests"}
)

// Classify turns a raw provider error into a *Error. Errors that are already
// classified pass through untouched.
func Classify(model string, err error) error {
	if err == nil {
		return nil
	}
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return err
	}

	status := statusCodeOf(err)
	return &Error{
		Kind:       classifyKind(status, err.Error()),
		Model:      model,
		StatusCode: status,
		Err:        err,
	}
}

func classifyKind(status int, msg string) Kind {
	lower := strings.ToLower(msg)

	switch {
	case status == 429 || containsAny(lower, rateLimitSignatures):
		return KindRateLimited
	case status == 400 || containsAny(lower, formatSignatures):
		return KindFormatIncompatible
	}
	return KindUnclassified
}

// statusCodeOf extracts the HTTP status from the SDK error types in use.
func statusCodeOf(err error) int {
	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		return genaiErr.Code
	}
	var genaiPtr *genai.APIError
	if errors.As(err, &genaiPtr) && genaiPtr != nil {
		return genaiPtr.Code
	}
	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) {
		return anthropicErr.StatusCode
	}
	var openaiErr *openai.Error
	if errors.As(err, &openaiErr) {
		return openaiErr.StatusCode
	}
	return 0
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
