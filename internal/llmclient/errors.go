package llmclient

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrMissingAPIKey indicates the provider credential was absent at
	// construction time. This is a configuration error, checked before
	// any stage work begins.
	ErrMissingAPIKey = errors.New("generative service API key is not configured")

	// ErrEmptyResponse indicates the provider returned no usable text.
	ErrEmptyResponse = errors.New("empty response from model")
)

// Kind buckets a provider error so the API layer can map it to a
// user-facing message.
type Kind string

const (
	KindAuth    Kind = "auth"
	KindQuota   Kind = "quota"
	KindSafety  Kind = "safety"
	KindTimeout Kind = "timeout"
	KindUnknown Kind = "unknown"
)

// Classify inspects an error from the underlying service and assigns
// it a taxonomy bucket. The provider does not expose typed errors for
// these conditions, so classification is by message content.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key") || strings.Contains(msg, "api_key") ||
		strings.Contains(msg, "unauthenticated") || strings.Contains(msg, "permission denied"):
		return KindAuth
	case strings.Contains(msg, "quota") || strings.Contains(msg, "resource exhausted") ||
		strings.Contains(msg, "rate limit") || strings.Contains(msg, "429"):
		return KindQuota
	case strings.Contains(msg, "safety") || strings.Contains(msg, "blocked"):
		return KindSafety
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return KindTimeout
	default:
		return KindUnknown
	}
}

// UserMessage maps a Kind to the message surfaced to the caller.
func UserMessage(k Kind) string {
	switch k {
	case KindAuth:
		return "Google API key configuration error"
	case KindQuota:
		return "API quota exceeded. Please try again later."
	case KindSafety:
		return "Content was filtered. Please try rephrasing your request."
	case KindTimeout:
		return "Request timed out. Please try a simpler prompt."
	default:
		return "Failed to generate content"
	}
}
