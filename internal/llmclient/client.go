package llmclient

import "context"

// Client is the text-generation boundary the rest of the system talks
// to. Prompts arrive fully rendered; this layer does no templating.
// Failures are surfaced to callers, not retried internally.
type Client interface {
	// Complete runs a single-shot completion and returns the full text.
	Complete(ctx context.Context, prompt string, opts ...CallOption) (string, error)
	// Stream runs a token-streaming completion, invoking onToken for
	// each delta, and returns the same full text Complete would.
	Stream(ctx context.Context, prompt string, onToken func(chunk string), opts ...CallOption) (string, error)
}

type callSettings struct {
	temperature     float32
	maxOutputTokens int32
}

// CallOption tunes a single generation call.
type CallOption func(*callSettings)

// WithTemperature sets the sampling temperature for one call.
func WithTemperature(t float32) CallOption {
	return func(s *callSettings) { s.temperature = t }
}

// WithMaxOutputTokens caps the output token budget for one call.
func WithMaxOutputTokens(n int32) CallOption {
	return func(s *callSettings) { s.maxOutputTokens = n }
}

func applyOptions(opts []CallOption) callSettings {
	s := callSettings{temperature: 0.2, maxOutputTokens: 8192}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
