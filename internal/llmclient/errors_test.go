package llmclient

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindUnknown},
		{"deadline exceeded", context.DeadlineExceeded, KindTimeout},
		{"wrapped deadline", fmt.Errorf("generate: %w", context.DeadlineExceeded), KindTimeout},
		{"bad api key", errors.New("API key not valid"), KindAuth},
		{"unauthenticated", errors.New("rpc error: code = Unauthenticated"), KindAuth},
		{"permission denied", errors.New("permission denied for model"), KindAuth},
		{"quota", errors.New("Quota exceeded for requests"), KindQuota},
		{"resource exhausted", errors.New("resource exhausted"), KindQuota},
		{"http 429", errors.New("googleapi: Error 429: too many requests"), KindQuota},
		{"safety block", errors.New("response blocked by safety settings"), KindSafety},
		{"timeout text", errors.New("request timeout while waiting"), KindTimeout},
		{"anything else", errors.New("connection reset by peer"), KindUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.err))
		})
	}
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Google API key configuration error", UserMessage(KindAuth))
	assert.Equal(t, "API quota exceeded. Please try again later.", UserMessage(KindQuota))
	assert.Contains(t, UserMessage(KindSafety), "filtered")
	assert.Contains(t, UserMessage(KindTimeout), "timed out")
	assert.Equal(t, "Failed to generate content", UserMessage(KindUnknown))
}
