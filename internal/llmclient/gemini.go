package llmclient

import (
	"context"
	"strings"

	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client.
// It only focuses on the API call itself; cross-cutting concerns
// (error classification, fallbacks, logging) live with the callers.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

// NewGeminiClient builds a client for the given model. The API key is
// validated by the caller before any stage work begins; an empty key
// here is rejected so misconfiguration never masquerades as a
// generation failure.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }

// Complete implements Client.
func (g *GeminiClient) Complete(ctx context.Context, prompt string, opts ...CallOption) (string, error) {
	s := applyOptions(opts)
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr(s.temperature),
			MaxOutputTokens: s.maxOutputTokens,
		},
	)
	if err != nil {
		return "", err
	}
	text := firstText(resp)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Stream implements Client. The accumulated text of all deltas is
// returned once the stream ends.
func (g *GeminiClient) Stream(ctx context.Context, prompt string, onToken func(string), opts ...CallOption) (string, error) {
	s := applyOptions(opts)
	var b strings.Builder
	for resp, err := range g.cli.Models.GenerateContentStream(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr(s.temperature),
			MaxOutputTokens: s.maxOutputTokens,
		},
	) {
		if err != nil {
			return "", err
		}
		chunk := firstText(resp)
		if chunk == "" {
			continue
		}
		b.WriteString(chunk)
		if onToken != nil {
			onToken(chunk)
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return ""
	}
	return cand.Content.Parts[0].Text
}
