// Package chatrouter routes project chat messages: plain questions go
// to a conversational model call, code requests trigger artifact
// generation, and stage-scoped messages drive the matching stage agent.
package chatrouter

import (
	"regexp"
	"strings"
)

// Intent is the classification of one chat message.
type Intent struct {
	// Code reports whether the message asks for generation work.
	Code bool
	// Focus names what the request centers on (api, database, test,
	// modification, auth, validation, middleware, general).
	Focus string
}

// Classifier decides whether a message is a generation request.
// KeywordClassifier is the default; callers can swap in something
// smarter without touching the router.
type Classifier interface {
	Classify(message string) Intent
}

var codeKeywords = []string{
	"generate", "create", "build", "implement", "add", "write",
	"code", "function", "endpoint", "api", "route", "model",
	"database", "schema", "migration", "test", "fix", "update",
	"modify", "change", "refactor", "improve",
}

var codePatterns = []*regexp.Regexp{
	regexp.MustCompile(`can you (create|generate|add|build|implement|write)`),
	regexp.MustCompile(`i need (a|an|some|to)`),
	regexp.MustCompile(`please (create|generate|add|build|implement|write)`),
	regexp.MustCompile(`how do i (create|generate|add|build|implement|write)`),
}

var focusPatterns = []struct {
	re    *regexp.Regexp
	focus string
}{
	{regexp.MustCompile(`(add|create) (.*?) (endpoint|api|route)`), "api"},
	{regexp.MustCompile(`(add|create) (.*?) (model|schema|table)`), "database"},
	{regexp.MustCompile(`(add|create) (.*?) (test|spec)`), "test"},
	{regexp.MustCompile(`(fix|update|modify|change) `), "modification"},
	{regexp.MustCompile(`(authentication|auth|login|signup)`), "auth"},
	{regexp.MustCompile(`(validation|validate|sanitize)`), "validation"},
	{regexp.MustCompile(`(middleware|cors|security)`), "middleware"},
}

// KeywordClassifier detects generation requests by keyword and
// pattern matching against the lowercased message.
type KeywordClassifier struct{}

func (KeywordClassifier) Classify(message string) Intent {
	lower := strings.ToLower(message)

	code := false
	for _, kw := range codeKeywords {
		if strings.Contains(lower, kw) {
			code = true
			break
		}
	}
	if !code {
		for _, re := range codePatterns {
			if re.MatchString(lower) {
				code = true
				break
			}
		}
	}
	if !code {
		return Intent{}
	}

	focus := "general"
	for _, fp := range focusPatterns {
		if fp.re.MatchString(lower) {
			focus = fp.focus
			break
		}
	}
	return Intent{Code: true, Focus: focus}
}
