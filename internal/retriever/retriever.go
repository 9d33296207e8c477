// Package retriever selects previously generated artifacts relevant
// to an upcoming generation call and renders them as prompt context.
// Scoring is lexical token overlap; no embedding service is involved,
// so retrieval works offline and deterministically.
package retriever

import (
	"fmt"
	"sort"
	"strings"
)

// Document is one candidate artifact for retrieval.
type Document struct {
	Filename  string
	StageType string
	Content   string
}

const (
	maxDocuments  = 5
	maxDocChars   = 1500
	minTokenChars = 3
)

// NoContextSentinel is returned by FormatForPrompt when nothing
// relevant was found, so prompts always have a context section.
const NoContextSentinel = "No previous context available."

// Stage boosts weight earlier-stage artifacts higher: a system design
// document matters more to later generations than an earlier test file.
var stageBoost = map[string]float64{
	"PLANNING":    1.2,
	"DESIGN":      1.0,
	"DEVELOPMENT": 0.8,
	"TESTING":     0.6,
	"DEPLOYMENT":  0.4,
}

type scored struct {
	doc   Document
	score float64
}

// Retrieve ranks docs against the query and returns the top matches.
// Zero-score documents are discarded entirely.
func Retrieve(query string, docs []Document) []Document {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil
	}
	var ranked []scored
	for _, d := range docs {
		s := score(tokens, d)
		if s <= 0 {
			continue
		}
		ranked = append(ranked, scored{doc: d, score: s})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	if len(ranked) > maxDocuments {
		ranked = ranked[:maxDocuments]
	}
	out := make([]Document, len(ranked))
	for i, r := range ranked {
		out[i] = r.doc
	}
	return out
}

// FormatForPrompt renders retrieved documents as a prompt context
// block. Long documents are truncated so a single artifact cannot
// crowd out the rest of the prompt.
func FormatForPrompt(docs []Document) string {
	if len(docs) == 0 {
		return NoContextSentinel
	}
	var b strings.Builder
	for i, d := range docs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		content := d.Content
		if len(content) > maxDocChars {
			content = content[:maxDocChars] + "..."
		}
		fmt.Fprintf(&b, "--- %s (%s stage) ---\n%s", d.Filename, d.StageType, content)
	}
	return b.String()
}

func score(queryTokens []string, d Document) float64 {
	docTokens := tokenize(d.Filename + " " + d.Content)
	raw := 0.0
	for _, q := range queryTokens {
		for _, t := range docTokens {
			// Substring match either direction so "user" hits
			// "userService" and "authentication" hits "auth". Every
			// matching token counts, so repetition raises relevance.
			if strings.Contains(t, q) || strings.Contains(q, t) {
				raw++
			}
		}
	}
	boost, ok := stageBoost[d.StageType]
	if !ok {
		boost = 1.0
	}
	return raw * boost
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	var tokens []string
	for _, f := range fields {
		if len(f) >= minTokenChars {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
