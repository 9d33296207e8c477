package retriever

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrieveRanksByOverlap(t *testing.T) {
	docs := []Document{
		{Filename: "system-design.md", StageType: "DESIGN", Content: "user authentication service with jwt tokens"},
		{Filename: "deploy.sh", StageType: "DEPLOYMENT", Content: "docker build and push"},
		{Filename: "users.ts", StageType: "DEVELOPMENT", Content: "user registration and authentication routes"},
	}
	got := Retrieve("implement user authentication endpoints", docs)
	require.Len(t, got, 2, "the deploy script shares no tokens and is discarded")
	// users.ts matches "user" twice (filename and body), so raw 3 at
	// boost 0.8 edges out the design doc's raw 2 at boost 1.0.
	assert.Equal(t, "users.ts", got[0].Filename)
	assert.Equal(t, "system-design.md", got[1].Filename)
}

func TestRetrieveCountsRepeatedMatches(t *testing.T) {
	docs := []Document{
		{Filename: "two.md", StageType: "DESIGN", Content: "payment handling"},
		{Filename: "one.md", StageType: "DESIGN", Content: "payment payment payment"},
	}
	got := Retrieve("payment handling", docs)
	require.Len(t, got, 2)
	assert.Equal(t, "one.md", got[0].Filename, "three matching tokens outrank two")
	assert.Equal(t, "two.md", got[1].Filename)
}

func TestRetrieveStageBoostOrdersTies(t *testing.T) {
	docs := []Document{
		{Filename: "a.md", StageType: "DEPLOYMENT", Content: "payment gateway integration"},
		{Filename: "b.md", StageType: "PLANNING", Content: "payment gateway integration"},
	}
	got := Retrieve("payment gateway", docs)
	require.Len(t, got, 2)
	assert.Equal(t, "b.md", got[0].Filename)
}

func TestRetrieveCapsResultCount(t *testing.T) {
	var docs []Document
	for i := 0; i < 8; i++ {
		docs = append(docs, Document{Filename: "f.md", StageType: "DESIGN", Content: "orders inventory"})
	}
	got := Retrieve("orders inventory", docs)
	assert.Len(t, got, maxDocuments)
}

func TestRetrieveEmptyQuery(t *testing.T) {
	docs := []Document{{Filename: "a.md", StageType: "DESIGN", Content: "anything"}}
	assert.Nil(t, Retrieve("a i", docs), "tokens under three characters are ignored")
}

func TestFormatForPromptTruncates(t *testing.T) {
	long := strings.Repeat("x", maxDocChars+100)
	out := FormatForPrompt([]Document{{Filename: "big.md", StageType: "DESIGN", Content: long}})
	assert.Contains(t, out, "big.md")
	assert.True(t, strings.HasSuffix(out, "..."))
	assert.Less(t, len(out), maxDocChars+100)
}

func TestFormatForPromptSentinel(t *testing.T) {
	assert.Equal(t, NoContextSentinel, FormatForPrompt(nil))
}
