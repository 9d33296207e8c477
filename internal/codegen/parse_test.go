package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDelimitedBlocks(t *testing.T) {
	output := `Here are the files:

===FILE_START===
FILENAME: /src/routes/users.ts
LANGUAGE: typescript
TYPE: api
CONTENT:
import { Router } from "express";
const router = Router();
export default router;
===FILE_END===

===FILE_START===
FILENAME: prisma/schema.prisma
LANGUAGE: prisma
TYPE: db
CONTENT:
model User {
  id Int @id @default(autoincrement())
}
===FILE_END===
`
	files := Parse(output)
	require.Len(t, files, 2)

	assert.Equal(t, "src/routes/users.ts", files[0].Filename, "leading slash is stripped")
	assert.Equal(t, "typescript", files[0].Language)
	assert.Equal(t, "api", files[0].Type)
	assert.Contains(t, files[0].Content, "Router()")

	assert.Equal(t, "prisma/schema.prisma", files[1].Filename)
	assert.Equal(t, "db", files[1].Type)
}

func TestParseSkipsUnterminatedBlock(t *testing.T) {
	output := `===FILE_START===
FILENAME: a.ts
LANGUAGE: typescript
TYPE: api
CONTENT:
const a = 1; // long enough body
===FILE_END===
===FILE_START===
FILENAME: b.ts
CONTENT:
truncated output with no end marker
`
	files := Parse(output)
	require.Len(t, files, 1)
	assert.Equal(t, "a.ts", files[0].Filename)
}

func TestParseUnterminatedBlockDoesNotSwallowNext(t *testing.T) {
	output := `===FILE_START===
FILENAME: a.ts
LANGUAGE: typescript
TYPE: api
CONTENT:
truncated output with no end marker
===FILE_START===
FILENAME: b.sql
LANGUAGE: sql
TYPE: db
CONTENT:
CREATE TABLE users (id SERIAL PRIMARY KEY);
===FILE_END===
`
	files := Parse(output)
	require.Len(t, files, 1, "only the terminated block survives")
	assert.Equal(t, "b.sql", files[0].Filename)
	assert.Equal(t, "CREATE TABLE users (id SERIAL PRIMARY KEY);", files[0].Content)
}

func TestParseContentLengthFloor(t *testing.T) {
	block := func(content string) string {
		return "===FILE_START===\nFILENAME: a.ts\nCONTENT:\n" + content + "\n===FILE_END==="
	}
	assert.Empty(t, parseDelimited(block("0123456789")), "ten characters is still too short")

	files := parseDelimited(block("0123456789a"))
	require.Len(t, files, 1)
	assert.Equal(t, "0123456789a", files[0].Content)
}

func TestParseSkipsTinyContent(t *testing.T) {
	output := `===FILE_START===
FILENAME: a.ts
CONTENT:
x = 1
===FILE_END===`
	assert.Empty(t, parseDelimited(output))
}

func TestParseInfersMissingMetadata(t *testing.T) {
	output := `===FILE_START===
FILENAME: src/middleware/auth.ts
CONTENT:
export function requireAuth(req, res, next) { next(); }
===FILE_END===`
	files := Parse(output)
	require.Len(t, files, 1)
	assert.Equal(t, "typescript", files[0].Language)
	assert.Equal(t, TypeMiddleware, files[0].Type)
}

func TestParseFencedFallback(t *testing.T) {
	body := strings.Repeat("const x = 1;\n", 10)
	output := "No protocol here.\n```typescript\n" + body + "```\nshort:\n```js\ntiny\n```\n"
	files := Parse(output)
	require.Len(t, files, 1, "blocks under the size floor are dropped")
	assert.Equal(t, "generated-file-1.ts", files[0].Filename)
	assert.Equal(t, "typescript", files[0].Language)
}

func TestParseFencedIgnoredWhenDelimitedPresent(t *testing.T) {
	output := "```js\n" + strings.Repeat("let y;\n", 20) + "```\n" + `
===FILE_START===
FILENAME: index.ts
CONTENT:
console.log("primary protocol wins");
===FILE_END===`
	files := Parse(output)
	require.Len(t, files, 1)
	assert.Equal(t, "index.ts", files[0].Filename)
}

func TestGuessType(t *testing.T) {
	assert.Equal(t, TypeTest, guessType("users.spec.ts", "describe('x', () => {})"))
	assert.Equal(t, TypeDB, guessType("schema.prisma", "model User {}"))
	assert.Equal(t, TypeMiddleware, guessType("auth.ts", "export const requireAuth = ..."))
	assert.Equal(t, TypeConfig, guessType("docker-compose.yml", "services:"))
	assert.Equal(t, TypeAPI, guessType("routes.ts", "router.get('/')"))
}

func TestCleanContentStripsFence(t *testing.T) {
	fenced := "```typescript\nconst a = 1;\n```"
	assert.Equal(t, "const a = 1;", CleanContent(fenced))
	assert.Equal(t, "plain body", CleanContent("plain body"))
}
