package codegen

import (
	"fmt"
	"strings"
)

// Delimiter protocol the generation prompts instruct models to use.
const (
	fileStartMarker = "===FILE_START==="
	fileEndMarker   = "===FILE_END==="
)

const (
	// Delimited content must exceed this many characters to count as
	// a real file.
	minDelimitedContent = 10
	// Fenced fallback blocks must carry enough content to be a file.
	minFencedContent = 50
)

// Parse extracts files from model output using the delimiter
// protocol. Blocks missing an end marker are skipped, as are blocks
// whose content is too short to be a real file. If the protocol
// yields nothing, a fenced-code-block fallback is attempted.
func Parse(output string) []GeneratedFile {
	files := parseDelimited(output)
	if len(files) == 0 {
		files = parseFenced(output)
	}
	return files
}

func parseDelimited(output string) []GeneratedFile {
	var files []GeneratedFile
	chunks := strings.Split(output, fileStartMarker)
	for _, chunk := range chunks[1:] {
		// Each chunk must carry its own end marker; a chunk without
		// one is a truncated block and must not swallow the next.
		end := strings.Index(chunk, fileEndMarker)
		if end < 0 {
			continue
		}
		f, ok := parseBlock(chunk[:end])
		if ok {
			files = append(files, f)
		}
	}
	return files
}

func parseBlock(block string) (GeneratedFile, bool) {
	var f GeneratedFile
	lines := strings.Split(block, "\n")
	contentAt := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "FILENAME:"):
			f.Filename = cleanFilename(strings.TrimPrefix(trimmed, "FILENAME:"))
		case strings.HasPrefix(trimmed, "LANGUAGE:"):
			f.Language = strings.TrimSpace(strings.TrimPrefix(trimmed, "LANGUAGE:"))
		case strings.HasPrefix(trimmed, "TYPE:"):
			f.Type = strings.TrimSpace(strings.TrimPrefix(trimmed, "TYPE:"))
		case strings.HasPrefix(trimmed, "CONTENT:"):
			contentAt = i
		}
		if contentAt >= 0 {
			break
		}
	}
	if f.Filename == "" || contentAt < 0 {
		return GeneratedFile{}, false
	}
	f.Content = CleanContent(strings.Join(lines[contentAt+1:], "\n"))
	if len(f.Content) <= minDelimitedContent {
		return GeneratedFile{}, false
	}
	if f.Language == "" {
		f.Language = languageForFilename(f.Filename)
	}
	if f.Type == "" {
		f.Type = guessType(f.Filename, f.Content)
	}
	return f, true
}

// parseFenced recovers files from markdown code fences when the model
// ignored the delimiter protocol. Filenames are synthesized from the
// fence language tag.
func parseFenced(output string) []GeneratedFile {
	var files []GeneratedFile
	rest := output
	n := 0
	for {
		open := strings.Index(rest, "```")
		if open < 0 {
			break
		}
		rest = rest[open+3:]
		nl := strings.Index(rest, "\n")
		if nl < 0 {
			break
		}
		lang := strings.TrimSpace(rest[:nl])
		rest = rest[nl+1:]
		closing := strings.Index(rest, "```")
		if closing < 0 {
			break
		}
		content := strings.TrimSpace(rest[:closing])
		rest = rest[closing+3:]

		if len(content) < minFencedContent {
			continue
		}
		n++
		filename := fmt.Sprintf("generated-file-%d%s", n, extensionForLanguage(lang))
		files = append(files, GeneratedFile{
			Filename: filename,
			Language: normalizeLanguage(lang),
			Type:     guessType(filename, content),
			Content:  content,
		})
	}
	return files
}

func cleanFilename(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "/")
	return s
}

// guessType buckets a file by filename and content keywords.
func guessType(filename, content string) string {
	probe := strings.ToLower(filename + " " + content)
	switch {
	case containsAny(probe, "test", "describe(", "it(", "expect("):
		return TypeTest
	case containsAny(probe, "prisma", "schema", "migration"):
		return TypeDB
	case containsAny(probe, "middleware", "auth", "cors"):
		return TypeMiddleware
	case containsAny(probe, "config", ".env", "docker"):
		return TypeConfig
	default:
		return TypeAPI
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
