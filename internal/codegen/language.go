package codegen

import (
	"path"
	"strings"
)

var extToLanguage = map[string]string{
	".ts":     "typescript",
	".tsx":    "typescript",
	".js":     "javascript",
	".jsx":    "javascript",
	".go":     "go",
	".py":     "python",
	".sql":    "sql",
	".prisma": "prisma",
	".json":   "json",
	".yaml":   "yaml",
	".yml":    "yaml",
	".md":     "markdown",
	".sh":     "bash",
	".env":    "env",
}

var languageToExt = map[string]string{
	"typescript": ".ts",
	"javascript": ".js",
	"go":         ".go",
	"python":     ".py",
	"sql":        ".sql",
	"prisma":     ".prisma",
	"json":       ".json",
	"yaml":       ".yaml",
	"yml":        ".yaml",
	"markdown":   ".md",
	"bash":       ".sh",
	"shell":      ".sh",
	"sh":         ".sh",
	"dockerfile": ".dockerfile",
}

func languageForFilename(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if lang, ok := extToLanguage[ext]; ok {
		return lang
	}
	return "text"
}

func extensionForLanguage(lang string) string {
	if ext, ok := languageToExt[strings.ToLower(strings.TrimSpace(lang))]; ok {
		return ext
	}
	return ".txt"
}

func normalizeLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return "text"
	}
	switch lang {
	case "ts":
		return "typescript"
	case "js":
		return "javascript"
	case "yml":
		return "yaml"
	case "sh", "shell":
		return "bash"
	}
	return lang
}

// CleanContent strips a wrapping markdown code fence, if present,
// from a delimited content body. Models sometimes fence the content
// even inside the delimiter protocol.
func CleanContent(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	nl := strings.Index(content, "\n")
	if nl < 0 {
		return content
	}
	body := content[nl+1:]
	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}
