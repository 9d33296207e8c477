package chatrouter

import "strings"

// StripCode removes code from a chat reply. Conversational responses
// must stay prose; generated files only reach users as artifacts.
// Fenced blocks are dropped wholesale, plus any stray lines that look
// like source statements.
func StripCode(s string) string {
	var out []string
	inFence := false
	stripped := false
	for _, line := range strings.Split(s, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			stripped = true
			continue
		}
		if inFence {
			continue
		}
		if looksLikeCode(trimmed) {
			stripped = true
			continue
		}
		out = append(out, line)
	}
	result := strings.TrimSpace(strings.Join(out, "\n"))
	if stripped && result == "" {
		return "I can generate that code for you - just ask and it will land in the artifact viewer."
	}
	return result
}

var codeLinePrefixes = []string{
	"import ", "export ", "const ", "let ", "var ",
	"function ", "class ", "def ", "func ", "return ",
}

func looksLikeCode(line string) bool {
	for _, p := range codeLinePrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}
