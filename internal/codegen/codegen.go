// Package codegen extracts structured source artifacts from raw model
// output. Models are asked to emit files between explicit delimiter
// lines; a fenced-code fallback recovers files when a model ignores
// the protocol.
package codegen

// GeneratedFile is one source artifact recovered from model output.
type GeneratedFile struct {
	Filename string `json:"filename"`
	Language string `json:"language"`
	Type     string `json:"type"`
	Content  string `json:"content"`
}

// Artifact type buckets. These drive grouping in the API responses
// and the keyword fallback in guessType.
const (
	TypeDocumentation = "documentation"
	TypeAPI           = "api"
	TypeDB            = "db"
	TypeTest          = "test"
	TypeConfig        = "config"
	TypeMiddleware    = "middleware"
)
