package config

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// DefaultModel is the generation model for chat and mind maps.
	DefaultModel = "gemini-2.5-flash"

	// DefaultEmbeddingModel produces the 768-dimension vectors the
	// message_embeddings schema expects.
	DefaultEmbeddingModel = "text-embedding-004"

	// EmbeddingDimensions is the vector width of DefaultEmbeddingModel.
	EmbeddingDimensions = 768
)

// DefaultSystemInstruction sets the mentor persona. The student's language
// follows the conversation; the persona itself is Portuguese-first.
const DefaultSystemInstruction = "Você é a Mentora, uma mentora de estudos paciente e encorajadora. " +
	"Responda na língua do estudante, explique conceitos passo a passo com exemplos do dia a dia " +
	"e termine sugerindo um próximo passo de estudo quando fizer sentido."

// AIConfig holds the generative-language client configuration.
//
// Two ordered credential groups drive key rotation: ChatKeys serves the
// interactive chat path and MindMapKeys serves mind-map generation and
// embeddings. List order is rotation order. When MindMapKeys is empty it
// inherits ChatKeys; when both are empty, the single APIKey is used.
type AIConfig struct {
	Model             string  `mapstructure:"model" json:"model"`
	EmbeddingModel    string  `mapstructure:"embedding_model" json:"embedding_model"`
	SystemInstruction string  `mapstructure:"system_instruction" json:"system_instruction"`
	Temperature       float32 `mapstructure:"temperature" json:"temperature"`
	MaxOutputTokens   int32   `mapstructure:"max_output_tokens" json:"max_output_tokens"`

	// ChatKeys is credential group A. SENSITIVE: masked in MarshalJSON.
	ChatKeys []string `mapstructure:"chat_api_keys" json:"chat_api_keys"`
	// MindMapKeys is credential group B. SENSITIVE: masked in MarshalJSON.
	MindMapKeys []string `mapstructure:"mindmap_api_keys" json:"mindmap_api_keys"`
	// APIKey is the single-key fallback (GEMINI_API_KEY). SENSITIVE.
	APIKey string `mapstructure:"api_key" json:"api_key"`

	// BaseURL overrides the API endpoint. Tests point this at a fake server.
	BaseURL string `mapstructure:"base_url" json:"base_url"`
}

// normalizeKeys splits comma-joined entries (the env var form) and applies
// the group fallbacks. Called once after unmarshal.
func (a *AIConfig) normalizeKeys() {
	a.ChatKeys = splitKeyList(a.ChatKeys)
	a.MindMapKeys = splitKeyList(a.MindMapKeys)

	if len(a.ChatKeys) == 0 && a.APIKey != "" {
		a.ChatKeys = []string{a.APIKey}
	}
	if len(a.MindMapKeys) == 0 {
		a.MindMapKeys = append([]string(nil), a.ChatKeys...)
	}
}

// splitKeyList flattens entries like "k1,k2" into separate keys, trimming
// whitespace and dropping empties, while preserving order.
func splitKeyList(keys []string) []string {
	var out []string
	for _, entry := range keys {
		for _, k := range strings.Split(entry, ",") {
			if k = strings.TrimSpace(k); k != "" {
				out = append(out, k)
			}
		}
	}
	return out
}

// HasKeys reports whether group A has at least one credential.
func (a *AIConfig) HasKeys() bool {
	return len(a.ChatKeys) > 0
}

// RequireKeys is called by AI-using commands; migrate and friends run
// without credentials.
func (a *AIConfig) RequireKeys() error {
	if !a.HasKeys() {
		return fmt.Errorf("%w: set MENTORA_CHAT_API_KEYS or GEMINI_API_KEY", ErrNoAPIKeys)
	}
	return nil
}

// MarshalJSON masks every credential in the key groups.
func (a AIConfig) MarshalJSON() ([]byte, error) {
	type alias AIConfig
	cp := alias(a)
	cp.ChatKeys = maskKeyList(a.ChatKeys)
	cp.MindMapKeys = maskKeyList(a.MindMapKeys)
	cp.APIKey = maskSecret(a.APIKey)
	data, err := json.Marshal(cp)
	if err != nil {
		return nil, fmt.Errorf("marshal ai config: %w", err)
	}
	return data, nil
}

func maskKeyList(keys []string) []string {
	if keys == nil {
		return nil
	}
	masked := make([]string, len(keys))
	for i, k := range keys {
		masked[i] = maskSecret(k)
	}
	return masked
}
