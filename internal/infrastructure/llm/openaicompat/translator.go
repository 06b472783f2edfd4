package openaicompat

import (
	"context"
	"fmt"
	"strings"

	"github.com/kirillkom/handwriting-extraction/internal/core/domain"
)

// Translator rewrites a whole extracted document in one call so cross-field
// consistency survives translation. A result whose key set differs from the
// input violates the stage contract and is returned as an error; the caller
// decides whether to degrade to the untranslated text.
type Translator struct {
	client *Client
}

func NewTranslator(client *Client) *Translator {
	return &Translator{client: client}
}

func (t *Translator) Translate(ctx context.Context, text domain.ExtractedText, targetLanguage string) (domain.ExtractedText, error) {
	if len(text) == 0 {
		return text, nil
	}
	if strings.TrimSpace(targetLanguage) == "" {
		return text, nil
	}

	messages := []chatMessage{{
		Role:    "user",
		Content: buildTranslationPrompt(compactJSON(text), targetLanguage),
	}}
	content, err := t.client.chat(ctx, "translate", t.client.TextModel(), messages, true)
	if err != nil {
		return nil, err
	}

	parsed, ok := parseJSONObject(content)
	if !ok {
		return nil, fmt.Errorf("translate: unparseable model output")
	}
	inKeys, outKeys := keyCount(map[string]any(text)), keyCount(parsed)
	if inKeys != outKeys {
		return nil, fmt.Errorf("translate: key set changed: %d keys in, %d keys out", inKeys, outKeys)
	}
	return domain.ExtractedText(parsed), nil
}

// keyCount approximates key-set preservation: translated keys are expected
// to change spelling, so only the cardinality of the mapping is comparable
// across languages. Counting recurses into nested objects and arrays so a
// dropped nested field is caught too.
func keyCount(v any) int {
	switch val := v.(type) {
	case map[string]any:
		n := len(val)
		for _, child := range val {
			n += keyCount(child)
		}
		return n
	case []any:
		n := 0
		for _, child := range val {
			n += keyCount(child)
		}
		return n
	default:
		return 0
	}
}
