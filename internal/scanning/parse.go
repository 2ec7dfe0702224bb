package scanning

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ybae45/chopchop/internal/parsing"
)

// stripFences removes markdown code fences a model may wrap its answer in
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	for _, prefix := range []string{"```json", "```text", "```"} {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			break
		}
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// cleanTranscript normalizes an OCR transcript. Line breaks matter to the
// receipt parser, so only line endings and fences are touched.
func cleanTranscript(text string) (string, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = stripFences(text)
	if text == "" {
		return "", ErrNoText
	}
	return text + "\n", nil
}

// parseEntitiesJSON parses the JSON array returned for an entity prompt
func parseEntitiesJSON(text string) ([]parsing.Entity, error) {
	text = stripFences(text)

	startIdx := strings.Index(text, "[")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON array found in response")
	}
	endIdx := strings.LastIndex(text, "]")
	if endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON array in response")
	}
	text = text[startIdx : endIdx+1]

	var raw []parsing.Entity
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	entities := make([]parsing.Entity, 0, len(raw))
	for _, e := range raw {
		e.Name = strings.TrimSpace(e.Name)
		e.Type = strings.ToUpper(strings.TrimSpace(e.Type))
		if e.Name == "" {
			continue
		}
		entities = append(entities, e)
	}
	return entities, nil
}
