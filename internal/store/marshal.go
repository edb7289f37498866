package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// marshalJSON encodes v as compact JSON TEXT without HTML escaping, so
// term keys such as <a --> b> stay readable in the database.
func marshalJSON(what string, v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("marshal %s: %w", what, err)
	}
	// Encoder adds a trailing newline.
	return strings.TrimSpace(buf.String()), nil
}

func unmarshalJSON(what, data string, v any) error {
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", what, err)
	}
	return nil
}
