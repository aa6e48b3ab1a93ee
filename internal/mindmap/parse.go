package mindmap

import (
	"encoding/json"
	"fmt"
	"strings"
)

// wireMap mirrors the JSON shape the prompt requests from the model.
type wireMap struct {
	Topic string `json:"topic"`
	Root  *Node  `json:"root"`
}

// Parse decodes model output into a validated map tree.
//
// Models wrap JSON in markdown fences often enough that stripping them
// here is cheaper than fighting it in the prompt. Anything else around
// the JSON is an error.
func Parse(raw string) (string, *Node, error) {
	text := stripFences(raw)
	if text == "" {
		return "", nil, fmt.Errorf("%w: empty response", ErrBadMapJSON)
	}

	var wm wireMap
	if err := json.Unmarshal([]byte(text), &wm); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrBadMapJSON, err)
	}
	if err := Validate(wm.Root); err != nil {
		return "", nil, err
	}
	return strings.TrimSpace(wm.Topic), wm.Root, nil
}

// stripFences removes a single surrounding markdown code fence,
// with or without a language tag.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	nl := strings.IndexByte(s, '\n')
	if nl < 0 {
		return s
	}
	s = s[nl+1:]
	if end := strings.LastIndex(s, "```"); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}
