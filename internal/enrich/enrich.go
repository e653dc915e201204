package enrich

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/focusforge/focusforge/internal/session"
)

// Decode parses a model response into a loosely typed document. Responses
// wrapped in fenced code blocks are unwrapped first.
func Decode(raw string) (map[string]any, error) {
	cleaned := stripFences(raw)
	var doc map[string]any
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, fmt.Errorf("response was not valid JSON: %w", err)
	}
	return doc, nil
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-len("```")]
	}
	return strings.TrimSpace(s)
}

// ToSummary converts a validated document into a Summary. Collection fields
// are never nil so the result marshals with empty arrays.
func ToSummary(doc map[string]any) (session.Summary, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return session.Summary{}, err
	}
	var s session.Summary
	if err := json.Unmarshal(b, &s); err != nil {
		return session.Summary{}, fmt.Errorf("enrichment did not match summary schema: %w", err)
	}
	if s.Workspaces == nil {
		s.Workspaces = []session.Workspace{}
	}
	if s.NextActions == nil {
		s.NextActions = []string{}
	}
	if s.PendingDecisions == nil {
		s.PendingDecisions = []string{}
	}
	return s, nil
}
