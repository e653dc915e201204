package enrich

import (
	"fmt"
	"strings"

	"github.com/focusforge/focusforge/internal/session"
)

var requiredFields = []string{
	"goalInferred",
	"workspaces",
	"lastStop",
	"resumeSummary",
	"nextActions",
	"pendingDecisions",
	"aiRecap",
	"aiActions",
	"aiConfidenceScore",
	"aiConfidenceLabel",
}

// Validate checks an enrichment document against structural bounds and the
// grounding constraint that every referenced URL appears verbatim in the
// input events. Checks run in a fixed order and the first violation fails
// the whole document. The returned warnings are advisory only.
func Validate(doc map[string]any, events []session.Event) ([]string, error) {
	var warnings []string

	for _, field := range requiredFields {
		if _, ok := doc[field]; !ok {
			return warnings, fmt.Errorf("missing required field: %s", field)
		}
	}

	workspaces, ok := doc["workspaces"].([]any)
	if !ok {
		return warnings, fmt.Errorf("workspaces must be an array")
	}
	if len(workspaces) > 5 {
		return warnings, fmt.Errorf("too many workspaces: %d (max 5)", len(workspaces))
	}
	for _, item := range workspaces {
		ws, ok := item.(map[string]any)
		if !ok {
			return warnings, fmt.Errorf("invalid workspace structure: %v", item)
		}
		for _, key := range []string{"label", "timeSec", "topUrls"} {
			if _, ok := ws[key]; !ok {
				return warnings, fmt.Errorf("invalid workspace structure: %v", item)
			}
		}
	}

	nextActions, ok := doc["nextActions"].([]any)
	if !ok {
		return warnings, fmt.Errorf("nextActions must be an array")
	}
	if len(nextActions) > 5 {
		return warnings, fmt.Errorf("too many nextActions: %d (max 5)", len(nextActions))
	}
	pendingDecisions, ok := doc["pendingDecisions"].([]any)
	if !ok {
		return warnings, fmt.Errorf("pendingDecisions must be an array")
	}
	if len(pendingDecisions) > 3 {
		return warnings, fmt.Errorf("too many pendingDecisions: %d (max 3)", len(pendingDecisions))
	}

	recap, _ := doc["aiRecap"].(string)
	if n := sentenceCount(recap); n < 2 || n > 3 {
		return warnings, fmt.Errorf("aiRecap must be 2-3 sentences, got %d", n)
	}
	resume, _ := doc["resumeSummary"].(string)
	if n := sentenceCount(resume); n < 1 || n > 2 {
		warnings = append(warnings, fmt.Sprintf("resumeSummary should be 1-2 sentences, got %d", n))
	}

	aiActions, ok := doc["aiActions"].([]any)
	if !ok {
		return warnings, fmt.Errorf("aiActions must be an array")
	}
	if len(aiActions) != 3 {
		return warnings, fmt.Errorf("aiActions must have exactly 3 entries, got %d", len(aiActions))
	}
	domains := inputDomains(events)
	for _, item := range aiActions {
		action, _ := item.(string)
		if !mentionsAnyDomain(action, domains) {
			return warnings, fmt.Errorf("aiActions entry %q does not mention any session domain", action)
		}
	}

	inputURLs := make(map[string]bool, len(events))
	for _, ev := range events {
		inputURLs[ev.URL] = true
	}
	lastStop, ok := doc["lastStop"].(map[string]any)
	if !ok {
		return warnings, fmt.Errorf("lastStop must be an object")
	}
	if url, _ := lastStop["url"].(string); url != "" && !inputURLs[url] {
		return warnings, fmt.Errorf("lastStop.url %q not found in input events", url)
	}

	for _, item := range workspaces {
		ws := item.(map[string]any)
		topURLs, _ := ws["topUrls"].([]any)
		for _, u := range topURLs {
			url, _ := u.(string)
			if url != "" && !inputURLs[url] {
				return warnings, fmt.Errorf("workspace URL %q not found in input events", url)
			}
		}
	}

	return warnings, nil
}

func sentenceCount(s string) int {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '.' || r == '?' || r == '!'
	})
	n := 0
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			n++
		}
	}
	return n
}

func inputDomains(events []session.Event) []string {
	seen := map[string]bool{}
	var domains []string
	for _, ev := range events {
		d := session.ExtractDomain(ev.URL)
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		domains = append(domains, d)
	}
	return domains
}

func mentionsAnyDomain(action string, domains []string) bool {
	lowered := strings.ToLower(action)
	for _, d := range domains {
		if strings.Contains(lowered, d) {
			return true
		}
	}
	return false
}
