package session

import "fmt"

type Event struct {
	TS          int64  `json:"ts"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	DurationSec int    `json:"durationSec"`
}

type Workspace struct {
	Label   string   `json:"label"`
	TimeSec int      `json:"timeSec"`
	TopURLs []string `json:"topUrls"`
}

type LastStop struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type Summary struct {
	GoalInferred      string      `json:"goalInferred"`
	Workspaces        []Workspace `json:"workspaces"`
	ResumeSummary     string      `json:"resumeSummary"`
	LastStop          LastStop    `json:"lastStop"`
	NextActions       []string    `json:"nextActions"`
	PendingDecisions  []string    `json:"pendingDecisions"`
	AIRecap           string      `json:"aiRecap,omitempty"`
	AIActions         []string    `json:"aiActions,omitempty"`
	AIConfidenceScore *float64    `json:"aiConfidenceScore,omitempty"`
	AIConfidenceLabel string      `json:"aiConfidenceLabel,omitempty"`
}

// BasicSummary builds a deterministic summary from raw events. It never
// fails, so callers can fall back to it when enrichment is unavailable.
func BasicSummary(goal string, events []Event) Summary {
	if len(events) == 0 {
		inferred := goal
		if inferred == "" {
			inferred = "No activity detected"
		}
		return Summary{
			GoalInferred:     inferred,
			Workspaces:       []Workspace{},
			ResumeSummary:    "No browser activity was recorded in this session.",
			LastStop:         LastStop{Label: "Unknown", URL: ""},
			NextActions:      []string{},
			PendingDecisions: []string{},
		}
	}

	workspaces := BuildWorkspaces(GroupByDomain(events), DefaultMaxWorkspaces)
	lastStop := SelectLastStop(events)

	inferred := goal
	if inferred == "" && len(workspaces) > 0 {
		if top := workspaces[0].Label; top != "" {
			inferred = fmt.Sprintf("Working on %s", top)
		} else {
			inferred = "No specific goal identified"
		}
	}

	total := 0
	for _, w := range workspaces {
		total += w.TimeSec
	}
	resume := fmt.Sprintf("Spent %d seconds across %d different sites.", total, len(workspaces))
	if len(workspaces) > 0 {
		resume += fmt.Sprintf(" Most time on %s.", workspaces[0].Label)
	}

	next := []string{}
	if len(workspaces) > 0 {
		next = []string{
			fmt.Sprintf("Continue work on %s", workspaces[0].Label),
			"Review progress and plan next steps",
		}
	}

	return Summary{
		GoalInferred:     inferred,
		Workspaces:       workspaces,
		ResumeSummary:    resume,
		LastStop:         lastStop,
		NextActions:      next,
		PendingDecisions: []string{},
	}
}
