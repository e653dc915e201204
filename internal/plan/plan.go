package plan

import (
	"fmt"
	"strconv"
)

type Task struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Priority      string   `json:"priority"`
	Urgency       string   `json:"urgency"`
	EstimatedTime string   `json:"estimatedTime"`
	Dependencies  []string `json:"dependencies"`
	Description   string   `json:"description"`
	Reason        string   `json:"reason"`
	Context       string   `json:"context"`
}

type TaskPlan struct {
	PrioritizedTasks []Task   `json:"prioritizedTasks"`
	TaskOrder        []string `json:"taskOrder"`
	Suggestions      []string `json:"suggestions"`
	Insights         []string `json:"insights"`
}

// Sanitize coerces an externally produced plan document into a bounded,
// well typed TaskPlan. It never fails: malformed entries are dropped or
// downgraded to defaults. Task entries survive only when they are objects
// carrying at least an id and a title.
func Sanitize(doc map[string]any) TaskPlan {
	out := TaskPlan{
		PrioritizedTasks: []Task{},
		TaskOrder:        []string{},
		Suggestions:      []string{},
		Insights:         []string{},
	}

	tasks, _ := doc["prioritizedTasks"].([]any)
	for _, item := range tasks {
		record, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if _, ok := record["id"]; !ok {
			continue
		}
		if _, ok := record["title"]; !ok {
			continue
		}
		out.PrioritizedTasks = append(out.PrioritizedTasks, sanitizeTask(record))
		if len(out.PrioritizedTasks) == 10 {
			break
		}
	}

	out.TaskOrder = stringList(doc["taskOrder"], 10)
	out.Suggestions = stringList(doc["suggestions"], 5)
	out.Insights = stringList(doc["insights"], 5)
	return out
}

func sanitizeTask(record map[string]any) Task {
	task := Task{
		ID:            coerceString(record["id"]),
		Title:         coerceString(record["title"]),
		Priority:      "medium",
		Urgency:       "soon",
		EstimatedTime: "30 minutes",
		Dependencies:  []string{},
		Description:   coerceString(record["description"]),
		Reason:        coerceString(record["reason"]),
		Context:       coerceString(record["context"]),
	}
	if p, ok := record["priority"].(string); ok && (p == "high" || p == "medium" || p == "low") {
		task.Priority = p
	}
	if u, ok := record["urgency"].(string); ok && (u == "urgent" || u == "soon" || u == "later") {
		task.Urgency = u
	}
	if v, ok := record["estimatedTime"]; ok {
		task.EstimatedTime = coerceString(v)
	}
	if deps, ok := record["dependencies"].([]any); ok {
		for _, d := range deps {
			task.Dependencies = append(task.Dependencies, coerceString(d))
		}
	}
	return task
}

func stringList(v any, max int) []string {
	items, _ := v.([]any)
	if len(items) > max {
		items = items[:max]
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, coerceString(item))
	}
	return out
}

func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
