package session

import "sort"

const DefaultMaxWorkspaces = 5

// BuildWorkspaces converts domain buckets into at most max workspaces,
// ordered by time spent descending. Ties keep first-seen order.
func BuildWorkspaces(buckets []*DomainBucket, max int) []Workspace {
	sorted := make([]*DomainBucket, len(buckets))
	copy(sorted, buckets)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TimeSec > sorted[j].TimeSec })
	if len(sorted) > max {
		sorted = sorted[:max]
	}
	workspaces := make([]Workspace, 0, len(sorted))
	for _, b := range sorted {
		workspaces = append(workspaces, Workspace{
			Label:   b.Domain,
			TimeSec: b.TimeSec,
			TopURLs: b.TopURLs(5),
		})
	}
	return workspaces
}

// SelectLastStop picks the event with the highest timestamp. Ties keep the
// earliest-listed event. Label prefers the page title, then the domain,
// then "Unknown".
func SelectLastStop(events []Event) LastStop {
	if len(events) == 0 {
		return LastStop{Label: "Unknown", URL: ""}
	}
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TS > sorted[j].TS })
	last := sorted[0]

	label := last.Title
	if label == "" {
		label = ExtractDomain(last.URL)
	}
	if label == "" {
		label = "Unknown"
	}
	return LastStop{Label: label, URL: last.URL}
}
