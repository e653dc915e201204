package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/focusforge/focusforge/internal/plan"
	"github.com/focusforge/focusforge/internal/session"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginTop(1)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(2)
)

func renderSummary(summary session.Summary) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(summary.GoalInferred))
	b.WriteString("\n")
	b.WriteString(itemStyle.Render(summary.ResumeSummary))
	b.WriteString("\n")

	if len(summary.Workspaces) > 0 {
		b.WriteString(sectionStyle.Render("Workspaces"))
		b.WriteString("\n")
		for _, ws := range summary.Workspaces {
			line := fmt.Sprintf("%s %s", labelStyle.Render(ws.Label), mutedStyle.Render(durationLabel(ws.TimeSec)))
			b.WriteString(itemStyle.Render(line))
			b.WriteString("\n")
		}
	}

	b.WriteString(sectionStyle.Render("Last stop"))
	b.WriteString("\n")
	b.WriteString(itemStyle.Render(fmt.Sprintf("%s %s", summary.LastStop.Label, mutedStyle.Render(summary.LastStop.URL))))
	b.WriteString("\n")

	if len(summary.NextActions) > 0 {
		b.WriteString(sectionStyle.Render("Next actions"))
		b.WriteString("\n")
		for _, action := range summary.NextActions {
			b.WriteString(itemStyle.Render("• " + action))
			b.WriteString("\n")
		}
	}

	if len(summary.PendingDecisions) > 0 {
		b.WriteString(sectionStyle.Render("Pending decisions"))
		b.WriteString("\n")
		for _, decision := range summary.PendingDecisions {
			b.WriteString(itemStyle.Render("• " + decision))
			b.WriteString("\n")
		}
	}

	if summary.AIRecap != "" {
		b.WriteString(sectionStyle.Render("Recap"))
		b.WriteString("\n")
		b.WriteString(itemStyle.Render(summary.AIRecap))
		b.WriteString("\n")
		for _, action := range summary.AIActions {
			b.WriteString(itemStyle.Render("• " + action))
			b.WriteString("\n")
		}
		if summary.AIConfidenceScore != nil {
			confidence := fmt.Sprintf("confidence %.2f (%s)", *summary.AIConfidenceScore, summary.AIConfidenceLabel)
			b.WriteString(itemStyle.Render(mutedStyle.Render(confidence)))
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func renderPlan(taskPlan plan.TaskPlan) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Task plan"))
	b.WriteString("\n")

	for i, task := range taskPlan.PrioritizedTasks {
		b.WriteString(itemStyle.Render(fmt.Sprintf("%d. %s", i+1, labelStyle.Render(task.Title))))
		b.WriteString("\n")
		meta := fmt.Sprintf("%s priority, %s, %s", task.Priority, task.Urgency, task.EstimatedTime)
		b.WriteString(itemStyle.Render(mutedStyle.Render(meta)))
		b.WriteString("\n")
		if task.Description != "" {
			b.WriteString(itemStyle.Render(task.Description))
			b.WriteString("\n")
		}
	}

	if len(taskPlan.Suggestions) > 0 {
		b.WriteString(sectionStyle.Render("Suggestions"))
		b.WriteString("\n")
		for _, suggestion := range taskPlan.Suggestions {
			b.WriteString(itemStyle.Render("• " + suggestion))
			b.WriteString("\n")
		}
	}

	if len(taskPlan.Insights) > 0 {
		b.WriteString(sectionStyle.Render("Insights"))
		b.WriteString("\n")
		for _, insight := range taskPlan.Insights {
			b.WriteString(itemStyle.Render("• " + insight))
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func durationLabel(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	return fmt.Sprintf("%dm", (seconds+30)/60)
}
