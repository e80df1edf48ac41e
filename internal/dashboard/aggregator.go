// Package dashboard turns a visible task set into the counts and breakdowns
// the dashboard charts are drawn from.
package dashboard

import (
	"sort"

	"github.com/taskdept/taskdept/internal/constants"
	"github.com/taskdept/taskdept/internal/models"
)

// StatusCount is one slice of the status chart.
type StatusCount struct {
	Status models.TaskStatus `json:"status"`
	Count  int               `json:"count"`
}

// AssigneeCount is one bar of the assignment chart.
type AssigneeCount struct {
	Username string `json:"username"`
	Count    int    `json:"count"`
}

// Totals are the headline stat cards.
type Totals struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"in_progress"`
	Overdue    int `json:"overdue"`
}

// Summary is the full dashboard payload. Degraded marks a fallback summary
// served while the store is unreachable; real data never carries the flag.
type Summary struct {
	StatusCounts []StatusCount   `json:"status_counts"`
	TopAssignees []AssigneeCount `json:"top_assignees"`
	Totals       Totals          `json:"totals"`
	Degraded     bool            `json:"degraded"`
}

// Summarize aggregates tasks in a single pass. Status entries appear in
// first-seen order, which the chart legend mirrors. Assignees are ranked by
// count descending, ties kept in first-seen order, truncated to the top 5.
// An empty input produces a zero summary; no placeholder data is invented.
func Summarize(tasks []models.Task) Summary {
	summary := Summary{
		StatusCounts: []StatusCount{},
		TopAssignees: []AssigneeCount{},
	}

	statusIndex := make(map[models.TaskStatus]int)
	assigneeIndex := make(map[uint64]int)

	for _, task := range tasks {
		if i, ok := statusIndex[task.Status]; ok {
			summary.StatusCounts[i].Count++
		} else {
			statusIndex[task.Status] = len(summary.StatusCounts)
			summary.StatusCounts = append(summary.StatusCounts, StatusCount{Status: task.Status, Count: 1})
		}

		if i, ok := assigneeIndex[task.AssignedTo]; ok {
			summary.TopAssignees[i].Count++
		} else {
			assigneeIndex[task.AssignedTo] = len(summary.TopAssignees)
			summary.TopAssignees = append(summary.TopAssignees, AssigneeCount{
				Username: task.Assignee.Username,
				Count:    1,
			})
		}

		summary.Totals.Total++
		switch task.Status {
		case models.TaskStatusCompleted:
			summary.Totals.Completed++
		case models.TaskStatusInProgress:
			summary.Totals.InProgress++
		case models.TaskStatusOverdue:
			summary.Totals.Overdue++
		}
	}

	sort.SliceStable(summary.TopAssignees, func(i, j int) bool {
		return summary.TopAssignees[i].Count > summary.TopAssignees[j].Count
	})
	if len(summary.TopAssignees) > constants.TopAssigneeLimit {
		summary.TopAssignees = summary.TopAssignees[:constants.TopAssigneeLimit]
	}

	return summary
}

// Sample returns the fixed degraded-mode summary served when the store is
// unreachable and the fallback is enabled. It is always marked Degraded so a
// caller can never mistake it for real data.
func Sample() Summary {
	return Summary{
		StatusCounts: []StatusCount{
			{Status: models.TaskStatusCompleted, Count: 12},
			{Status: models.TaskStatusInProgress, Count: 8},
			{Status: models.TaskStatusPending, Count: 5},
			{Status: models.TaskStatusOverdue, Count: 3},
		},
		TopAssignees: []AssigneeCount{
			{Username: "alice", Count: 9},
			{Username: "bob", Count: 7},
			{Username: "carol", Count: 6},
			{Username: "dave", Count: 4},
			{Username: "erin", Count: 2},
		},
		Totals:   Totals{Total: 28, Completed: 12, InProgress: 8, Overdue: 3},
		Degraded: true,
	}
}
