// Package aggregate summarizes quality reports across a batch.
package aggregate

import (
	"slices"

	"dqengine/internal/quality/models"
)

const (
	// TopIssueLimit caps the number of rows TopIssues returns.
	TopIssueLimit = 10
	// PassThreshold is the minimum score a record needs to count as passed.
	PassThreshold = 0.7
)

// TopIssues counts each distinct issue across reports and returns the most
// frequent first. Equal counts keep the order in which the issue was first
// seen. At most TopIssueLimit rows are returned; the slice is never nil.
func TopIssues(reports []models.QualityReport) []models.IssueCount {
	counts := []models.IssueCount{}
	position := make(map[string]int)
	for _, r := range reports {
		for _, issue := range r.Issues {
			i, ok := position[issue]
			if !ok {
				i = len(counts)
				position[issue] = i
				counts = append(counts, models.IssueCount{Issue: issue})
			}
			counts[i].Count++
		}
	}

	slices.SortStableFunc(counts, func(a, b models.IssueCount) int {
		return b.Count - a.Count
	})
	if len(counts) > TopIssueLimit {
		counts = counts[:TopIssueLimit]
	}
	return counts
}

// Summarize builds the batch summary for results.
func Summarize(results []models.BatchResult) models.BatchSummary {
	reports := make([]models.QualityReport, len(results))
	summary := models.BatchSummary{TotalRecords: len(results)}

	var total float64
	for i, r := range results {
		reports[i] = r.Report
		total += r.Report.Score
		if r.Report.Score >= PassThreshold {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}
	if len(results) > 0 {
		summary.AverageScore = total / float64(len(results))
	}
	summary.TopIssues = TopIssues(reports)
	return summary
}
