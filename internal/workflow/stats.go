// Package workflow derives queue statistics from a set of entities.
package workflow

import "kycflow/internal/onboarding/models"

// Stats is a point-in-time snapshot of the onboarding queues.
type Stats struct {
	Counts     map[models.Status]int `json:"counts"`
	Total      int                   `json:"total"`
	AIApproved int                   `json:"ai_approved"`
}

// Snapshot counts entities per status. Every status is present, including
// those with no entities.
func Snapshot(entities []*models.Entity) Stats {
	stats := Stats{Counts: make(map[models.Status]int, len(models.Statuses()))}
	for _, s := range models.Statuses() {
		stats.Counts[s] = 0
	}
	for _, e := range entities {
		stats.Counts[e.Status]++
		stats.Total++
		if e.Status == models.StatusApproved && e.ApprovedBy == models.ApprovedByAutomatedAgent {
			stats.AIApproved++
		}
	}
	return stats
}

// Count returns the number of entities in a status.
func (s Stats) Count(status models.Status) int {
	return s.Counts[status]
}
