// Package duplicate decides whether a new complaint describes an incident
// already on file for the same bus route and calendar day.
package duplicate

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/bus-complaint-service/internal/repository"
)

// Detector checks new complaints against stored ones.
type Detector struct {
	complaints repository.ComplaintRepository
}

// NewDetector constructs a detector over the complaint store.
func NewDetector(complaints repository.ComplaintRepository) *Detector {
	return &Detector{complaints: complaints}
}

// IsDuplicate reports whether a complaint with the given description already
// exists for the route on the incident's calendar day. Matching is a
// case-insensitive bidirectional substring test: a truncated or expanded
// rephrasing of an existing description counts as the same incident. The
// time-of-day component of incidentDate is ignored.
//
// An empty description is never considered a duplicate: the empty string is
// a substring of everything, so without this guard it would suppress every
// submission on a day with any prior complaint. Callers are expected to have
// validated the date already.
func (d *Detector) IsDuplicate(ctx context.Context, route string, incidentDate time.Time, description string) (bool, error) {
	normalized := normalize(description)
	if !eligible(normalized) {
		return false, nil
	}

	day := Midnight(incidentDate)
	candidates, err := d.complaints.ListByRouteAndDay(ctx, route, day)
	if err != nil {
		return false, err
	}

	for _, candidate := range candidates {
		existing := normalize(candidate.Description)
		if !eligible(existing) {
			continue
		}
		if strings.Contains(existing, normalized) || strings.Contains(normalized, existing) {
			return true, nil
		}
	}
	return false, nil
}

// Midnight truncates a timestamp to the start of its calendar day in UTC,
// the form incident dates are stored in.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Case folding only; the matching rule applies no whitespace normalization.
func normalize(s string) string {
	return strings.ToLower(s)
}

// Blank descriptions take no part in duplicate suppression, in either
// direction.
func eligible(normalized string) bool {
	return strings.TrimSpace(normalized) != ""
}
