package services

import (
	"slices"
	"time"

	"aqualink/internal/core/domain/model/coverage"
	"aqualink/internal/core/domain/model/kernel"
)

// Candidate is an open quote request considered for a provider: the request, its
// response deadline and the destination of the order behind it.
type Candidate struct {
	RequestID   kernel.UUID
	OrderID     kernel.UUID
	Destination kernel.Area
	Deadline    time.Time
}

// QuoteMatcher filters candidates down to those a provider may bid on.
//
// Business rules:
//   - An unavailable provider, or one without coverage, sees nothing
//   - A candidate matches when its destination is a member of the coverage set
//   - Candidates whose deadline has passed are dropped even if still stored OPEN
//   - The result is ordered by request id ascending
//
// Exclusion of requests the provider already quoted happens before matching, in
// the candidate query, where a unique index backs it.
type QuoteMatcher struct{}

func NewQuoteMatcher() QuoteMatcher {
	return QuoteMatcher{}
}

// Match returns the matching candidates. cov may be nil.
func (QuoteMatcher) Match(cov *coverage.Coverage, candidates []Candidate, now time.Time) []Candidate {
	if cov == nil || !cov.IsAvailable() {
		return []Candidate{}
	}

	matched := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if !now.Before(c.Deadline) {
			continue
		}
		if !cov.Covers(c.Destination) {
			continue
		}
		matched = append(matched, c)
	}

	slices.SortFunc(matched, func(a, b Candidate) int {
		switch {
		case a.RequestID.Less(b.RequestID):
			return -1
		case b.RequestID.Less(a.RequestID):
			return 1
		default:
			return 0
		}
	})
	return matched
}
