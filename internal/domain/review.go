package domain

import "time"

// reviewOffsets is the forgetting-curve table: the offset applied after
// the nth completed review. Past the table, the last interval repeats.
var reviewOffsets = []time.Duration{
	1 * 24 * time.Hour,
	3 * 24 * time.Hour,
	7 * 24 * time.Hour,
	14 * 24 * time.Hour,
}

// NextReviewDate computes when a mistake should next be reviewed, given
// how many reviews have already happened and when the last one was.
// Pure function: no I/O, no clock reads.
func NextReviewDate(lastReviewed time.Time, reviewCount int) time.Time {
	idx := reviewCount - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(reviewOffsets) {
		idx = len(reviewOffsets) - 1
	}
	return lastReviewed.Add(reviewOffsets[idx])
}

// NextReviewForMistake applies the forgetting curve to a mistake.
// Mistakes never reviewed are scheduled from their creation time.
func NextReviewForMistake(m *Mistake) time.Time {
	base := m.CreatedAt
	if m.LastReviewedAt != nil {
		base = *m.LastReviewedAt
	}
	return NextReviewDate(base, m.ReviewCount)
}
