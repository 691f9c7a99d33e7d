package vote

import "github.com/google/uuid"

// CandidateTally is one candidate's vote count within a position. Candidates
// with zero votes still appear with a count of 0.
type CandidateTally struct {
	CandidateID  uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ImageURL     string    `json:"image_url,omitempty"`
	VoteCount    int64     `json:"vote_count"`
	DisplayOrder int       `json:"-"`
}

// PositionResult groups tallies strictly within one position, ordered by vote
// count descending with display order as the stable tie-breaker.
type PositionResult struct {
	PositionID uuid.UUID        `json:"position_id"`
	Title      string           `json:"position_title"`
	Zone       string           `json:"zone"`
	Candidates []CandidateTally `json:"candidates"`
}

// Statistics carries the aggregate counters shown on dashboards. Turnout is a
// derived display value (voted/total), not stored.
type Statistics struct {
	TotalDelegates  int64 `json:"total_delegates"`
	VotedDelegates  int64 `json:"voted_delegates"`
	TotalCandidates int64 `json:"total_candidates"`
	TotalVotes      int64 `json:"total_votes"`
}
