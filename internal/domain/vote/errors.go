package vote

import "errors"

// Failure taxonomy for ballot submission. Handlers map these to HTTP status
// codes; anything else is treated as a storage failure and surfaced as a
// server error.
var (
	// ErrDelegateNotFound means the token or delegate reference does not
	// resolve to a record.
	ErrDelegateNotFound = errors.New("delegate not found")

	// ErrAlreadyVoted means the delegate has already completed a submission.
	// Kept distinct from ErrDelegateNotFound so the UI can show "already
	// voted" instead of "invalid token".
	ErrAlreadyVoted = errors.New("delegate has already voted")

	// ErrEmptyBallot means the ballot carried no choices at all.
	ErrEmptyBallot = errors.New("ballot contains no choices")

	// ErrInvalidChoice means a choice references an unknown candidate or a
	// candidate that does not belong to the chosen position.
	ErrInvalidChoice = errors.New("invalid candidate choice")
)
