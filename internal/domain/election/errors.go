package election

import "errors"

// ErrPositionNotFound is returned when a position id does not exist.
var ErrPositionNotFound = errors.New("position not found")

// ErrCandidateNotFound is returned when a candidate id does not exist.
var ErrCandidateNotFound = errors.New("candidate not found")
