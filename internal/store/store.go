package store

import "errors"

var (
	// ErrNotFound is returned for an unknown session id or a question
	// index outside the session's pair list.
	ErrNotFound = errors.New("not found")

	// ErrInvalidIndex is returned for an out-of-sequence submission:
	// answers must arrive strictly in index order, with no skipping and
	// no resubmission.
	ErrInvalidIndex = errors.New("answer index out of sequence")

	// ErrIncomplete is returned when a summary is requested before every
	// question has a recorded answer.
	ErrIncomplete = errors.New("session incomplete")
)
