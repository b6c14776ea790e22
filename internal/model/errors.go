package model

import "errors"

// Classified error kinds. ErrMalformedInput aborts a run before any
// rule is processed; every other kind fails a single rule and the run
// continues with the next one.
var (
	ErrMalformedInput      = errors.New("malformed input document")
	ErrMissingReference    = errors.New("missing object reference")
	ErrResolutionCycle     = errors.New("object group cycle")
	ErrUnsupportedMethod   = errors.New("unsupported NAT method")
	ErrConstraintViolation = errors.New("constraint violation")
)
