package core

import "errors"

// ErrCorruptState marks a persisted value that exists but cannot be decoded
// into a course list. Callers hydrating a catalog should treat it as "no
// data" rather than letting the decode failure propagate.
var ErrCorruptState = errors.New("persisted course list is corrupt")

// ErrExportNotFound marks a missing export document.
var ErrExportNotFound = errors.New("export not found")

// ValidationError reports the required form fields that were missing or
// blank on a create request.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) == 0 {
		return "invalid course"
	}
	msg := "missing required fields:"
	for _, f := range e.Missing {
		msg += " " + f
	}
	return msg
}
