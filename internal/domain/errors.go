package domain

import (
	"errors"
	"fmt"
)

// ErrTransport covers network errors, timeouts, undecodable bodies and non-2xx replies.
var ErrTransport = errors.New("places: transport failure")

// ErrNothingToExport is returned when a batch has no rows left to write.
var ErrNothingToExport = errors.New("no data to export")

type HTTPStatusError struct {
	Code int
	Body string
}

func (e *HTTPStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("places: bad status %d", e.Code)
	}
	return fmt.Sprintf("places: bad status %d: %s", e.Code, e.Body)
}

func (e *HTTPStatusError) Is(target error) bool { return target == ErrTransport }

// APIStatusError is a well-formed reply whose status field is not "OK".
type APIStatusError struct {
	Status  string
	Message string
}

func (e *APIStatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "Unknown error"
	}
	return fmt.Sprintf("places: %s - %s", e.Status, msg)
}
