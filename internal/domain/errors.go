package domain

import "errors"

var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrBadDocument indicates the fetched document is not a valid XMLTV guide
	ErrBadDocument = errors.New("invalid guide document")

	// ErrConnection indicates a connection failure
	ErrConnection = errors.New("connection failed")

	// ErrTimeout indicates an operation timeout
	ErrTimeout = errors.New("timeout")

	// ErrUnavailable indicates no guide data has been loaded yet
	ErrUnavailable = errors.New("guide unavailable")
)
