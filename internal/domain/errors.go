package domain

import "errors"

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrNotValid is returned when a request or resource is not valid.
	ErrNotValid = errors.New("not valid")
	// ErrBatchBusy is returned when a run is requested for a batch that
	// already holds an active processing lease.
	ErrBatchBusy = errors.New("batch is already being processed")
)
