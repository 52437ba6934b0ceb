package scheduler

import "errors"

var (
	// ErrInvalidConfig is returned when a job schedule cannot be parsed
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrJobNotFound is returned when a job is not registered
	ErrJobNotFound = errors.New("job not found")

	// ErrJobRunning is returned when a manual run overlaps a running job
	ErrJobRunning = errors.New("job is already running")

	// ErrDuplicateJob is returned when two jobs share a name
	ErrDuplicateJob = errors.New("job already registered")
)
