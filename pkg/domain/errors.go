package domain

import "errors"

// ErrEmptyTrace is recorded when an adapter produced no steps for an input.
var ErrEmptyTrace = errors.New("adapter produced an empty trace")

// ErrAdapterFailed is recorded when an adapter panicked while generating a trace.
var ErrAdapterFailed = errors.New("adapter failed")

// ErrInvalidSpeed is returned when a non-positive or non-finite speed is requested.
var ErrInvalidSpeed = errors.New("speed must be a positive number")

// ErrProblemNotFound is returned when a problem ID is not registered.
var ErrProblemNotFound = errors.New("problem not found")

// ErrSessionNotFound is returned when a session ID cannot be found.
var ErrSessionNotFound = errors.New("session not found")

// ErrProgressNotFound is returned when a profile has no stored progress.
var ErrProgressNotFound = errors.New("progress not found")

// ErrTestCaseNotFound is returned when a preset index is out of range.
var ErrTestCaseNotFound = errors.New("test case not found")
