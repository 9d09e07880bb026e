package services

import "errors"

var (
	// ErrInvalidInput marks caller errors: missing or malformed identifiers.
	ErrInvalidInput = errors.New("invalid input")
	// ErrCourseNotFound is returned by the unit accessor for an unknown course.
	ErrCourseNotFound = errors.New("course not found")
	// ErrDependency marks a failed collaborator (catalog, personality lookup).
	ErrDependency = errors.New("dependency failure")
)
