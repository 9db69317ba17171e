// Package common defines sentinel errors shared by repositories, services
// and the HTTP layer. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrAlreadyExists    = errors.New("already exists")
	ErrMissingReference = errors.New("references a missing row")
	ErrUnknownTable     = errors.New("unknown table")
	ErrUnknownReport    = errors.New("unknown report")
	ErrInvalidSource    = errors.New("source is not a JSON array")
	ErrUnsupportedType  = errors.New("unsupported row type")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrUnknownFormat = errors.New("unknown output format")
)
