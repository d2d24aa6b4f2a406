package registry

import "errors"

// Registry errors
var (
	ErrNotFound            = errors.New("registry entry not found")
	ErrInvalidDescription  = errors.New("invalid widget description")
	ErrDuplicateWidget     = errors.New("duplicate widget qualified name")
	ErrDuplicateCategory   = errors.New("duplicate category name")
	ErrUnknownCategory     = errors.New("widget references unknown category")
	ErrDuplicateChannel    = errors.New("duplicate channel name")
	ErrChannelNotFound     = errors.New("channel not found")
	ErrAmbiguousChannel    = errors.New("ambiguous channel name")
	ErrEmptyQualifiedName  = errors.New("widget qualified name cannot be empty")
	ErrEmptyCategoryName   = errors.New("category name cannot be empty")
	ErrNoRegistrationFiles = errors.New("no widget registrations found")
)
