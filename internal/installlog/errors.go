package installlog

import "errors"

var (
	// ErrInvalidOwner indicates an owner ID that cannot be stored.
	ErrInvalidOwner = errors.New("invalid owner")

	// ErrInvalidRecord indicates a record with missing fields.
	ErrInvalidRecord = errors.New("invalid record")
)
