package quantity

import "errors"

var (
	// ErrUnknownItem is returned when a quantity is set for an id that is not one of the engine's items.
	ErrUnknownItem = errors.New("unknown item")
	// ErrUnknownMode is returned when a mode string does not name a supported mode.
	ErrUnknownMode = errors.New("unknown quantity mode")
)
