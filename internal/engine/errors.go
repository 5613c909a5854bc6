package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOperation is the kind shared by every rejected command.
	ErrInvalidOperation = errors.New("invalid operation")

	ErrInvalidStage = fmt.Errorf("%w: not allowed in current stage", ErrInvalidOperation)
	ErrUnavailable  = fmt.Errorf("%w: question or theme not available", ErrInvalidOperation)
	ErrEmptyHistory = fmt.Errorf("%w: nothing to move back to", ErrInvalidOperation)
	ErrNoRound      = fmt.Errorf("%w: no such round", ErrInvalidOperation)

	ErrClosed = errors.New("engine closed")
)
