package errors

import (
	"errors"
	"fmt"
)

// Custom application errors
var (
	ErrValidation        = errors.New("validation failed")                     // Rejected user input; nothing was created or changed
	ErrInvalidDateTime   = errors.New("invalid date/time")                     // Unparseable or out-of-range scheduled time
	ErrDatabaseOperation = errors.New("database operation failed")             // Load/save against the backing store failed
	ErrCorruptStore      = errors.New("reminder store is corrupt")             // Backing file exists but cannot be decoded
	ErrScheduling        = errors.New("scheduling failed")                     // Cron job registration failed
	ErrInternalServer    = errors.New("internal server error")                 // Generic internal error
	ErrEmptyNote         = fmt.Errorf("%w: note must not be empty", ErrValidation)
	ErrUnknownCategory   = fmt.Errorf("%w: unknown category", ErrValidation)
	ErrInvalidSnooze     = fmt.Errorf("%w: snooze minutes out of range", ErrValidation)
)
