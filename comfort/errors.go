package comfort

import "errors"

// Usage errors. Physically implausible observations never produce an error;
// they evaluate to NaN instead.
var (
	ErrLengthMismatch  = errors.New("input sequences must have equal length")
	ErrUnknownUnits    = errors.New("unknown unit system")
	ErrUnknownPosture  = errors.New("unknown body position")
	ErrUnknownStandard = errors.New("unknown comfort standard")
	ErrInvalidParams   = errors.New("invalid body parameters")
	ErrInvalidWorkers  = errors.New("workers must not be negative")
)
