package ports

import "github.com/bft-labs/boxcar/pkg/log"

// Logger is the structured logging port. It is the public pkg/log interface
// re-exported for the application layer.
type Logger = log.Logger

// Field is a structured logging key-value pair.
type Field = log.Field

// Field constructors re-exported from pkg/log.
var (
	String   = log.String
	Int      = log.Int
	Int64    = log.Int64
	Bool     = log.Bool
	Duration = log.Duration
	Err      = log.Err
	Any      = log.Any
)
