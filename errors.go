package folio

import (
	"errors"
	"fmt"
)

// Kinds of failure reported by this package. Use errors.Is to select on them.
var (
	ErrInvalidTicker         = errors.New("invalid ticker")
	ErrNotYetListed          = errors.New("not yet listed")
	ErrFutureDate            = errors.New("future date")
	ErrDelisted              = errors.New("delisted")
	ErrMarketClosed          = errors.New("market closed")
	ErrNoValueInRange        = errors.New("no value in range")
	ErrNoLaterDatesAvailable = errors.New("no later dates available")
	ErrUnknownPortfolio      = errors.New("unknown portfolio")
	ErrDuplicateName         = errors.New("duplicate portfolio name")
	ErrImmutablePortfolio    = errors.New("immutable portfolio")
	ErrInsufficientShares    = errors.New("insufficient shares")
	ErrFutureSaleConflict    = errors.New("future sale conflict")
	ErrUnsupportedUnit       = errors.New("unsupported unit")
	ErrInvalidRange          = errors.New("invalid range")
	ErrInvalidLength         = errors.New("invalid length")
	ErrInvalidRepetitions    = errors.New("invalid repetitions")
	ErrInvalidName           = errors.New("invalid portfolio name")
)

// Error is a validation failure. Its message is meant for end users, its Kind
// is one of the Err* values above.
type Error struct {
	Kind  error
	Msg   string
	Cause error // optional underlying error
}

func (e *Error) Error() string { return e.Msg }

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// failf returns an *Error of the given kind with a formatted message.
func failf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
