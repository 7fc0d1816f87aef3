package errors

import (
	"errors"
	"fmt"
)

// indicates an unrecoverable error
var ErrPermanentFailure = errors.New("permanent failure, do not retry")

// Kind classifies a failure by what the caller can do about it.
type Kind int

const (
	Unknown Kind = iota
	Network
	Auth
	UnsupportedFormat
	Provider
	Config
)

func (k Kind) String() string {
	switch k {
	case Network:
		return "network"
	case Auth:
		return "auth"
	case UnsupportedFormat:
		return "unsupported_format"
	case Provider:
		return "provider"
	case Config:
		return "config"
	default:
		return "unknown"
	}
}

// Error tags an underlying cause with a Kind. Op names the upstream call
// that failed, e.g. "mistral upload".
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports auth and unsupported-format failures as permanent.
func (e *Error) Is(target error) bool {
	return target == ErrPermanentFailure && (e.Kind == Auth || e.Kind == UnsupportedFormat)
}

// KindOf returns the kind of the first tagged error in err's chain.
func KindOf(err error) Kind {
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.Kind
	}
	return Unknown
}

// KindForStatus maps an upstream HTTP status code onto a Kind.
func KindForStatus(code int) Kind {
	switch code {
	case 401, 403:
		return Auth
	case 400, 415, 422:
		return UnsupportedFormat
	default:
		return Provider
	}
}

// ExitCode maps err onto the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch KindOf(err) {
	case Config:
		return 2
	case Network:
		return 3
	case Auth:
		return 4
	case UnsupportedFormat:
		return 5
	case Provider:
		return 6
	default:
		return 1
	}
}
