package disk

import (
	"errors"
	"fmt"
	"io/fs"
)

// component tags every classified error with the writer that produced it.
const component = "LogFile"

var (
	// ErrAlreadyOpened is returned by a second Open on the same LogFile.
	ErrAlreadyOpened = errors.New("log file already opened")
	// ErrNotOpened is the panic value for writes before Open or after Close.
	ErrNotOpened = errors.New("log file not opened")
)

// Kind groups classified failures by the stage that produced them.
type Kind int

const (
	KindOpen Kind = iota + 1
	KindWrite
	KindTruncate
	KindEncode
	KindDestroy
)

func (k Kind) String() string {
	switch k {
	case KindOpen:
		return "open"
	case KindWrite:
		return "write"
	case KindTruncate:
		return "truncate"
	case KindEncode:
		return "encode"
	case KindDestroy:
		return "destroy"
	default:
		return "unknown"
	}
}

// Error is a classified log file failure. ShouldBail is only ever set on
// open failures caused by permission-style conditions; callers should stop
// retrying and surface those to the operator.
type Error struct {
	Kind       Kind
	Op         string
	Path       string
	Component  string
	ShouldBail bool
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s failed (%s %s): %v", e.Component, e.Kind, e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// classify wraps a low-level failure. Only the descriptor open step can be
// flagged should-bail; mkdir and read failures stay retryable.
func classify(kind Kind, op, path string, err error) *Error {
	e := &Error{
		Kind:      kind,
		Op:        op,
		Path:      path,
		Component: component,
		Err:       err,
	}
	if kind == KindOpen && op == "open" && isPermission(err) {
		e.ShouldBail = true
	}
	return e
}

func isPermission(err error) bool {
	return errors.Is(err, fs.ErrPermission) || isReadOnlyFS(err)
}

// IsShouldBail reports whether err carries a classified should-bail failure.
func IsShouldBail(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.ShouldBail
}

// KindOf returns the classification of err, or 0 if it was never classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
