// Package xerrors implements the error taxonomy used by the sort engine:
// a small set of Kinds (input I/O, output I/O, tmp-file, compressor,
// invariant violation) wrapped with github.com/hashicorp/go-multierror so
// callers can aggregate several failures without losing the individual
// causes.
package xerrors

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Kind classifies a fatal error without committing to its exact message,
// matching the taxonomy in the error-handling design: input I/O, output
// I/O, tmp-file, compressor, and logic-invariant violations.
type Kind int

const (
	// KindInputIO is a failure reading from an input stream.
	KindInputIO Kind = iota
	// KindOutputIO is a failure writing to the sink or a run file.
	KindOutputIO
	// KindTmp is a failure creating or cleaning up the scratch directory.
	KindTmp
	// KindCompressor is a failure launching or waiting on a compressor child.
	KindCompressor
	// KindInvariant marks a logic invariant violation; always fatal.
	KindInvariant
)

func (k Kind) String() string {
	switch k {
	case KindInputIO:
		return "input"
	case KindOutputIO:
		return "output"
	case KindTmp:
		return "tmp"
	case KindCompressor:
		return "compressor"
	case KindInvariant:
		return "invariant"
	default:
		return "unknown"
	}
}

// Error is the engine's concrete error type. Op names the operation that
// failed (e.g. "read", "merge", "spill") for diagnostic messages.
type Error struct {
	Kind     Kind
	Op       string
	Original error
}

func New(kind Kind, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Original: cause}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Original)
}

func (e *Error) Unwrap() error {
	return e.Original
}

// IsCancelation reports whether err is, or aggregates, a context
// cancellation. The run subcommand aggregates per-line errors through
// go-multierror, so this walks *multierror.Error the same way the
// teacher's log package did for S3 operation errors.
func IsCancelation(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return true
	}

	merr, ok := err.(*multierror.Error)
	if !ok {
		return false
	}

	for _, sub := range merr.Errors {
		if IsCancelation(sub) {
			return true
		}
	}

	return false
}

// Append aggregates errs into a single *multierror.Error, dropping nils,
// and returns nil if nothing was appended.
func Append(errs ...error) error {
	var merr *multierror.Error
	for _, err := range errs {
		if err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	return merr.ErrorOrNil()
}
