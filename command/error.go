package command

import (
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/peak/gosort/log"
	"github.com/peak/gosort/xerrors"
)

// printError logs err, unwrapping an aggregated *multierror.Error (the
// run subcommand reports per-line failures this way) into one log line
// per underlying cause.
func printError(op string, err error) {
	if xerrors.IsCancelation(err) {
		return
	}

	if merr, ok := err.(*multierror.Error); ok {
		for _, sub := range merr.Errors {
			log.Error(log.ErrorMessage{Operation: op, Err: cleanupError(sub)})
		}
		return
	}

	log.Error(log.ErrorMessage{Operation: op, Err: cleanupError(err)})
}

// cleanupError converts a multiline error message into a single line.
func cleanupError(err error) string {
	s := strings.ReplaceAll(err.Error(), "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.ReplaceAll(s, "  ", " ")
	return strings.TrimSpace(s)
}
