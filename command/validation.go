package command

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// checkNumberOfArguments checks that the number of positional arguments
// falls in [min, max]. A negative max means "no upper limit".
func checkNumberOfArguments(ctx *cli.Context, min, max int) error {
	l := ctx.Args().Len()
	if l < min {
		return fmt.Errorf("expected at least %d arguments but was given %d: %q", min, l, ctx.Args().Slice())
	}
	if max >= 0 && l > max {
		return fmt.Errorf("expected at most %d arguments but was given %d: %q", max, l, ctx.Args().Slice())
	}
	return nil
}
