package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
)

// commandFromContext reconstructs the invocation string for c, including
// every flag explicitly set and the positional arguments, for use in log
// messages.
func commandFromContext(c *cli.Context) string {
	cmd := c.Command.FullName()
	if cmd == "" {
		cmd = c.App.Name
	}

	for _, f := range c.App.Flags {
		flagname := f.Names()[0]
		for _, flagvalue := range contextValue(c, flagname) {
			cmd = fmt.Sprintf("%s --%s=%v", cmd, flagname, flagvalue)
		}
	}

	if c.Args().Len() > 0 {
		cmd = fmt.Sprintf("%v %v", cmd, strings.Join(c.Args().Slice(), " "))
	}

	return cmd
}

// contextValue traverses c and its ancestor contexts to find flagname's
// value and returns it as a string slice (possibly multi-valued for
// slice flags).
func contextValue(c *cli.Context, flagname string) []string {
	for _, ctx := range c.Lineage() {
		if !ctx.IsSet(flagname) {
			continue
		}

		val := ctx.Value(flagname)
		switch val.(type) {
		case cli.StringSlice:
			return ctx.StringSlice(flagname)
		case cli.Int64Slice, cli.IntSlice:
			values := ctx.Int64Slice(flagname)
			var result []string
			for _, v := range values {
				result = append(result, strconv.FormatInt(v, 10))
			}
			return result
		case string:
			return []string{ctx.String(flagname)}
		case bool:
			return []string{strconv.FormatBool(ctx.Bool(flagname))}
		case int, int64:
			return []string{strconv.FormatInt(ctx.Int64(flagname), 10)}
		default:
			return []string{fmt.Sprintf("%v", val)}
		}
	}

	return nil
}
