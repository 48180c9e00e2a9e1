package command

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/peak/gosort/log"
	"github.com/peak/gosort/parallel"
	"github.com/peak/gosort/parallel/fdlimit"
)

const appName = "gosort"

var app = &cli.App{
	Name:                 appName,
	Usage:                "external merge sort over bounded memory",
	EnableBashCompletion: true,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "write result to FILE instead of stdout",
		},
		&cli.StringFlag{
			Name:    "buffer-size",
			Aliases: []string{"S"},
			Usage:   "in-memory chunk size cap, accepts K/M/G suffixes",
			Value:   defaultBufferSize,
		},
		&cli.StringFlag{
			Name:    "field-separator",
			Aliases: []string{"t"},
			Usage:   "record/field separator byte, default newline",
		},
		&cli.BoolFlag{
			Name:    "zero-terminated",
			Aliases: []string{"z"},
			Usage:   "records are NUL-terminated instead of newline-terminated",
		},
		&cli.BoolFlag{
			Name:    "unique",
			Aliases: []string{"u"},
			Usage:   "suppress adjacent records that compare equal",
		},
		&cli.BoolFlag{
			Name:    "reverse",
			Aliases: []string{"r"},
			Usage:   "reverse the comparison result",
		},
		&cli.BoolFlag{
			Name:    "numeric-sort",
			Aliases: []string{"n"},
			Usage:   "compare keys as numbers",
		},
		&cli.StringSliceFlag{
			Name:    "key",
			Aliases: []string{"k"},
			Usage:   "key field spec F[.C][,F[.C]] (subset of coreutils -k syntax)",
		},
		&cli.StringFlag{
			Name:    "temporary-directory",
			Aliases: []string{"T"},
			Usage:   "directory for scratch run files, default the system temp directory",
		},
		&cli.StringFlag{
			Name:  "compress-prog",
			Usage: "external program to compress/decompress run files",
		},
		&cli.BoolFlag{
			Name:  "compress",
			Usage: "compress run files with the built-in gzip codec",
		},
		&cli.IntFlag{
			Name:  "max-merge-fanin",
			Usage: "maximum number of runs merged at once before recursing",
			Value: defaultMergeFanIn,
		},
		&cli.IntFlag{
			Name:  "parallel",
			Usage: "sorter worker hint, reserved: the core engine always uses one sorter goroutine",
			Value: 1,
		},
		&cli.StringFlag{
			Name:  "files0-from",
			Usage: "read NUL-separated input paths from FILE (\"-\" for stdin)",
		},
		&cli.BoolFlag{
			Name:  "stat",
			Usage: "print engine statistics on exit",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "render log/stat output as JSON",
		},
		&cli.GenericFlag{
			Name: "log",
			Value: &EnumValue{
				Enum:    []string{"debug", "info", "warning", "error"},
				Default: "info",
			},
			Usage: "log level: (debug, info, warning, error)",
		},
	},
	Before: func(c *cli.Context) error {
		log.Init(c.String("log"), c.Bool("json"))
		parallel.Init(1)

		if err := fdlimit.Raise(); err != nil {
			log.Warning(log.ErrorMessage{Operation: "raise-fd-limit", Err: err.Error()})
		}

		if n := c.Int("parallel"); n < 1 {
			err := fmt.Errorf("--parallel must be at least 1")
			printError(commandFromContext(c), err)
			return err
		}
		if n := c.Int("max-merge-fanin"); n < 2 {
			err := fmt.Errorf("--max-merge-fanin must be at least 2")
			printError(commandFromContext(c), err)
			return err
		}

		return nil
	},
	CommandNotFound: func(c *cli.Context, command string) {
		log.Error(log.ErrorMessage{Err: fmt.Sprintf("command not found: %s", command)})
		parallel.Close()
		log.Close()
	},
	OnUsageError: func(c *cli.Context, err error, isSubcommand bool) error {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Incorrect Usage: %s\n", err.Error())
			fmt.Fprintf(os.Stderr, "See '%s --help' for usage\n", appName)
			return err
		}
		return nil
	},
	Action: sortAction,
	After: func(c *cli.Context) error {
		parallel.Close()
		log.Close()
		return nil
	},
}

// Commands returns the CLI's subcommands. Sorting itself is the app's
// default Action, not a subcommand; "run" is the only subcommand.
func Commands() []*cli.Command {
	return []*cli.Command{
		NewRunCommand(),
	}
}

// Main is the entry point used by cmd/gosort.
func Main(ctx context.Context, args []string) error {
	app.Commands = Commands()
	return app.RunContext(ctx, args)
}
