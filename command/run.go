package command

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/kballard/go-shellquote"
	"github.com/urfave/cli/v2"

	"github.com/peak/gosort/parallel"
)

var runHelpTemplate = `Name:
	{{.HelpName}} - {{.Usage}}

Usage:
	{{.HelpName}} [file]

Options:
	{{range .VisibleFlags}}{{.}}
	{{end}}
Examples:
	1. Run the sort invocations declared in "commands.txt", one per line
		 > gosort {{.HelpName}} commands.txt

	2. Read invocations from standard input and run them.
		 > cat commands.txt | gosort {{.HelpName}}
`

// NewRunCommand returns the "run" subcommand: batch replay of
// newline-delimited gosort invocations, one worker per line. Workers go
// through the global parallel pool, which the app sets to size 1, so the
// lines run one at a time.
func NewRunCommand() *cli.Command {
	return &cli.Command{
		Name:               "run",
		HelpName:           "run",
		Usage:              "replay a batch of sort invocations",
		CustomHelpTemplate: runHelpTemplate,
		Before: func(c *cli.Context) error {
			return checkNumberOfArguments(c, 0, 1)
		},
		Action: func(c *cli.Context) error {
			reader := io.Reader(os.Stdin)
			if c.Args().Len() == 1 {
				f, err := os.Open(c.Args().First())
				if err != nil {
					printError(commandFromContext(c), err)
					return err
				}
				defer f.Close()
				reader = f
			}

			return newBatchRunner(c, reader).run(c.Context)
		},
	}
}

type batchRunner struct {
	c      *cli.Context
	reader io.Reader
}

func newBatchRunner(c *cli.Context, r io.Reader) *batchRunner {
	return &batchRunner{c: c, reader: r}
}

func (b *batchRunner) run(ctx context.Context) error {
	pm := parallel.New(parallel.Size())
	defer pm.Close()

	waiter := parallel.NewWaiter()

	errDone := make(chan struct{})
	var waiterErr error
	go func() {
		defer close(errDone)
		for err := range waiter.Err() {
			waiterErr = multierror.Append(waiterErr, err)
		}
	}()

	lines := newLineReader(ctx, b.reader)

	lineno := -1
	for line := range lines.Read() {
		lineno++

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields, err := shellquote.Split(line)
		if err != nil {
			return err
		}
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "run" {
			printError(commandFromContext(b.c), errors.New("\"run\" command is not permitted in run-mode"))
			continue
		}

		args := fields
		fn := func() error {
			flagset := flag.NewFlagSet(appName, flag.ContinueOnError)
			for _, f := range app.Flags {
				if err := f.Apply(flagset); err != nil {
					return err
				}
			}
			if err := flagset.Parse(args); err != nil {
				return err
			}

			subCtx := cli.NewContext(app, flagset, b.c)
			return sortAction(subCtx)
		}

		pm.Run(fn, waiter)
	}

	waiter.Wait()
	<-errDone

	if lines.Err() != nil {
		printError(commandFromContext(b.c), lines.Err())
	}

	return multierror.Append(waiterErr, lines.Err()).ErrorOrNil()
}

// lineReader is a cancelable line-at-a-time reader over the batch file.
type lineReader struct {
	*bufio.Reader
	err    error
	linech chan string
	ctx    context.Context
}

func newLineReader(ctx context.Context, r io.Reader) *lineReader {
	lr := &lineReader{
		ctx:    ctx,
		Reader: bufio.NewReader(r),
		linech: make(chan string),
	}
	go lr.read()
	return lr
}

func (r *lineReader) read() {
	defer close(r.linech)

	for {
		select {
		case <-r.ctx.Done():
			r.err = r.ctx.Err()
			return
		default:
			line, err := r.ReadString('\n')
			if line != "" {
				r.linech <- line
			}
			if err != nil {
				if err == io.EOF {
					if errors.Is(r.ctx.Err(), context.Canceled) {
						r.err = r.ctx.Err()
					}
					return
				}
				r.err = multierror.Append(r.err, err)
			}
		}
	}
}

func (r *lineReader) Read() <-chan string { return r.linech }
func (r *lineReader) Err() error          { return r.err }
