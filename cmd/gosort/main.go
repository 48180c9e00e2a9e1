// Command gosort is the CLI front end for the external merge sort engine.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/peak/gosort/command"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := command.Main(ctx, os.Args); err != nil {
		os.Exit(1)
	}
}
