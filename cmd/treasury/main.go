package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/trebuchet-org/treasury-cli/internal/cli"
	"github.com/trebuchet-org/treasury-cli/internal/cli/render"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, render.FormatError(err))
		os.Exit(1)
	}
}
