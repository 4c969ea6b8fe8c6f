// Command graphcanvas generates, edits, joins and renders graph diagrams.
//
// See internal/cli for the commands and pkg for the libraries behind them.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/graphcanvas/internal/cli"
	"github.com/matzehuels/graphcanvas/pkg/errors"
)

// exitInterrupted follows the shell convention of 128 + SIGINT.
const exitInterrupted = 130

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.New(os.Stderr, cli.LogInfo).RootCommand().ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, context.Canceled):
		return exitInterrupted
	}
	msg := errors.UserMessage(err)
	if code := errors.GetCode(err); code != "" {
		msg = fmt.Sprintf("%s (%s)", msg, code)
	}
	fmt.Fprintln(os.Stderr, "graphcanvas:", msg)
	return 1
}
