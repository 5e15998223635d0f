// Command agendagraph converts tagged agenda text into Mermaid and Graphviz
// diagrams.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/agendagraph/internal/cli"
	"github.com/matzehuels/agendagraph/pkg/errors"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.New(os.Stderr, cli.LogInfo).RootCommand().ExecuteContext(ctx)
	code := cli.ExitCode(err)
	if err != nil && ctx.Err() == nil {
		fmt.Fprintln(os.Stderr, "Error:", errors.UserMessage(err))
	}
	return code
}
