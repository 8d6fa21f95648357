package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yndnr/ast-keyaudit/internal/cli/command"
	"github.com/yndnr/ast-keyaudit/internal/infra/shutdown"
)

func main() {
	ctx, stop := shutdown.WithSignals(context.Background())
	app := command.App()

	err := app.RunContext(ctx, os.Args)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
