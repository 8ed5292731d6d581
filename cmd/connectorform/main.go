package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	slogctx "github.com/veqryn/slog-context"

	"github.com/goliatone/go-connectorform/cmd/connectorform/commands"
	"github.com/goliatone/go-connectorform/pkg/alert"
)

// Version is set by the build system.
var Version = "dev"

func execute() int {
	ctx, cancelOnSignal := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer cancelOnSignal()

	ctx = slogctx.NewCtx(ctx, slog.New(slog.NewTextHandler(os.Stderr, nil)))

	err := commands.NewRootCmd(ctx, commands.Deps{Version: Version}).ExecuteContext(ctx)
	if err != nil {
		a := alert.FromError(err)
		slogctx.Error(ctx, "Failed running connectorform", "error", err, "hint", a.Description)
		_, _ = fmt.Fprintln(os.Stderr, a.Message)
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute())
}
