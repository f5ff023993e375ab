// Command dashboard serves the bazaarsetu price dashboard.
//
// Usage:
//
//	dashboard serve --config configs/dashboard.yaml
//	dashboard check --config configs/dashboard.yaml
//	dashboard version
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rickgao/bazaarsetu/cmd/dashboard/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := commands.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
