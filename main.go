package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/olehluchkiv/depscan/internal/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := commands.RootCmd()
	rootCmd.AddCommand(commands.ScanCmd())
	rootCmd.AddCommand(commands.DuplicatesCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
