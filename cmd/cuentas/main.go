package main

import (
	"context"
	"fmt"
	"os"

	"cuentas/internal/app"
	"cuentas/internal/cli"
	"cuentas/internal/commands"
	"cuentas/internal/log"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := cli.SetupLogger(cfg.LogLevel, os.Stderr)

	ctx, stop := cli.ShutdownContext(context.Background(), logger)
	defer stop()
	ctx = log.NewContext(ctx, logger)

	root := commands.NewRootCommand(commands.Options{
		Open: func(ctx context.Context) (*app.App, error) {
			return cli.OpenApp(ctx, cfg, logger)
		},
	})

	if err := root.ExecuteContext(ctx); err != nil {
		logger.Debug("Command failed", log.FieldError, err)
		stop()
		os.Exit(1)
	}
}
