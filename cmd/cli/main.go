package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/smustafa75/aws-calc/pkg/runtime/terminal"
	"github.com/smustafa75/aws-calc/pkg/services/config"
)

func main() {
	// A .env file is optional; AWSCALC_* variables may also come from the shell.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := terminal.Options{Output: os.Stdout, ErrOutput: os.Stderr}
	if profiles, err := config.NewRegistry(config.DefaultSharedFiles()); err == nil {
		opts.Profiles = profiles
	}

	err := terminal.NewCLI(opts).Execute(ctx, os.Args[1:])
	if err == nil {
		return
	}

	var exitErr *terminal.ExitError
	if !errors.As(err, &exitErr) {
		exitErr = terminal.Classify(err)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", exitErr)
	if exitErr.Hint != "" {
		fmt.Fprintf(os.Stderr, "Hint: %s\n", exitErr.Hint)
	}
	stop()
	os.Exit(exitErr.Code)
}
