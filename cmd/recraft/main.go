// Package main provides the recraft command: run, validate and serve Recraft node batches.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	cli "github.com/urfave/cli/v3"
)

func main() {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	if err := NewApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewApp builds the root command.
func NewApp() *cli.Command {
	return &cli.Command{
		Name:                  "recraft",
		Usage:                 "Generate and edit images with the Recraft API",
		EnableShellCompletion: true,
		Flags:                 globalFlags(),
		Commands: []*cli.Command{
			NewRunCommand(),
			NewValidateCommand(),
			NewSchemaCommand(),
			NewServeCommand(),
		},
	}
}
