package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dukex/operion-recraft/pkg/models"
	cli "github.com/urfave/cli/v3"
)

func NewRunCommand() *cli.Command {
	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Execute a batch file and print one result per item as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Batch file (YAML or JSON)",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "continue-on-fail",
				Usage: "Record failures per item instead of stopping at the first one",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			env, err := setup(ctx, command, "run")
			if err != nil {
				return err
			}
			defer env.shutdown(ctx)

			batch, items, store, err := LoadBatch(command.String("file"))
			if err != nil {
				return err
			}

			node, err := env.newNode(ctx, store)
			if err != nil {
				return err
			}

			continueOnFail := batch.ContinueOnFail || command.Bool("continue-on-fail")
			start := time.Now()

			env.logger.InfoContext(ctx, "Running batch", "items", len(items), "continue_on_fail", continueOnFail)

			results, execErr := node.Execute(ctx, items, continueOnFail)

			if err := printJSON(command, results); err != nil {
				return err
			}

			if execErr != nil {
				env.logger.ErrorContext(ctx, "Batch aborted", "completed", len(results), "error", execErr)

				return execErr
			}

			env.logger.InfoContext(ctx, "Batch finished", "items", len(results), "failed", countFailed(results), "duration", since(start))

			return nil
		},
	}
}

func countFailed(results []models.ResultEnvelope) int {
	failed := 0

	for _, r := range results {
		if r.IsError() {
			failed++
		}
	}

	return failed
}

func printJSON(command *cli.Command, v any) error {
	encoder := json.NewEncoder(command.Root().Writer)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}
