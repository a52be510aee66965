package main

import (
	"context"
	"errors"
	"fmt"

	cli "github.com/urfave/cli/v3"
)

// credentialChecker is implemented by nodes able to verify their token.
type credentialChecker interface {
	CheckCredentials(ctx context.Context) (map[string]any, error)
}

var errInvalidBatch = errors.New("batch has invalid items")

func NewValidateCommand() *cli.Command {
	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Build every request of a batch file without sending it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Batch file (YAML or JSON)",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "check-credentials",
				Usage: "Also call the API to verify the token",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			env, err := setup(ctx, command, "validate")
			if err != nil {
				return err
			}
			defer env.shutdown(ctx)

			_, items, store, err := LoadBatch(command.String("file"))
			if err != nil {
				return err
			}

			node, err := env.newNode(ctx, store)
			if err != nil {
				return err
			}

			out := command.Root().Writer
			invalid := 0

			for i, item := range items {
				d, err := node.Build(ctx, i, item)
				if err != nil {
					invalid++

					fmt.Fprintf(out, "✗ %s\n", err)

					continue
				}

				fmt.Fprintf(out, "✓ item %d: %s %s %s\n", i, item.Operation, d.Method, d.Path)
			}

			if command.Bool("check-credentials") {
				checker, ok := node.(credentialChecker)
				if !ok {
					return fmt.Errorf("node %s cannot check credentials", node.Type())
				}

				info, err := checker.CheckCredentials(ctx)
				if err != nil {
					fmt.Fprintf(out, "✗ credentials: %s\n", err)

					return err
				}

				fmt.Fprintf(out, "✓ credentials: account %v\n", info["id"])
			}

			if invalid > 0 {
				return fmt.Errorf("%w: %d of %d", errInvalidBatch, invalid, len(items))
			}

			return nil
		},
	}
}
