package main

import (
	"context"
	"fmt"

	"github.com/dukex/operion-recraft/pkg/nodes/recraft"
	cli "github.com/urfave/cli/v3"
)

func NewSchemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the configuration schema of a node type",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "node",
				Usage: "Node type",
				Value: recraft.NodeType,
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			env, err := setup(ctx, command, "schema")
			if err != nil {
				return err
			}
			defer env.shutdown(ctx)

			factory, ok := env.registry.GetNodeFactory(command.String("node"))
			if !ok {
				return fmt.Errorf("node type '%s' not registered", command.String("node"))
			}

			return printJSON(command, factory.Schema())
		},
	}
}
