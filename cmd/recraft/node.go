package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukex/operion-recraft/pkg/cmd"
	"github.com/dukex/operion-recraft/pkg/credentials"
	"github.com/dukex/operion-recraft/pkg/log"
	"github.com/dukex/operion-recraft/pkg/nodes/recraft"
	"github.com/dukex/operion-recraft/pkg/protocol"
	"github.com/dukex/operion-recraft/pkg/registry"
	cli "github.com/urfave/cli/v3"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "token",
			Usage: "Recraft API token, read from $" + credentials.EnvAPIToken + " on every request when unset",
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Recraft API base URL",
			Value:   recraft.DefaultBaseURL,
			Sources: cli.EnvVars("RECRAFT_BASE_URL"),
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Usage:   "Per-request timeout",
			Value:   recraft.DefaultTimeout,
			Sources: cli.EnvVars("RECRAFT_TIMEOUT"),
		},
		&cli.StringFlag{
			Name:    "plugins-path",
			Usage:   "Path to the directory containing node plugins",
			Value:   "",
			Sources: cli.EnvVars("PLUGINS_PATH"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			Value:   "info",
			Sources: cli.EnvVars("LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "Log format (text, json)",
			Value:   log.FormatText,
			Sources: cli.EnvVars("LOG_FORMAT"),
		},
		&cli.BoolFlag{
			Name:    "otel-enabled",
			Usage:   "Export traces over OTLP/HTTP",
			Sources: cli.EnvVars("OTEL_ENABLED"),
		},
	}
}

// nodeConfig turns the global flags into the node configuration map.
func nodeConfig(command *cli.Command) map[string]any {
	return map[string]any{
		"base_url": command.String("base-url"),
		"timeout":  command.Duration("timeout").Seconds(),
	}
}

// environment bundles what every subcommand needs.
type environment struct {
	logger      *slog.Logger
	registry    *registry.Registry
	credentials protocol.CredentialProvider
	config      map[string]any
	shutdown    func(context.Context)
}

func setup(ctx context.Context, command *cli.Command, module string) (*environment, error) {
	log.SetupWriter(command.Root().ErrWriter, command.String("log-level"), command.String("log-format"))

	logger := log.WithModule(module)

	shutdown, err := cmd.NewTracer(ctx, logger, command.Bool("otel-enabled"), "recraft-"+module)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	reg, err := cmd.NewRegistry(ctx, logger, command.String("plugins-path"))
	if err != nil {
		shutdown(ctx)

		return nil, fmt.Errorf("failed to load plugins: %w", err)
	}

	return &environment{
		logger:      logger,
		registry:    reg,
		credentials: tokenProvider(command.String("token")),
		config:      nodeConfig(command),
		shutdown:    shutdown,
	}, nil
}

// tokenProvider prefers an explicit token and otherwise follows the environment, so a long-running
// serve picks up a rotated token.
func tokenProvider(token string) protocol.CredentialProvider {
	if token != "" {
		return credentials.Static(token)
	}

	return credentials.NewEnv(credentials.EnvAPIToken)
}

func (e *environment) newNode(ctx context.Context, binaries protocol.BinaryStore) (protocol.Node, error) {
	return e.registry.CreateNode(ctx, recraft.NodeType, e.config, protocol.Dependencies{
		Credentials: e.credentials,
		Binaries:    binaries,
		Logger:      e.logger,
	})
}

func since(start time.Time) string {
	return time.Since(start).Round(time.Millisecond).String()
}
