package main

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/dukex/operion-recraft/pkg/nodes/recraft"
	"github.com/dukex/operion-recraft/pkg/protocol"
	"github.com/dukex/operion-recraft/pkg/registry"
	"github.com/dukex/operion-recraft/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	cli "github.com/urfave/cli/v3"
)

const defaultPort = 9092

type API struct {
	logger      *slog.Logger
	registry    *registry.Registry
	credentials protocol.CredentialProvider
	config      map[string]any
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	registry *registry.Registry,
	credentials protocol.CredentialProvider,
	config map[string]any,
) *API {
	if logger == nil {
		logger = slog.Default()
	}

	return &API{
		logger:      logger,
		registry:    registry,
		credentials: credentials,
		config:      config,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.registry, a.validate, a.credentials, recraft.NodeType, a.config, a.logger)

	app := fiber.New(fiber.Config{
		BodyLimit: 64 * 1024 * 1024,
	})
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Recraft node host")
	})

	app.Post("/executions", handlers.Execute)

	n := app.Group("/nodes")
	n.Get("/", handlers.GetNodes)
	n.Get("/:id/schema", handlers.GetNodeSchema)

	return app
}

func (a *API) Start(port int) error {
	return a.App().Listen(":" + strconv.Itoa(port))
}

func NewServeCommand() *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the HTTP host",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the HTTP server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			env, err := setup(ctx, command, "serve")
			if err != nil {
				return err
			}
			defer env.shutdown(ctx)

			env.logger.InfoContext(ctx, "Initializing Recraft node host", "port", command.Int("port"))

			return NewAPI(env.logger, env.registry, env.credentials, env.config).Start(command.Int("port"))
		},
	}
}
