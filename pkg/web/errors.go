package web

import (
	"github.com/dukex/operion-recraft/pkg/nodes/recraft"
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(404).
		WithInstance(c.Path()).
		WithType("not_found").
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

// handleNodeError maps an aborted execution to a problem response. Caller mistakes are 400s,
// upstream failures are 502s.
func handleNodeError(c fiber.Ctx, err error) error {
	var (
		status  int
		errType string
	)

	switch {
	case recraft.IsValidationError(err):
		status, errType = fiber.StatusBadRequest, "validation_error"
	case recraft.IsConfigurationError(err):
		status, errType = fiber.StatusBadRequest, "configuration_error"
	case recraft.IsRemoteAPIError(err):
		status, errType = fiber.StatusBadGateway, "remote_api_error"
	case recraft.IsTransportError(err):
		status, errType = fiber.StatusBadGateway, "transport_error"
	default:
		problem := problems.NewStatusProblem(500).
			WithInstance(c.Path()).
			WithType("internal_error").
			WithError(err)

		return c.Status(fiber.StatusInternalServerError).JSON(problem)
	}

	problem := problems.NewStatusProblem(status).
		WithInstance(c.Path()).
		WithType(errType).
		WithDetail(err.Error())

	return c.Status(status).JSON(problem)
}
