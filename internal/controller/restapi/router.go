package restapi

import (
	"github.com/andreyxaxa/Event-Attestor/config"
	v1 "github.com/andreyxaxa/Event-Attestor/internal/controller/restapi/v1"
	"github.com/andreyxaxa/Event-Attestor/internal/usecase"
	"github.com/andreyxaxa/Event-Attestor/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// @title Event attestor
// @version 1.0.0
// @host localhost:8080
// @BasePath /v1
func NewRouter(app *fiber.App, cfg *config.Config, att usecase.AttestationUseCase, l logger.Interface) {
	// Swagger
	if cfg.Swagger.Enabled {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}

	// Routers
	apiV1Group := app.Group("/v1")
	{
		v1.NewAttestationRoutes(apiV1Group, att, l)
	}
}
