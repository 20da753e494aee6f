package v1

import (
	"github.com/andreyxaxa/Event-Attestor/internal/usecase"
	"github.com/andreyxaxa/Event-Attestor/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

func NewAttestationRoutes(apiV1Group fiber.Router, att usecase.AttestationUseCase, l logger.Interface) {
	r := &V1{att: att, logger: l}

	{
		// API
		apiV1Group.Post("/upload", r.upload)
		apiV1Group.Get("/attestation/:id", r.getAttestation)
		apiV1Group.Post("/attestation/:id/reconcile", r.reconcileAttestation)

		// UI
		apiV1Group.Get("/", r.showUI)
	}
}
