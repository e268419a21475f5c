package controller

import (
	"warehouse-scan-be/internal/pkg/serverutils"
	"warehouse-scan-be/internal/repository/contract"

	"github.com/gofiber/fiber/v2"
)

type HealthResponse struct {
	Status         string `json:"status"`
	ActiveSessions int    `json:"active_sessions"`
}

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	sessions contract.IScanSessionRepository
}

func NewHealthController(sessions contract.IScanSessionRepository) IHealthController {
	return &healthController{sessions: sessions}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("OK", HealthResponse{
		Status:         "ok",
		ActiveSessions: c.sessions.Count(),
	}))
}
