package handler

import (
	"warehouse-scan-be/internal/pkg/logger"
	"warehouse-scan-be/internal/service"
	internalWS "warehouse-scan-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/gofiber/websocket/v2"
)

// ScannerHandler upgrades scanner screens to a websocket bound to one scan
// session. Keystrokes flow in, session snapshots flow out.
type ScannerHandler struct {
	sessions service.IScanSessionService
	hub      *internalWS.Hub
	logger   logger.ILogger
}

func NewScannerHandler(sessions service.IScanSessionService, hub *internalWS.Hub, log logger.ILogger) *ScannerHandler {
	return &ScannerHandler{
		sessions: sessions,
		hub:      hub,
		logger:   log,
	}
}

// ServeWs handles websocket requests from a scanner screen.
func (h *ScannerHandler) ServeWs(c *fiber.Ctx) error {
	// Params point into fiber's reusable request buffer; the websocket
	// outlives the request.
	sessionID := utils.CopyString(c.Params("id"))

	// Unknown sessions are rejected before the upgrade so the screen gets a
	// normal 404.
	if _, err := h.sessions.Get(c.UserContext(), sessionID); err != nil {
		return err
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("ScannerHandler", "Starting scanner stream", map[string]interface{}{"session_id": sessionID})
			internalWS.ServeWs(h.hub, conn, sessionID)
			h.logger.Info("ScannerHandler", "Scanner stream ended", map[string]interface{}{"session_id": sessionID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *ScannerHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/scan/sessions/:id/ws", h.ServeWs)
}
