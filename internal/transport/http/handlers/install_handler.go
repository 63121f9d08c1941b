package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/softdepot/backend/internal/core/ports"
	"github.com/softdepot/backend/internal/core/services"
	"github.com/softdepot/backend/internal/infrastructure/logger"
	"github.com/softdepot/backend/internal/transport/http/dto"
	"github.com/softdepot/backend/internal/transport/http/middleware"
	"github.com/softdepot/backend/internal/transport/http/ws"
)

// InstallHandler is the web-tier install trigger plus the session hostname
// endpoints backing the catalog pages.
type InstallHandler struct {
	installs  ports.InstallService
	hostnames ports.HostnameService
	hub       *ws.Hub
	logger    *logger.Logger
}

func NewInstallHandler(installs ports.InstallService, hostnames ports.HostnameService, hub *ws.Hub, logger *logger.Logger) *InstallHandler {
	return &InstallHandler{installs: installs, hostnames: hostnames, hub: hub, logger: logger}
}

func sessionInfo(c *fiber.Ctx) (identity, sessionID string) {
	identity, _ = c.Locals(middleware.LocalsIdentity).(string)
	sessionID, _ = c.Locals(middleware.LocalsSessionID).(string)
	return identity, sessionID
}

// TriggerInstall handles POST /api/v1/software/:slug/install/.
func (h *InstallHandler) TriggerInstall(c *fiber.Ctx) error {
	identity, sessionID := sessionInfo(c)
	slug := c.Params("slug")

	task, err := h.installs.TriggerInstall(c.Context(), ports.InstallRequest{
		SessionID: sessionID,
		Identity:  identity,
		Slug:      slug,
		ClientIP:  c.IP(),
		UserAgent: string(c.Request().Header.UserAgent()),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInstallHostUnresolved):
			// Fail closed, with a message a person can act on.
			h.hub.Broadcast(ws.EventInstallDenied, fiber.Map{
				"identity": identity,
				"slug":     slug,
			})
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: "your machine could not be identified; for security reasons no installation can be performed",
			})
		case errors.Is(err, services.ErrInstallNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: "software not found",
			})
		}
		h.logger.Errorw("install_trigger_failed", "slug", slug, "identity", identity, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "failed to create installation task",
		})
	}

	h.hub.Broadcast(ws.EventTaskCreated, fiber.Map{
		"task_id":  task.ID,
		"hostname": task.Hostname,
		"status":   task.Status,
	})
	return c.Status(fiber.StatusAccepted).JSON(dto.InstallTriggeredResponse{
		TaskID:   task.ID,
		Hostname: task.Hostname,
		Status:   task.Status,
	})
}

// GetSessionHostname handles GET /api/v1/session/hostname. The first call in
// a session hits the inventory; later calls are answered from the cache.
func (h *InstallHandler) GetSessionHostname(c *fiber.Ctx) error {
	identity, sessionID := sessionInfo(c)
	resolved := h.hostnames.ResolveForSession(c.Context(), sessionID, identity)
	return c.JSON(dto.SessionHostnameResponse{
		Hostname: resolved.Hostname,
		Resolved: resolved.Found,
	})
}

// Logout handles POST /api/v1/session/logout: the cached hostname dies with
// the session.
func (h *InstallHandler) Logout(c *fiber.Ctx) error {
	_, sessionID := sessionInfo(c)
	h.hostnames.Invalidate(sessionID)
	c.ClearCookie()
	return c.JSON(dto.StatusResponse{Status: "success"})
}
