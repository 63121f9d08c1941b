package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/softdepot/backend/internal/core/ports"
	"github.com/softdepot/backend/internal/core/services"
	"github.com/softdepot/backend/internal/domain"
	"github.com/softdepot/backend/internal/infrastructure/logger"
	"github.com/softdepot/backend/internal/transport/http/dto"
)

type SoftwareHandler struct {
	service ports.SoftwareService
	logger  *logger.Logger
}

func NewSoftwareHandler(service ports.SoftwareService, logger *logger.Logger) *SoftwareHandler {
	return &SoftwareHandler{service: service, logger: logger}
}

func (h *SoftwareHandler) CreateSoftware(c *fiber.Ctx) error {
	var req dto.CreateSoftwareRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
		})
	}
	if errs := req.Validate(); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Details: errs,
		})
	}

	software, err := h.service.Create(c.Context(), ports.CreateSoftwareInput{
		Name:          req.Name,
		Version:       req.Version,
		Description:   req.Description,
		Category:      domain.SoftwareCategory(req.Category),
		InstallerPath: req.InstallerPath,
		InstallArgs:   req.InstallArgs,
		IsFeatured:    req.IsFeatured,
	})
	if err != nil {
		if errors.Is(err, services.ErrSoftwareInvalidInput) || errors.Is(err, services.ErrSoftwareSlugTaken) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: err.Error(),
			})
		}
		h.logger.Errorw("software_create_failed", "name", req.Name, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "failed to create software",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SoftwareToResponse(software))
}

// GetSoftwares lists the active catalog, optionally filtered by category and
// name substring (the list page's filters).
func (h *SoftwareHandler) GetSoftwares(c *fiber.Ctx) error {
	filter := ports.SoftwareFilter{
		Search: c.Query("search"),
	}
	if category := c.Query("category"); category != "" {
		if !domain.SoftwareCategory(category).Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: "unknown category",
			})
		}
		filter.Category = domain.SoftwareCategory(category)
	}

	softwares, err := h.service.List(c.Context(), filter)
	if err != nil {
		h.logger.Errorw("software_list_failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "failed to list software",
		})
	}
	return c.JSON(dto.SoftwaresToResponse(softwares))
}

func (h *SoftwareHandler) GetSoftware(c *fiber.Ctx) error {
	software, err := h.service.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		if errors.Is(err, services.ErrSoftwareNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: "software not found",
			})
		}
		h.logger.Errorw("software_get_failed", "slug", c.Params("slug"), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "failed to load software",
		})
	}
	return c.JSON(dto.SoftwareToResponse(software))
}

func (h *SoftwareHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context())
	if err != nil {
		h.logger.Errorw("software_stats_failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "failed to compute stats",
		})
	}
	return c.JSON(stats)
}
