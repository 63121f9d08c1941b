package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/softdepot/backend/internal/core/ports"
	"github.com/softdepot/backend/internal/core/services"
	"github.com/softdepot/backend/internal/domain"
	"github.com/softdepot/backend/internal/infrastructure/logger"
	"github.com/softdepot/backend/internal/transport/http/dto"
	"github.com/softdepot/backend/internal/transport/http/ws"
)

// TaskHandler is the agent-facing dispatch API: poll pending work, report
// results, and (for the web tier and tooling) enqueue new tasks.
type TaskHandler struct {
	service ports.TaskService
	hub     *ws.Hub
	logger  *logger.Logger
}

func NewTaskHandler(service ports.TaskService, hub *ws.Hub, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{service: service, hub: hub, logger: logger}
}

// GetTasksForHost handles GET /api/tasks/?hostname=<h>. Read-only and safe
// to poll on any interval.
func (h *TaskHandler) GetTasksForHost(c *fiber.Ctx) error {
	hostname := c.Query("hostname")
	if hostname == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "hostname is required",
		})
	}

	tasks, err := h.service.ListPendingForHost(c.Context(), hostname)
	if err != nil {
		if errors.Is(err, services.ErrTaskInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: "hostname is required",
			})
		}
		h.logger.Errorw("task_list_failed", "hostname", hostname, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "failed to list tasks",
		})
	}

	return c.JSON(dto.TasksToPendingResponse(tasks))
}

// UpdateTask handles PATCH /api/tasks/:id/. The status must be a member of
// the closed set and the transition must be legal for the task's current
// state; log defaults to empty when the agent omits it.
func (h *TaskHandler) UpdateTask(c *fiber.Ctx) error {
	taskID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid task id",
		})
	}

	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warnw("task_update_body_parse_failed", "task_id", taskID, "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
		})
	}
	if req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "status is required",
		})
	}

	task, err := h.service.Report(c.Context(), uint(taskID), domain.TaskStatus(req.Status), req.Log)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTaskInvalidStatus):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: err.Error(),
			})
		case errors.Is(err, services.ErrTaskNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: "task not found",
			})
		case errors.Is(err, services.ErrTaskIllegalTransition):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: err.Error(),
			})
		}
		h.logger.Errorw("task_update_failed", "task_id", taskID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "failed to update task",
		})
	}

	h.hub.Broadcast(ws.EventTaskUpdated, fiber.Map{
		"task_id":  task.ID,
		"hostname": task.Hostname,
		"status":   task.Status,
	})
	return c.JSON(dto.StatusResponse{Status: "success"})
}

// CreateTask handles POST /api/tasks/create/.
func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warnw("task_create_body_parse_failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
		})
	}

	if errs := req.Validate(); len(errs) > 0 {
		h.logger.Warnw("task_create_validation_failed", "details", errs)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Details: errs,
		})
	}

	task, err := h.service.Enqueue(c.Context(), ports.EnqueueTaskInput{
		SoftwareID:   req.SoftwareID,
		Hostname:     req.Hostname,
		InstallerURL: req.InstallerURL,
	})
	if err != nil {
		if errors.Is(err, services.ErrTaskUnknownSoftware) || errors.Is(err, services.ErrTaskInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: err.Error(),
			})
		}
		h.logger.Errorw("task_create_failed", "software_id", req.SoftwareID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "failed to create task",
		})
	}

	h.hub.Broadcast(ws.EventTaskCreated, fiber.Map{
		"task_id":  task.ID,
		"hostname": task.Hostname,
		"status":   task.Status,
	})
	return c.JSON(dto.CreatedTaskResponse{
		ID:        task.ID,
		Status:    task.Status,
		CreatedAt: task.CreatedAt,
	})
}
