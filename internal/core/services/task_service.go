package services

import (
	"context"
	"errors"
	"strings"

	"github.com/softdepot/backend/internal/core/ports"
	"github.com/softdepot/backend/internal/domain"
	"github.com/softdepot/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type TaskServiceConfig struct {
	TaskRepo     ports.TaskRepository
	SoftwareRepo ports.SoftwareRepository
	Logger       *logger.Logger
}

type taskService struct {
	taskRepo     ports.TaskRepository
	softwareRepo ports.SoftwareRepository
	logger       *logger.Logger
}

func NewTaskService(cfg TaskServiceConfig) ports.TaskService {
	return &taskService{
		taskRepo:     cfg.TaskRepo,
		softwareRepo: cfg.SoftwareRepo,
		logger:       cfg.Logger,
	}
}

func (s *taskService) Enqueue(ctx context.Context, input ports.EnqueueTaskInput) (*domain.InstallationTask, error) {
	if input.SoftwareID == 0 || strings.TrimSpace(input.Hostname) == "" || strings.TrimSpace(input.InstallerURL) == "" {
		return nil, ErrTaskInvalidInput
	}

	if _, err := s.softwareRepo.GetByID(ctx, input.SoftwareID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warnw("task_enqueue_unknown_software", "software_id", input.SoftwareID)
			return nil, ErrTaskUnknownSoftware
		}
		return nil, err
	}

	task := &domain.InstallationTask{
		SoftwareID:   input.SoftwareID,
		Hostname:     input.Hostname,
		InstallerURL: input.InstallerURL,
		Status:       domain.TaskStatusPending,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Infow("task_enqueued",
		"task_id", task.ID,
		"software_id", task.SoftwareID,
		"hostname", task.Hostname,
	)
	return task, nil
}

func (s *taskService) ListPendingForHost(ctx context.Context, hostname string) ([]domain.InstallationTask, error) {
	if strings.TrimSpace(hostname) == "" {
		return nil, ErrTaskInvalidInput
	}
	return s.taskRepo.GetPendingByHostname(ctx, hostname)
}

// Report applies an agent-reported status update. The whole
// read-validate-write runs under the repository's row lock so two concurrent
// reports for the same task serialize and the loser is validated against the
// winner's state, not against a stale snapshot.
func (s *taskService) Report(ctx context.Context, taskID uint, status domain.TaskStatus, log string) (*domain.InstallationTask, error) {
	if !status.Valid() {
		return nil, ErrTaskInvalidStatus
	}

	task, err := s.taskRepo.UpdateLocked(ctx, taskID, func(t *domain.InstallationTask) error {
		if !t.Status.CanTransitionTo(status) {
			return ErrTaskIllegalTransition
		}
		t.Status = status
		t.Log = log
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		if errors.Is(err, ErrTaskIllegalTransition) {
			s.logger.Warnw("task_report_illegal_transition", "task_id", taskID, "status", status)
			return nil, err
		}
		s.logger.Errorw("task_report_failed", "task_id", taskID, "status", status, "error", err)
		return nil, err
	}

	s.logger.Infow("task_reported", "task_id", taskID, "status", status, "log_bytes", len(log))
	return task, nil
}
