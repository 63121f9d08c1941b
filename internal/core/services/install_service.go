package services

import (
	"context"
	"errors"

	"github.com/softdepot/backend/internal/config"
	"github.com/softdepot/backend/internal/core/ports"
	"github.com/softdepot/backend/internal/domain"
	"github.com/softdepot/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type InstallServiceConfig struct {
	SoftwareRepo ports.SoftwareRepository
	DownloadRepo ports.DownloadRepository
	Tasks        ports.TaskService
	Hostnames    ports.HostnameService
	Storage      config.StorageConfig
	Logger       *logger.Logger
}

type installService struct {
	softwareRepo ports.SoftwareRepository
	downloadRepo ports.DownloadRepository
	tasks        ports.TaskService
	hostnames    ports.HostnameService
	storage      config.StorageConfig
	logger       *logger.Logger
}

func NewInstallService(cfg InstallServiceConfig) ports.InstallService {
	return &installService{
		softwareRepo: cfg.SoftwareRepo,
		downloadRepo: cfg.DownloadRepo,
		tasks:        cfg.Tasks,
		hostnames:    cfg.Hostnames,
		storage:      cfg.Storage,
		logger:       cfg.Logger,
	}
}

func (s *installService) TriggerInstall(ctx context.Context, req ports.InstallRequest) (*domain.InstallationTask, error) {
	software, err := s.softwareRepo.GetBySlug(ctx, req.Slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInstallNotFound
		}
		return nil, err
	}
	if !software.IsActive {
		return nil, ErrInstallNotFound
	}

	// The load-bearing security check: no resolved machine, no task. An
	// inventory outage lands here too, as an absent result.
	resolved := s.hostnames.ResolveForSession(ctx, req.SessionID, req.Identity)
	if !resolved.Found {
		s.logger.Warnw("install_denied_unresolved_host",
			"identity", req.Identity,
			"session_id", req.SessionID,
			"slug", req.Slug,
		)
		return nil, ErrInstallHostUnresolved
	}

	task, err := s.tasks.Enqueue(ctx, ports.EnqueueTaskInput{
		SoftwareID:   software.ID,
		Hostname:     resolved.Hostname,
		InstallerURL: s.storage.InstallerURL(software.InstallerPath),
	})
	if err != nil {
		return nil, err
	}

	// Download accounting is best-effort; the task is already durable and a
	// failed counter bump must not undo it.
	if err := s.softwareRepo.IncrementDownloadCount(ctx, software.ID); err != nil {
		s.logger.Warnw("install_download_count_failed", "software_id", software.ID, "error", err)
	}
	if err := s.downloadRepo.Create(ctx, &domain.SoftwareDownload{
		SoftwareID:   software.ID,
		UserIdentity: req.Identity,
		IPAddress:    req.ClientIP,
		UserAgent:    req.UserAgent,
		Version:      software.Version,
	}); err != nil {
		s.logger.Warnw("install_download_audit_failed", "software_id", software.ID, "error", err)
	}

	s.logger.Infow("install_triggered",
		"task_id", task.ID,
		"slug", req.Slug,
		"hostname", resolved.Hostname,
		"identity", req.Identity,
	)
	return task, nil
}
