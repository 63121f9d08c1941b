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

type SoftwareServiceConfig struct {
	SoftwareRepo ports.SoftwareRepository
	Logger       *logger.Logger
}

type softwareService struct {
	repo   ports.SoftwareRepository
	logger *logger.Logger
}

func NewSoftwareService(cfg SoftwareServiceConfig) ports.SoftwareService {
	return &softwareService{repo: cfg.SoftwareRepo, logger: cfg.Logger}
}

func (s *softwareService) Create(ctx context.Context, input ports.CreateSoftwareInput) (*domain.Software, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Version) == "" ||
		strings.TrimSpace(input.InstallerPath) == "" {
		return nil, ErrSoftwareInvalidInput
	}
	category := input.Category
	if category == "" {
		category = domain.CategoryOther
	}
	if !category.Valid() {
		return nil, ErrSoftwareInvalidInput
	}

	software := &domain.Software{
		Name:          input.Name,
		Version:       input.Version,
		Description:   input.Description,
		Category:      category,
		InstallerPath: input.InstallerPath,
		InstallArgs:   input.InstallArgs,
		IsActive:      true,
		IsFeatured:    input.IsFeatured,
	}
	if err := s.repo.Create(ctx, software); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSoftwareSlugTaken
		}
		return nil, err
	}

	s.logger.Infow("software_created", "id", software.ID, "slug", software.Slug, "version", software.Version)
	return software, nil
}

func (s *softwareService) List(ctx context.Context, filter ports.SoftwareFilter) ([]domain.Software, error) {
	filter.ActiveOnly = true
	return s.repo.List(ctx, filter)
}

func (s *softwareService) GetBySlug(ctx context.Context, slug string) (*domain.Software, error) {
	software, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSoftwareNotFound
		}
		return nil, err
	}
	return software, nil
}

func (s *softwareService) Stats(ctx context.Context) (*ports.CatalogStats, error) {
	total, active, byCategory, err := s.repo.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	return &ports.CatalogStats{Total: total, Active: active, ByCategory: byCategory}, nil
}
