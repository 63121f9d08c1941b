package db

import (
	"context"

	"github.com/softdepot/backend/internal/core/ports"
	"github.com/softdepot/backend/internal/domain"
	"github.com/softdepot/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type downloadRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDownloadRepository(db *gorm.DB, log *logger.Logger) ports.DownloadRepository {
	return &downloadRepository{db: db, log: log}
}

func (r *downloadRepository) Create(ctx context.Context, download *domain.SoftwareDownload) error {
	if err := r.db.WithContext(ctx).Create(download).Error; err != nil {
		r.log.Errorw("download_repo_create_failed", "software_id", download.SoftwareID, "error", err)
		return err
	}
	return nil
}
