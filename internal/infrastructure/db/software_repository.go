package db

import (
	"context"

	"github.com/softdepot/backend/internal/core/ports"
	"github.com/softdepot/backend/internal/domain"
	"github.com/softdepot/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type softwareRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSoftwareRepository(db *gorm.DB, log *logger.Logger) ports.SoftwareRepository {
	return &softwareRepository{db: db, log: log}
}

func (r *softwareRepository) Create(ctx context.Context, software *domain.Software) error {
	if err := r.db.WithContext(ctx).Create(software).Error; err != nil {
		r.log.Errorw("software_repo_create_failed", "name", software.Name, "error", err)
		return err
	}
	r.log.Infow("software_repo_create_ok", "id", software.ID, "slug", software.Slug)
	return nil
}

func (r *softwareRepository) GetByID(ctx context.Context, id uint) (*domain.Software, error) {
	var software domain.Software
	if err := r.db.WithContext(ctx).First(&software, id).Error; err != nil {
		return nil, err
	}
	return &software, nil
}

func (r *softwareRepository) GetBySlug(ctx context.Context, slug string) (*domain.Software, error) {
	var software domain.Software
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&software).Error; err != nil {
		return nil, err
	}
	return &software, nil
}

func (r *softwareRepository) List(ctx context.Context, filter ports.SoftwareFilter) ([]domain.Software, error) {
	query := r.db.WithContext(ctx).Model(&domain.Software{})
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}

	var softwares []domain.Software
	if err := query.Order("name ASC").Find(&softwares).Error; err != nil {
		r.log.Errorw("software_repo_list_failed", "error", err)
		return nil, err
	}
	return softwares, nil
}

func (r *softwareRepository) CountByCategory(ctx context.Context) (int64, int64, map[domain.SoftwareCategory]int64, error) {
	var total, active int64
	if err := r.db.WithContext(ctx).Model(&domain.Software{}).Count(&total).Error; err != nil {
		return 0, 0, nil, err
	}
	if err := r.db.WithContext(ctx).Model(&domain.Software{}).Where("is_active = ?", true).Count(&active).Error; err != nil {
		return 0, 0, nil, err
	}

	var rows []struct {
		Category domain.SoftwareCategory
		Count    int64
	}
	err := r.db.WithContext(ctx).Model(&domain.Software{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return 0, 0, nil, err
	}

	byCategory := make(map[domain.SoftwareCategory]int64, len(rows))
	for _, row := range rows {
		byCategory[row.Category] = row.Count
	}
	return total, active, byCategory, nil
}

func (r *softwareRepository) IncrementDownloadCount(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Model(&domain.Software{}).
		Where("id = ?", id).
		UpdateColumn("download_count", gorm.Expr("download_count + 1")).Error
	if err != nil {
		r.log.Errorw("software_repo_increment_downloads_failed", "id", id, "error", err)
		return err
	}
	return nil
}
