package db

import (
	"context"

	"github.com/softdepot/backend/internal/core/ports"
	"github.com/softdepot/backend/internal/domain"
	"github.com/softdepot/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type taskRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskRepository(db *gorm.DB, log *logger.Logger) ports.TaskRepository {
	return &taskRepository{db: db, log: log}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.InstallationTask) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		r.log.Errorw("task_repo_create_failed", "software_id", task.SoftwareID, "hostname", task.Hostname, "error", err)
		return err
	}
	r.log.Infow("task_repo_create_ok", "id", task.ID, "hostname", task.Hostname)
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id uint) (*domain.InstallationTask, error) {
	var task domain.InstallationTask
	if err := r.db.WithContext(ctx).Preload("Software").First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) GetPendingByHostname(ctx context.Context, hostname string) ([]domain.InstallationTask, error) {
	var tasks []domain.InstallationTask
	err := r.db.WithContext(ctx).
		Preload("Software").
		Where("hostname = ? AND status = ?", hostname, domain.TaskStatusPending).
		Order("created_at ASC").
		Find(&tasks).Error
	if err != nil {
		r.log.Errorw("task_repo_list_pending_failed", "hostname", hostname, "error", err)
		return nil, err
	}
	return tasks, nil
}

// UpdateLocked serializes concurrent status reports for one task: the row is
// read with SELECT ... FOR UPDATE inside a transaction, mutated via apply,
// then written back. Only the mutable columns are persisted, so hostname and
// installer_url stay exactly as captured at creation.
func (r *taskRepository) UpdateLocked(ctx context.Context, id uint, apply func(*domain.InstallationTask) error) (*domain.InstallationTask, error) {
	var task domain.InstallationTask
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&task, id).Error; err != nil {
			return err
		}
		if err := apply(&task); err != nil {
			return err
		}
		return tx.Model(&task).Select("status", "log", "updated_at").Updates(map[string]interface{}{
			"status": task.Status,
			"log":    task.Log,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	r.log.Infow("task_repo_update_ok", "id", task.ID, "status", task.Status)
	return &task, nil
}
