package ports

import (
	"context"

	"github.com/softdepot/backend/internal/domain"
)

type TaskRepository interface {
	Create(ctx context.Context, task *domain.InstallationTask) error
	GetByID(ctx context.Context, id uint) (*domain.InstallationTask, error)
	GetPendingByHostname(ctx context.Context, hostname string) ([]domain.InstallationTask, error)
	// UpdateLocked loads the task under an exclusive row lock, applies the
	// mutation and persists status, log and updated_at in one transaction.
	// An error returned by apply aborts the transaction untouched.
	UpdateLocked(ctx context.Context, id uint, apply func(*domain.InstallationTask) error) (*domain.InstallationTask, error)
}

type SoftwareRepository interface {
	Create(ctx context.Context, software *domain.Software) error
	GetByID(ctx context.Context, id uint) (*domain.Software, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Software, error)
	List(ctx context.Context, filter SoftwareFilter) ([]domain.Software, error)
	CountByCategory(ctx context.Context) (total int64, active int64, byCategory map[domain.SoftwareCategory]int64, err error)
	// IncrementDownloadCount bumps the counter with a SQL expression so
	// concurrent installs cannot lose increments.
	IncrementDownloadCount(ctx context.Context, id uint) error
}

type SoftwareFilter struct {
	Category   domain.SoftwareCategory
	Search     string
	ActiveOnly bool
}

type DownloadRepository interface {
	Create(ctx context.Context, download *domain.SoftwareDownload) error
}
