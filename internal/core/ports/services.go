package ports

import (
	"context"

	"github.com/softdepot/backend/internal/domain"
)

type TaskService interface {
	Enqueue(ctx context.Context, input EnqueueTaskInput) (*domain.InstallationTask, error)
	ListPendingForHost(ctx context.Context, hostname string) ([]domain.InstallationTask, error)
	Report(ctx context.Context, taskID uint, status domain.TaskStatus, log string) (*domain.InstallationTask, error)
}

type EnqueueTaskInput struct {
	SoftwareID   uint
	Hostname     string
	InstallerURL string
}

// HostnameResolver maps a user identity to the machine most recently
// associated with it. It never returns an error: any failure on the way to
// the inventory store is an absent result (fail closed).
type HostnameResolver interface {
	Resolve(ctx context.Context, identity string) domain.ResolvedHostname
}

// HostnameService is the single resolution code path: a per-session cache in
// front of the resolver, with explicit invalidation. Absent results are
// cached too.
type HostnameService interface {
	ResolveForSession(ctx context.Context, sessionID, identity string) domain.ResolvedHostname
	Invalidate(sessionID string)
}

type InstallService interface {
	// TriggerInstall authorizes and enqueues an installation for the acting
	// user's machine. It returns ErrInstallHostUnresolved when the session's
	// identity cannot be mapped to a hostname; no task is created in that
	// case.
	TriggerInstall(ctx context.Context, req InstallRequest) (*domain.InstallationTask, error)
}

type InstallRequest struct {
	SessionID string
	Identity  string
	Slug      string
	ClientIP  string
	UserAgent string
}

type SoftwareService interface {
	Create(ctx context.Context, input CreateSoftwareInput) (*domain.Software, error)
	List(ctx context.Context, filter SoftwareFilter) ([]domain.Software, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Software, error)
	Stats(ctx context.Context) (*CatalogStats, error)
}

type CreateSoftwareInput struct {
	Name          string
	Version       string
	Description   string
	Category      domain.SoftwareCategory
	InstallerPath string
	InstallArgs   string
	IsFeatured    bool
}

type CatalogStats struct {
	Total      int64                             `json:"total"`
	Active     int64                             `json:"active"`
	ByCategory map[domain.SoftwareCategory]int64 `json:"by_category"`
}
