package services

import (
	"context"
	"testing"
	"time"

	"github.com/softdepot/backend/internal/config"
	"github.com/softdepot/backend/internal/core/ports"
	"github.com/softdepot/backend/internal/domain"
	"github.com/softdepot/backend/internal/infrastructure/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newInstallServiceForTest(t *testing.T, database *gorm.DB, resolver ports.HostnameResolver) ports.InstallService {
	t.Helper()
	log := testLogger()
	softwareRepo := db.NewSoftwareRepository(database, log)
	tasks := NewTaskService(TaskServiceConfig{
		TaskRepo:     db.NewTaskRepository(database, log),
		SoftwareRepo: softwareRepo,
		Logger:       log,
	})
	hostnames := NewHostnameService(HostnameServiceConfig{
		Resolver: resolver,
		Logger:   log,
		TTL:      time.Hour,
	})
	return NewInstallService(InstallServiceConfig{
		SoftwareRepo: softwareRepo,
		DownloadRepo: db.NewDownloadRepository(database, log),
		Tasks:        tasks,
		Hostnames:    hostnames,
		Storage: config.StorageConfig{
			PublicURL:   "https://portal.example.com",
			MediaPrefix: "/media/",
		},
		Logger: log,
	})
}

func TestTriggerInstall(t *testing.T) {
	database := openTestDB(t)
	software := seedSoftware(t, database)
	resolver := &fakeResolver{answer: domain.ResolvedHostname{Hostname: "WKS-042", Found: true}}
	service := newInstallServiceForTest(t, database, resolver)
	ctx := context.Background()

	task, err := service.TriggerInstall(ctx, ports.InstallRequest{
		SessionID: "sess-1",
		Identity:  "jdoe",
		Slug:      software.Slug,
		ClientIP:  "10.0.0.7",
		UserAgent: "Mozilla/5.0",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusPending, task.Status)
	assert.Equal(t, "WKS-042", task.Hostname)
	assert.Equal(t, "https://portal.example.com/media/installers/7zip-24.08.exe", task.InstallerURL)

	var refreshed domain.Software
	require.NoError(t, database.First(&refreshed, software.ID).Error)
	assert.Equal(t, uint(1), refreshed.DownloadCount)

	var downloads int64
	require.NoError(t, database.Model(&domain.SoftwareDownload{}).Count(&downloads).Error)
	assert.Equal(t, int64(1), downloads)
}

func TestTriggerInstallUnresolvedHost(t *testing.T) {
	database := openTestDB(t)
	software := seedSoftware(t, database)
	resolver := &fakeResolver{}
	service := newInstallServiceForTest(t, database, resolver)
	ctx := context.Background()

	_, err := service.TriggerInstall(ctx, ports.InstallRequest{
		SessionID: "sess-1",
		Identity:  "ghost",
		Slug:      software.Slug,
	})
	require.ErrorIs(t, err, ErrInstallHostUnresolved)

	// Denied installs must leave no trace: no task, no download record.
	var tasks int64
	require.NoError(t, database.Model(&domain.InstallationTask{}).Count(&tasks).Error)
	assert.Zero(t, tasks)
	var downloads int64
	require.NoError(t, database.Model(&domain.SoftwareDownload{}).Count(&downloads).Error)
	assert.Zero(t, downloads)
}

func TestTriggerInstallUnknownOrInactive(t *testing.T) {
	database := openTestDB(t)
	resolver := &fakeResolver{answer: domain.ResolvedHostname{Hostname: "WKS-042", Found: true}}
	service := newInstallServiceForTest(t, database, resolver)
	ctx := context.Background()

	_, err := service.TriggerInstall(ctx, ports.InstallRequest{SessionID: "s", Identity: "jdoe", Slug: "nope"})
	assert.ErrorIs(t, err, ErrInstallNotFound)

	inactive := &domain.Software{
		Name:          "Old Tool",
		Version:       "1.0",
		Category:      domain.CategoryOther,
		InstallerPath: "installers/old.exe",
		IsActive:      false,
	}
	require.NoError(t, database.Create(inactive).Error)

	_, err = service.TriggerInstall(ctx, ports.InstallRequest{SessionID: "s", Identity: "jdoe", Slug: inactive.Slug})
	assert.ErrorIs(t, err, ErrInstallNotFound)
}
