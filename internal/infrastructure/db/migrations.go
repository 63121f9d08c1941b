package db

import (
	"github.com/softdepot/backend/internal/domain"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&domain.Software{},
		&domain.InstallationTask{},
		&domain.SoftwareDownload{},
	)
	if err != nil {
		return err
	}

	return createCustomIndexes(db)
}

func createCustomIndexes(db *gorm.DB) error {
	// Agents poll by (hostname, status=pending) on every interval; this is
	// the hot query of the whole system.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_installation_tasks_host_status
		ON installation_tasks (hostname, status)
	`).Error; err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_software_downloads_software_time
		ON software_downloads (software_id, downloaded_at)
	`).Error; err != nil {
		return err
	}

	return nil
}
