package domain

import (
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ==================== ENUMS ====================

type SoftwareCategory string

const (
	CategoryOffice      SoftwareCategory = "OFFICE"
	CategoryBrowser     SoftwareCategory = "BROWSER"
	CategoryDevelopment SoftwareCategory = "DEVELOPMENT"
	CategoryDesign      SoftwareCategory = "DESIGN"
	CategorySecurity    SoftwareCategory = "SECURITY"
	CategoryUtilities   SoftwareCategory = "UTILITIES"
	CategoryOther       SoftwareCategory = "OTHER"
)

func (c SoftwareCategory) Valid() bool {
	switch c {
	case CategoryOffice, CategoryBrowser, CategoryDevelopment, CategoryDesign,
		CategorySecurity, CategoryUtilities, CategoryOther:
		return true
	}
	return false
}

// ==================== ENTITIES ====================

// Software is a catalog entry. The installer artifact itself lives in an
// external file store; InstallerPath is its location relative to that store's
// public base URL.
type Software struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string           `gorm:"size:200;not null;index" json:"name"`
	Slug        string           `gorm:"size:200;uniqueIndex;not null" json:"slug"`
	Description string           `gorm:"type:text" json:"description"`
	Version     string           `gorm:"size:50;not null" json:"version"`
	Category    SoftwareCategory `gorm:"size:20;not null;default:'OTHER';index" json:"category"`

	InstallerPath string `gorm:"size:500;not null" json:"installer_path"`
	InstallArgs   string `gorm:"size:255" json:"install_args"`

	IsActive      bool `gorm:"default:true;index" json:"is_active"`
	IsFeatured    bool `gorm:"default:false" json:"is_featured"`
	DownloadCount uint `gorm:"default:0" json:"download_count"`
}

// BeforeCreate fills in the slug from name and version when it was not set
// explicitly.
func (s *Software) BeforeCreate(tx *gorm.DB) error {
	if s.Slug == "" {
		s.Slug = Slugify(s.Name + " " + s.Version)
	}
	return nil
}

// SoftwareDownload is a best-effort audit record written whenever an install
// is triggered. Losing one of these never blocks the install itself.
type SoftwareDownload struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	DownloadedAt time.Time `gorm:"autoCreateTime;index" json:"downloaded_at"`

	SoftwareID uint      `gorm:"not null;index" json:"software_id"`
	Software   *Software `gorm:"constraint:OnDelete:CASCADE" json:"software,omitempty"`

	UserIdentity string `gorm:"size:255;index" json:"user_identity"`
	IPAddress    string `gorm:"size:45" json:"ip_address"`
	UserAgent    string `gorm:"type:text" json:"user_agent"`
	// Version snapshot at download time; the catalog entry may move on.
	Version string `gorm:"size:50" json:"version"`
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and collapses every run of non-alphanumerics into a
// single hyphen.
func Slugify(s string) string {
	s = slugStrip.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}
