package dto

import (
	"time"

	"github.com/softdepot/backend/internal/domain"
)

type CreateSoftwareRequest struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	InstallerPath string `json:"installer_path"`
	InstallArgs   string `json:"install_args"`
	IsFeatured    bool   `json:"is_featured"`
}

func (r *CreateSoftwareRequest) Validate() []string {
	var errors []string
	if r.Name == "" {
		errors = append(errors, "name is required")
	}
	if r.Version == "" {
		errors = append(errors, "version is required")
	}
	if r.InstallerPath == "" {
		errors = append(errors, "installer_path is required")
	}
	if r.Category != "" && !domain.SoftwareCategory(r.Category).Valid() {
		errors = append(errors, "category must be one of: OFFICE, BROWSER, DEVELOPMENT, DESIGN, SECURITY, UTILITIES, OTHER")
	}
	return errors
}

type SoftwareResponse struct {
	ID            uint                    `json:"id"`
	Name          string                  `json:"name"`
	Slug          string                  `json:"slug"`
	Description   string                  `json:"description"`
	Version       string                  `json:"version"`
	Category      domain.SoftwareCategory `json:"category"`
	InstallArgs   string                  `json:"install_args"`
	IsFeatured    bool                    `json:"is_featured"`
	DownloadCount uint                    `json:"download_count"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

func SoftwareToResponse(software *domain.Software) SoftwareResponse {
	return SoftwareResponse{
		ID:            software.ID,
		Name:          software.Name,
		Slug:          software.Slug,
		Description:   software.Description,
		Version:       software.Version,
		Category:      software.Category,
		InstallArgs:   software.InstallArgs,
		IsFeatured:    software.IsFeatured,
		DownloadCount: software.DownloadCount,
		CreatedAt:     software.CreatedAt,
		UpdatedAt:     software.UpdatedAt,
	}
}

func SoftwaresToResponse(softwares []domain.Software) []SoftwareResponse {
	responses := make([]SoftwareResponse, len(softwares))
	for i := range softwares {
		responses[i] = SoftwareToResponse(&softwares[i])
	}
	return responses
}

// SessionHostnameResponse is what the catalog pages display in the "your
// machine" banner.
type SessionHostnameResponse struct {
	Hostname string `json:"hostname,omitempty"`
	Resolved bool   `json:"resolved"`
}
