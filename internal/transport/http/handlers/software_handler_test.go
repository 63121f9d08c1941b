package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/softdepot/backend/internal/core/ports"
	"github.com/softdepot/backend/internal/domain"
	"github.com/softdepot/backend/internal/transport/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSoftwareOverHTTP(t *testing.T) {
	app, database := newTestApp(t, &stubResolver{})

	resp := doJSON(t, app, http.MethodPost, "/api/v1/software/", dto.CreateSoftwareRequest{
		Name:          "Visual Studio Code",
		Version:       "1.92",
		Category:      "DEVELOPMENT",
		InstallerPath: "installers/vscode-1.92.exe",
		InstallArgs:   "/VERYSILENT /MERGETASKS=!runcode",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body dto.SoftwareResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, "visual-studio-code-1-92", body.Slug)
	assert.Equal(t, domain.CategoryDevelopment, body.Category)

	var stored domain.Software
	require.NoError(t, database.First(&stored, body.ID).Error)
	assert.True(t, stored.IsActive)
}

func TestCreateSoftwareValidation(t *testing.T) {
	app, _ := newTestApp(t, &stubResolver{})

	resp := doJSON(t, app, http.MethodPost, "/api/v1/software/", dto.CreateSoftwareRequest{
		Name:     "Broken",
		Category: "GAMES",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body dto.ErrorResponse
	decodeJSON(t, resp, &body)
	assert.Contains(t, body.Details, "version is required")
	assert.Contains(t, body.Details, "installer_path is required")
	assert.Contains(t, body.Details, "category must be one of: OFFICE, BROWSER, DEVELOPMENT, DESIGN, SECURITY, UTILITIES, OTHER")
}

func TestListSoftwareFilters(t *testing.T) {
	app, database := newTestApp(t, &stubResolver{})
	seedSoftware(t, database) // 7-Zip, UTILITIES
	require.NoError(t, database.Create(&domain.Software{
		Name:          "Firefox",
		Version:       "128.0",
		Category:      domain.CategoryBrowser,
		InstallerPath: "installers/firefox.msi",
		IsActive:      true,
	}).Error)
	require.NoError(t, database.Create(&domain.Software{
		Name:          "Retired Tool",
		Version:       "0.9",
		Category:      domain.CategoryOther,
		InstallerPath: "installers/retired.exe",
		IsActive:      false,
	}).Error)

	// Inactive entries never show up in the catalog.
	resp := doAsUser(t, app, http.MethodGet, "/api/v1/software/")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list []dto.SoftwareResponse
	decodeJSON(t, resp, &list)
	require.Len(t, list, 2)

	resp = doAsUser(t, app, http.MethodGet, "/api/v1/software/?category=BROWSER")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Firefox", list[0].Name)

	resp = doAsUser(t, app, http.MethodGet, "/api/v1/software/?search=fire")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Firefox", list[0].Name)

	resp = doAsUser(t, app, http.MethodGet, "/api/v1/software/?category=GAMES")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetSoftwareBySlug(t *testing.T) {
	app, database := newTestApp(t, &stubResolver{})
	software := seedSoftware(t, database)

	resp := doAsUser(t, app, http.MethodGet, "/api/v1/software/"+software.Slug+"/")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body dto.SoftwareResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, software.Name, body.Name)

	resp = doAsUser(t, app, http.MethodGet, "/api/v1/software/nope/")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetStats(t *testing.T) {
	app, database := newTestApp(t, &stubResolver{})
	seedSoftware(t, database)
	require.NoError(t, database.Create(&domain.Software{
		Name:          "Retired Tool",
		Version:       "0.9",
		Category:      domain.CategoryOther,
		InstallerPath: "installers/retired.exe",
		IsActive:      false,
	}).Error)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/software/stats", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var stats ports.CatalogStats
	decodeJSON(t, resp, &stats)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Active)
	assert.Equal(t, int64(1), stats.ByCategory[domain.CategoryUtilities])
}
