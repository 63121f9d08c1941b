package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/softdepot/backend/internal/domain"
	"github.com/softdepot/backend/internal/transport/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doAsUser(t *testing.T, app *fiber.App, method, target string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, target, nil)
	require.NoError(t, err)
	req.Header.Set("X-Remote-User", "jdoe")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestTriggerInstallOverHTTP(t *testing.T) {
	resolver := &stubResolver{answer: domain.ResolvedHostname{Hostname: "WKS-042", Found: true}}
	app, database := newTestApp(t, resolver)
	software := seedSoftware(t, database)

	resp := doAsUser(t, app, http.MethodPost, "/api/v1/software/"+software.Slug+"/install/")
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	var body dto.InstallTriggeredResponse
	decodeJSON(t, resp, &body)
	assert.NotZero(t, body.TaskID)
	assert.Equal(t, "WKS-042", body.Hostname)
	assert.Equal(t, domain.TaskStatusPending, body.Status)

	// The task carries the absolute installer URL built from storage config.
	var task domain.InstallationTask
	require.NoError(t, database.First(&task, body.TaskID).Error)
	assert.Equal(t, "https://portal.example.com/media/installers/7zip-24.08.exe", task.InstallerURL)
}

func TestTriggerInstallDeniedWhenUnresolved(t *testing.T) {
	app, database := newTestApp(t, &stubResolver{})
	software := seedSoftware(t, database)

	resp := doAsUser(t, app, http.MethodPost, "/api/v1/software/"+software.Slug+"/install/")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	var body dto.ErrorResponse
	decodeJSON(t, resp, &body)
	assert.Contains(t, body.Error, "could not be identified")

	var count int64
	require.NoError(t, database.Model(&domain.InstallationTask{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTriggerInstallUnknownSlug(t *testing.T) {
	resolver := &stubResolver{answer: domain.ResolvedHostname{Hostname: "WKS-042", Found: true}}
	app, _ := newTestApp(t, resolver)

	resp := doAsUser(t, app, http.MethodPost, "/api/v1/software/nope/install/")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestTriggerInstallRequiresIdentity(t *testing.T) {
	app, database := newTestApp(t, &stubResolver{})
	software := seedSoftware(t, database)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/software/"+software.Slug+"/install/", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGetSessionHostname(t *testing.T) {
	resolver := &stubResolver{answer: domain.ResolvedHostname{Hostname: "WKS-042", Found: true}}
	app, _ := newTestApp(t, resolver)

	resp := doAsUser(t, app, http.MethodGet, "/api/v1/session/hostname")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// The first identified request gets a session cookie.
	var sawCookie bool
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "sdp_session" && cookie.Value != "" {
			sawCookie = true
		}
	}
	assert.True(t, sawCookie)

	var body dto.SessionHostnameResponse
	decodeJSON(t, resp, &body)
	assert.True(t, body.Resolved)
	assert.Equal(t, "WKS-042", body.Hostname)
}

func TestGetSessionHostnameUnresolved(t *testing.T) {
	app, _ := newTestApp(t, &stubResolver{})

	resp := doAsUser(t, app, http.MethodGet, "/api/v1/session/hostname")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body dto.SessionHostnameResponse
	decodeJSON(t, resp, &body)
	assert.False(t, body.Resolved)
	assert.Empty(t, body.Hostname)
}

func TestLogout(t *testing.T) {
	app, _ := newTestApp(t, &stubResolver{})

	resp := doAsUser(t, app, http.MethodPost, "/api/v1/session/logout")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body dto.StatusResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, "success", body.Status)
}
