package agentclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingTasks(t *testing.T) {
	var gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Agent-Token")
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/tasks/", r.URL.Path)
		assert.Equal(t, "WKS-042", r.URL.Query().Get("hostname"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tasks":[{"id":7,"software":{"name":"7-Zip","version":"24.08"},"installer_url":"https://portal/media/installers/7zip.exe","status":"pending","install_args":"/S"}]}`))
	}))
	defer server.Close()

	client, err := New(server.URL, WithAgentToken("secret"))
	require.NoError(t, err)

	tasks, err := client.PendingTasks(context.Background(), "WKS-042")
	require.NoError(t, err)
	assert.Equal(t, "secret", gotToken)
	require.Len(t, tasks, 1)
	assert.Equal(t, uint(7), tasks[0].ID)
	assert.Equal(t, "7-Zip", tasks[0].Software.Name)
	assert.Equal(t, "/S", tasks[0].InstallArgs)

	_, err = client.PendingTasks(context.Background(), "")
	assert.Error(t, err)
}

func TestReport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/tasks/7/", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "completed", body["status"])
		assert.Equal(t, "exit code 0", body["log"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer server.Close()

	client, err := New(server.URL)
	require.NoError(t, err)
	require.NoError(t, client.Report(context.Background(), 7, "completed", "exit code 0"))
}

func TestReportConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"task: transition not allowed from current status"}`))
	}))
	defer server.Close()

	client, err := New(server.URL)
	require.NoError(t, err)

	err = client.Report(context.Background(), 7, "in_progress", "")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusConflict, statusErr.StatusCode)
	assert.Contains(t, statusErr.Message, "transition not allowed")
}

func TestCreateTask(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/tasks/create/", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(3), body["software_id"])
		assert.Equal(t, "WKS-042", body["hostname"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":12,"status":"pending","created_at":"2026-08-30T10:00:00Z"}`))
	}))
	defer server.Close()

	client, err := New(server.URL)
	require.NoError(t, err)

	created, err := client.CreateTask(context.Background(), 3, "WKS-042", "https://portal/media/x.exe")
	require.NoError(t, err)
	assert.Equal(t, uint(12), created.ID)
	assert.Equal(t, "pending", created.Status)
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}
