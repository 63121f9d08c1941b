package dto

import (
	"time"

	"github.com/softdepot/backend/internal/domain"
)

// CreateTaskRequest is the body of POST /api/tasks/create/.
type CreateTaskRequest struct {
	SoftwareID   uint   `json:"software_id"`
	Hostname     string `json:"hostname"`
	InstallerURL string `json:"installer_url"`
}

// Validate names every missing required field, matching the wire contract of
// "client error identifying the offending field".
func (r *CreateTaskRequest) Validate() []string {
	var errors []string
	if r.SoftwareID == 0 {
		errors = append(errors, "software_id is required")
	}
	if r.Hostname == "" {
		errors = append(errors, "hostname is required")
	}
	if r.InstallerURL == "" {
		errors = append(errors, "installer_url is required")
	}
	return errors
}

// UpdateTaskRequest is the body of PATCH /api/tasks/:id/. Log defaults to
// the empty string when omitted.
type UpdateTaskRequest struct {
	Status string `json:"status"`
	Log    string `json:"log"`
}

// PendingTaskResponse is one element of the agent poll response. The
// software name/version and install args are projected inline so the agent
// needs no second request.
type PendingTaskResponse struct {
	ID           uint              `json:"id"`
	Software     TaskSoftwareInfo  `json:"software"`
	InstallerURL string            `json:"installer_url"`
	Status       domain.TaskStatus `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	InstallArgs  string            `json:"install_args"`
}

type TaskSoftwareInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type PendingTasksResponse struct {
	Tasks []PendingTaskResponse `json:"tasks"`
}

func TaskToPendingResponse(task *domain.InstallationTask) PendingTaskResponse {
	resp := PendingTaskResponse{
		ID:           task.ID,
		InstallerURL: task.InstallerURL,
		Status:       task.Status,
		CreatedAt:    task.CreatedAt,
	}
	if task.Software != nil {
		resp.Software = TaskSoftwareInfo{Name: task.Software.Name, Version: task.Software.Version}
		resp.InstallArgs = task.Software.InstallArgs
	}
	return resp
}

func TasksToPendingResponse(tasks []domain.InstallationTask) PendingTasksResponse {
	resp := PendingTasksResponse{Tasks: make([]PendingTaskResponse, len(tasks))}
	for i := range tasks {
		resp.Tasks[i] = TaskToPendingResponse(&tasks[i])
	}
	return resp
}

// CreatedTaskResponse is the body returned for a successfully created task.
type CreatedTaskResponse struct {
	ID        uint              `json:"id"`
	Status    domain.TaskStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

// InstallTriggeredResponse is the portal-side acknowledgement of an accepted
// install.
type InstallTriggeredResponse struct {
	TaskID   uint              `json:"task_id"`
	Hostname string            `json:"hostname"`
	Status   domain.TaskStatus `json:"status"`
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
