package influxdb

import (
	"context"
	"net/http"

	"github.com/google/go-querystring/query"
)

// TaskStatus represents the run state of a task
type TaskStatus string

const (
	// TaskStatusActive indicates the task is scheduled to run
	TaskStatusActive TaskStatus = "active"
	// TaskStatusInactive indicates the task is paused
	TaskStatusInactive TaskStatus = "inactive"
)

// TaskType represents the kind of a task
type TaskType string

const (
	// TaskTypeBasic is a user-created task
	TaskTypeBasic TaskType = "basic"
	// TaskTypeSystem is a task managed by the server itself
	TaskTypeSystem TaskType = "system"
)

// Task represents a task resource. The scheduling fields (every, cron,
// offset) and the timestamps are kept as the server's string forms.
type Task struct {
	ID              string     `json:"id"`
	OrgID           string     `json:"orgID,omitempty"`
	Org             string     `json:"org,omitempty"`
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	Status          TaskStatus `json:"status,omitempty"`
	Flux            string     `json:"flux"`
	Every           string     `json:"every,omitempty"`
	Cron            string     `json:"cron,omitempty"`
	Offset          string     `json:"offset,omitempty"`
	LatestCompleted string     `json:"latestCompleted,omitempty"`
	CreatedAt       string     `json:"createdAt,omitempty"`
	UpdatedAt       string     `json:"updatedAt,omitempty"`
}

// ListTasksRequest contains the optional filters for listing tasks.
// Zero fields are omitted from the query string entirely.
type ListTasksRequest struct {
	After  string     `url:"after,omitempty"`
	Limit  int        `url:"limit,omitempty"`
	Name   string     `url:"name,omitempty"`
	Org    string     `url:"org,omitempty"`
	OrgID  string     `url:"orgID,omitempty"`
	Status TaskStatus `url:"status,omitempty"`
	Type   TaskType   `url:"type,omitempty"`
	User   string     `url:"user,omitempty"`
}

// CreateTaskRequest is the request body for creating a task. Flux is
// required; the remaining fields are omitted when empty.
type CreateTaskRequest struct {
	Flux        string     `json:"flux"`
	Description string     `json:"description,omitempty"`
	Org         string     `json:"org,omitempty"`
	OrgID       string     `json:"orgID,omitempty"`
	Status      TaskStatus `json:"status,omitempty"`
}

// TaskUpdate describes a partial update of a task. Nil fields are left
// untouched by the server; an empty update marshals to {}.
type TaskUpdate struct {
	Status      *TaskStatus `json:"status,omitempty"`
	Flux        *string     `json:"flux,omitempty"`
	Name        *string     `json:"name,omitempty"`
	Every       *string     `json:"every,omitempty"`
	Cron        *string     `json:"cron,omitempty"`
	Offset      *string     `json:"offset,omitempty"`
	Description *string     `json:"description,omitempty"`
}

type tasksResponse struct {
	Tasks []Task `json:"tasks"`
}

// ListTasks retrieves the tasks matching the given filters.
func (c *Client) ListTasks(ctx context.Context, req ListTasksRequest) ([]Task, error) {
	qs, err := query.Values(req)
	if err != nil {
		return nil, &EncodeError{Err: err}
	}

	resp, err := doJSON[tasksResponse](ctx, c, http.MethodGet, "/api/v2/tasks", qs, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().Int("count", len(resp.Tasks)).Msg("Retrieved tasks from InfluxDB")
	return resp.Tasks, nil
}

// FindTask retrieves a single task by ID.
func (c *Client) FindTask(ctx context.Context, taskID string) (*Task, error) {
	task, err := doJSON[Task](ctx, c, http.MethodGet, "/api/v2/tasks/"+taskID, nil, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	return &task, nil
}

// CreateTask creates a new task. The server's copy of the task is not
// returned; list or find it if the stored form is needed.
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/api/v2/tasks", nil, req, statusAnySuccess)
	if err != nil {
		return err
	}

	c.logger.Debug().Str("org", req.Org).Msg("Created task")
	return nil
}

// UpdateTask applies a partial update to a task and returns the updated
// task.
func (c *Client) UpdateTask(ctx context.Context, taskID string, upd TaskUpdate) (*Task, error) {
	task, err := doJSON[Task](ctx, c, http.MethodPatch, "/api/v2/tasks/"+taskID, nil, upd, http.StatusOK)
	if err != nil {
		return nil, err
	}

	return &task, nil
}

// DeleteTask deletes a task by ID.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/api/v2/tasks/"+taskID, nil, nil, statusAnySuccess)
	if err != nil {
		return err
	}

	c.logger.Debug().Str("id", taskID).Msg("Deleted task")
	return nil
}
