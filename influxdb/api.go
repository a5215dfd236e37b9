package influxdb

import (
	"context"
)

// API defines the interface for InfluxDB operations
type API interface {
	// Connection probes
	Ping(ctx context.Context) error
	Health(ctx context.Context) (*HealthCheck, error)

	// Label operations
	Labels(ctx context.Context) ([]Label, error)
	LabelsByOrg(ctx context.Context, orgID string) ([]Label, error)
	FindLabel(ctx context.Context, labelID string) (*Label, error)
	CreateLabel(ctx context.Context, req LabelCreateRequest) (*Label, error)
	UpdateLabel(ctx context.Context, labelID string, upd LabelUpdate) (*Label, error)
	DeleteLabel(ctx context.Context, labelID string) error

	// Task operations
	ListTasks(ctx context.Context, req ListTasksRequest) ([]Task, error)
	FindTask(ctx context.Context, taskID string) (*Task, error)
	CreateTask(ctx context.Context, req CreateTaskRequest) error
	UpdateTask(ctx context.Context, taskID string, upd TaskUpdate) (*Task, error)
	DeleteTask(ctx context.Context, taskID string) error
}

// TaskFormatter defines the interface for formatting task output
type TaskFormatter interface {
	FormatTaskList(tasks []TaskInfo, options FormatOptions) string
	FormatTasksToDelete(tasks []TaskInfo) string
	FormatLabelList(labels []Label, options FormatOptions) string
}

// FormatOptions contains options for formatting output
type FormatOptions struct {
	ShowDetails bool
	ShowFlux    bool
}
