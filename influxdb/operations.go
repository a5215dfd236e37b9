package influxdb

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DeleteOptions contains options for deleting tasks
type DeleteOptions struct {
	DryRun        bool
	ConfirmDelete bool
}

// Operations handles task search and delete operations
type Operations struct {
	api       API
	logger    zerolog.Logger
	formatter TaskFormatter
	org       string
}

// NewOperations creates a new Operations instance
func NewOperations(api API, logger zerolog.Logger) *Operations {
	return &Operations{
		api:       api,
		logger:    logger,
		formatter: NewConsoleFormatter(),
	}
}

// SetOrg scopes task searches to the given organization name.
func (o *Operations) SetOrg(org string) {
	o.org = org
}

// TaskInfo contains relevant task information for filtering and display.
// Timestamps are parsed from the server's string forms; a field that is
// absent or unparsable is the zero time.
type TaskInfo struct {
	ID              string
	Name            string
	Org             string
	OrgID           string
	Status          string
	Description     string
	Flux            string
	Every           string
	Cron            string
	Offset          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	LatestCompleted time.Time
}

// Active reports whether the task is scheduled to run.
func (t TaskInfo) Active() bool {
	return t.Status == string(TaskStatusActive)
}

// NewTaskInfo converts a task into the flattened view used for
// filtering and display.
func NewTaskInfo(task Task) TaskInfo {
	return TaskInfo{
		ID:              task.ID,
		Name:            task.Name,
		Org:             task.Org,
		OrgID:           task.OrgID,
		Status:          string(task.Status),
		Description:     task.Description,
		Flux:            task.Flux,
		Every:           task.Every,
		Cron:            task.Cron,
		Offset:          task.Offset,
		CreatedAt:       parseTime(task.CreatedAt),
		UpdatedAt:       parseTime(task.UpdatedAt),
		LatestCompleted: parseTime(task.LatestCompleted),
	}
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// GetAllTasks returns all tasks as TaskInfo values
func (o *Operations) GetAllTasks(ctx context.Context) ([]TaskInfo, error) {
	return o.SearchTasks(ctx, func(TaskInfo) bool { return true })
}

// SearchTasks returns the tasks matching the filter function, sorted by
// name.
func (o *Operations) SearchTasks(ctx context.Context, filterFunc func(TaskInfo) bool) ([]TaskInfo, error) {
	tasks, err := o.api.ListTasks(ctx, ListTasksRequest{Org: o.org})
	if err != nil {
		return nil, err
	}

	var results []TaskInfo
	for _, task := range tasks {
		info := NewTaskInfo(task)
		if filterFunc(info) {
			results = append(results, info)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return strings.ToLower(results[i].Name) < strings.ToLower(results[j].Name)
	})

	o.logger.Info().Msgf("Found %d tasks matching filter", len(results))
	return results, nil
}

// DeleteTasks deletes the given tasks, honoring dry-run and
// confirmation settings.
func (o *Operations) DeleteTasks(ctx context.Context, tasks []TaskInfo, opts DeleteOptions) error {
	if len(tasks) == 0 {
		o.logger.Info().Msg("No tasks to delete")
		return nil
	}

	if opts.DryRun {
		o.logger.Info().Msg("DRY RUN MODE - No tasks will be deleted")
		fmt.Print(o.formatter.FormatTasksToDelete(tasks))
		return nil
	}

	if opts.ConfirmDelete {
		fmt.Print(o.formatter.FormatTasksToDelete(tasks))
		if !o.confirmDeletion(len(tasks)) {
			o.logger.Info().Msg("Deletion cancelled by user")
			return nil
		}
	}

	result := o.BatchDeleteTasks(ctx, tasks)

	o.logger.Info().
		Int("deleted", len(result.Successful)).
		Int("failed", len(result.Failed)).
		Msg("Deletion complete")

	for _, failure := range result.Failed {
		o.logger.Error().
			Err(failure.Err).
			Str("id", failure.TaskID).
			Str("name", failure.TaskName).
			Msg("Failed to delete task")
	}

	if len(result.Failed) > 0 {
		return fmt.Errorf("failed to delete %d tasks", len(result.Failed))
	}

	return nil
}

// PauseTasks sets the given tasks to inactive. Already inactive tasks
// are skipped.
func (o *Operations) PauseTasks(ctx context.Context, tasks []TaskInfo, dryRun bool) (int, error) {
	status := TaskStatusInactive
	paused := 0

	for _, task := range tasks {
		if !task.Active() {
			continue
		}

		if dryRun {
			o.logger.Info().Str("id", task.ID).Str("name", task.Name).Msg("Would pause task")
			paused++
			continue
		}

		if _, err := o.api.UpdateTask(ctx, task.ID, TaskUpdate{Status: &status}); err != nil {
			return paused, fmt.Errorf("failed to pause task %s: %w", task.Name, err)
		}

		o.logger.Info().Str("id", task.ID).Str("name", task.Name).Msg("Paused task")
		paused++
	}

	return paused, nil
}

// confirmDeletion prompts the user for confirmation
func (o *Operations) confirmDeletion(count int) bool {
	fmt.Printf("\nAre you sure you want to delete %d task(s)? [y/N]: ", count)

	var response string
	fmt.Scanln(&response)

	return strings.ToLower(strings.TrimSpace(response)) == "y"
}
