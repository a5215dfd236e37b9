package influxdb

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// deleteConcurrency bounds concurrent delete requests against a single
// server.
const deleteConcurrency = 5

// BatchDeleteResult contains the results of a batch delete operation
type BatchDeleteResult struct {
	Requested  int
	Successful []string
	Failed     []DeleteError
}

// DeleteError contains information about a failed delete operation
type DeleteError struct {
	TaskID   string
	TaskName string
	Err      error
}

// Error implements the error interface
func (e DeleteError) Error() string {
	return fmt.Sprintf("failed to delete task %s (ID: %s): %v", e.TaskName, e.TaskID, e.Err)
}

// BatchDeleteTasks deletes tasks concurrently with per-task error
// aggregation. Individual failures do not stop the batch.
func (o *Operations) BatchDeleteTasks(ctx context.Context, tasks []TaskInfo) BatchDeleteResult {
	result := BatchDeleteResult{
		Requested: len(tasks),
	}

	if len(tasks) == 0 {
		return result
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(deleteConcurrency)

	successChan := make(chan string, len(tasks))
	errorChan := make(chan DeleteError, len(tasks))

	for _, task := range tasks {
		task := task
		g.Go(func() error {
			err := o.api.DeleteTask(ctx, task.ID)
			if err != nil {
				errorChan <- DeleteError{
					TaskID:   task.ID,
					TaskName: task.Name,
					Err:      err,
				}
			} else {
				successChan <- task.ID
			}
			return nil // Don't stop on individual errors
		})
	}

	g.Wait()
	close(successChan)
	close(errorChan)

	for id := range successChan {
		result.Successful = append(result.Successful, id)
	}
	for err := range errorChan {
		result.Failed = append(result.Failed, err)
	}

	return result
}

// ResourceCounts holds per-resource totals for an instance.
type ResourceCounts struct {
	Tasks  int
	Labels int
}

// CountResources fetches task and label counts concurrently.
func (o *Operations) CountResources(ctx context.Context, orgID string) (ResourceCounts, error) {
	var counts ResourceCounts

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		tasks, err := o.api.ListTasks(ctx, ListTasksRequest{OrgID: orgID})
		if err != nil {
			return fmt.Errorf("failed to count tasks: %w", err)
		}
		counts.Tasks = len(tasks)
		return nil
	})

	g.Go(func() error {
		var (
			labels []Label
			err    error
		)
		if orgID != "" {
			labels, err = o.api.LabelsByOrg(ctx, orgID)
		} else {
			labels, err = o.api.Labels(ctx)
		}
		if err != nil {
			return fmt.Errorf("failed to count labels: %w", err)
		}
		counts.Labels = len(labels)
		return nil
	})

	if err := g.Wait(); err != nil {
		return ResourceCounts{}, err
	}

	return counts, nil
}
