package influxdb

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTasks(t *testing.T) {
	t.Run("empty filter omits query string", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/api/v2/tasks", r.URL.Path)
			assert.Empty(t, r.URL.RawQuery)
			assert.Equal(t, "Token some-token", r.Header.Get("Authorization"))
			w.Write([]byte(`{"tasks":[{"id":"0a1b2c3d4e5f0000","name":"downsample cpu","status":"active","flux":"option task = {name: \"downsample cpu\", every: 1h}"}]}`))
		})

		tasks, err := client.ListTasks(context.Background(), ListTasksRequest{})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "downsample cpu", tasks[0].Name)
		assert.Equal(t, TaskStatusActive, tasks[0].Status)
	})

	t.Run("filter fields are encoded", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "some-org_id", q.Get("orgID"))
			assert.Equal(t, "basic", q.Get("type"))
			assert.Equal(t, "inactive", q.Get("status"))
			assert.Equal(t, "25", q.Get("limit"))
			assert.False(t, q.Has("name"))
			assert.False(t, q.Has("after"))
			w.Write([]byte(`{"tasks":[]}`))
		})

		tasks, err := client.ListTasks(context.Background(), ListTasksRequest{
			OrgID:  "some-org_id",
			Type:   TaskTypeBasic,
			Status: TaskStatusInactive,
			Limit:  25,
		})
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("API error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"code":"internal error","message":"unexpected error"}`))
		})

		_, err := client.ListTasks(context.Background(), ListTasksRequest{})
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	})
}

func TestFindTask(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v2/tasks/0a1b2c3d4e5f0000", r.URL.Path)
		w.Write([]byte(`{"id":"0a1b2c3d4e5f0000","orgID":"some-org_id","name":"downsample cpu","status":"active","flux":"from(bucket: \"telegraf\")","every":"1h"}`))
	})

	task, err := client.FindTask(context.Background(), "0a1b2c3d4e5f0000")
	require.NoError(t, err)
	assert.Equal(t, "0a1b2c3d4e5f0000", task.ID)
	assert.Equal(t, "1h", task.Every)
	assert.Equal(t, TaskStatusActive, task.Status)
}

func TestCreateTask(t *testing.T) {
	flux := `option task = {name: "downsample cpu", every: 1h}
from(bucket: "telegraf") |> range(start: -task.every)`

	t.Run("201 accepted", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/v2/tasks", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.JSONEq(t, `{"flux":"option task = {name: \"downsample cpu\", every: 1h}\nfrom(bucket: \"telegraf\") |> range(start: -task.every)","orgID":"some-org_id"}`, string(body))

			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"0a1b2c3d4e5f0000","name":"downsample cpu","status":"active"}`))
		})

		err := client.CreateTask(context.Background(), CreateTaskRequest{
			Flux:  flux,
			OrgID: "some-org_id",
		})
		assert.NoError(t, err)
	})

	t.Run("200 accepted", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"id":"0a1b2c3d4e5f0000"}`))
		})

		err := client.CreateTask(context.Background(), CreateTaskRequest{Flux: flux, Org: "my-org"})
		assert.NoError(t, err)
	})

	t.Run("422 rejected", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"code":"unprocessable entity","message":"failed to create task: invalid flux"}`))
		})

		err := client.CreateTask(context.Background(), CreateTaskRequest{Flux: "nonsense"})
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
		assert.Contains(t, apiErr.Body, "invalid flux")
	})
}

func TestUpdateTask(t *testing.T) {
	t.Run("set status", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.Equal(t, "/api/v2/tasks/0a1b2c3d4e5f0000", r.URL.Path)

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.JSONEq(t, `{"status":"inactive"}`, string(body))

			w.Write([]byte(`{"id":"0a1b2c3d4e5f0000","name":"downsample cpu","status":"inactive"}`))
		})

		status := TaskStatusInactive
		task, err := client.UpdateTask(context.Background(), "0a1b2c3d4e5f0000", TaskUpdate{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, TaskStatusInactive, task.Status)
	})

	t.Run("empty update sends empty object", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.Equal(t, "{}", string(body))

			w.Write([]byte(`{"id":"0a1b2c3d4e5f0000","name":"downsample cpu","status":"active"}`))
		})

		_, err := client.UpdateTask(context.Background(), "0a1b2c3d4e5f0000", TaskUpdate{})
		require.NoError(t, err)
	})
}

func TestDeleteTask(t *testing.T) {
	t.Run("204 accepted", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/api/v2/tasks/0a1b2c3d4e5f0000", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		})

		assert.NoError(t, client.DeleteTask(context.Background(), "0a1b2c3d4e5f0000"))
	})

	t.Run("200 accepted", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		assert.NoError(t, client.DeleteTask(context.Background(), "0a1b2c3d4e5f0000"))
	})

	t.Run("404 rejected", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"code":"not found","message":"task not found"}`))
		})

		err := client.DeleteTask(context.Background(), "missing")
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.True(t, apiErr.IsNotFound())
	})
}
