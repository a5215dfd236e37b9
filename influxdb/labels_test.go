package influxdb

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, "some-token", zerolog.Nop())
	require.NoError(t, err)
	return client
}

func TestLabels(t *testing.T) {
	t.Run("all labels", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/api/v2/labels", r.URL.Path)
			assert.Empty(t, r.URL.RawQuery)
			assert.Equal(t, "Token some-token", r.Header.Get("Authorization"))
			w.Write([]byte(`{"labels":[{"id":"09c2cb3e7b5a0000","name":"prod"},{"id":"09c2cb3e7b5a0001","name":"staging","properties":{"color":"ffb3b3"}}]}`))
		})

		labels, err := client.Labels(context.Background())
		require.NoError(t, err)
		require.Len(t, labels, 2)
		assert.Equal(t, "prod", labels[0].Name)
		assert.Equal(t, "ffb3b3", labels[1].Properties["color"])
	})

	t.Run("scoped by organization", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v2/labels", r.URL.Path)
			assert.Equal(t, "orgID=some-org_id", r.URL.RawQuery)
			w.Write([]byte(`{"labels":[]}`))
		})

		labels, err := client.LabelsByOrg(context.Background(), "some-org_id")
		require.NoError(t, err)
		assert.Empty(t, labels)
	})

	t.Run("API error carries body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"code":"unauthorized","message":"unauthorized access"}`))
		})

		_, err := client.Labels(context.Background())
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		assert.Equal(t, `{"code":"unauthorized","message":"unauthorized access"}`, apiErr.Body)
		assert.True(t, apiErr.IsUnauthorized())
	})

	t.Run("invalid JSON on success", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>not json</html>`))
		})

		_, err := client.Labels(context.Background())
		require.Error(t, err)

		var decodeErr *DecodeError
		assert.ErrorAs(t, err, &decodeErr)
	})
}

func TestFindLabel(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/api/v2/labels/09c2cb3e7b5a0000", r.URL.Path)
			w.Write([]byte(`{"label":{"id":"09c2cb3e7b5a0000","orgID":"some-org_id","name":"prod"}}`))
		})

		label, err := client.FindLabel(context.Background(), "09c2cb3e7b5a0000")
		require.NoError(t, err)
		assert.Equal(t, "09c2cb3e7b5a0000", label.ID)
		assert.Equal(t, "some-org_id", label.OrgID)
		assert.Equal(t, "prod", label.Name)
	})

	t.Run("not found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"code":"not found","message":"label not found"}`))
		})

		_, err := client.FindLabel(context.Background(), "missing")
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.True(t, apiErr.IsNotFound())
	})
}

func TestCreateLabel(t *testing.T) {
	t.Run("without properties", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/v2/labels", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.JSONEq(t, `{"orgID":"some-org_id","name":"prod"}`, string(body))
			assert.NotContains(t, string(body), "properties")

			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"label":{"id":"09c2cb3e7b5a0000","orgID":"some-org_id","name":"prod"}}`))
		})

		label, err := client.CreateLabel(context.Background(), LabelCreateRequest{
			OrgID: "some-org_id",
			Name:  "prod",
		})
		require.NoError(t, err)
		assert.Equal(t, "09c2cb3e7b5a0000", label.ID)
	})

	t.Run("with properties", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.JSONEq(t, `{"orgID":"some-org_id","name":"prod","properties":{"color":"ffb3b3","description":"production"}}`, string(body))

			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"label":{"id":"09c2cb3e7b5a0000","orgID":"some-org_id","name":"prod","properties":{"color":"ffb3b3","description":"production"}}}`))
		})

		label, err := client.CreateLabel(context.Background(), LabelCreateRequest{
			OrgID:      "some-org_id",
			Name:       "prod",
			Properties: map[string]string{"color": "ffb3b3", "description": "production"},
		})
		require.NoError(t, err)
		assert.Equal(t, "ffb3b3", label.Properties["color"])
	})

	t.Run("200 is rejected", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"label":{"id":"09c2cb3e7b5a0000"}}`))
		})

		_, err := client.CreateLabel(context.Background(), LabelCreateRequest{
			OrgID: "some-org_id",
			Name:  "prod",
		})
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusOK, apiErr.StatusCode)
	})
}

func TestUpdateLabel(t *testing.T) {
	t.Run("rename", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.Equal(t, "/api/v2/labels/09c2cb3e7b5a0000", r.URL.Path)

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.JSONEq(t, `{"name":"production"}`, string(body))

			w.Write([]byte(`{"label":{"id":"09c2cb3e7b5a0000","name":"production"}}`))
		})

		name := "production"
		label, err := client.UpdateLabel(context.Background(), "09c2cb3e7b5a0000", LabelUpdate{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "production", label.Name)
	})

	t.Run("empty update sends empty object", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.Equal(t, "{}", string(body))

			w.Write([]byte(`{"label":{"id":"09c2cb3e7b5a0000","name":"prod"}}`))
		})

		_, err := client.UpdateLabel(context.Background(), "09c2cb3e7b5a0000", LabelUpdate{})
		require.NoError(t, err)
	})
}

func TestDeleteLabel(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/api/v2/labels/09c2cb3e7b5a0000", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		})

		assert.NoError(t, client.DeleteLabel(context.Background(), "09c2cb3e7b5a0000"))
	})

	t.Run("200 is rejected", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		err := client.DeleteLabel(context.Background(), "09c2cb3e7b5a0000")
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusOK, apiErr.StatusCode)
	})
}
