package influxdb

import (
	"context"
	"net/http"
	"net/url"
)

// Label represents a label resource
type Label struct {
	ID         string            `json:"id,omitempty"`
	OrgID      string            `json:"orgID,omitempty"`
	Name       string            `json:"name,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

// LabelCreateRequest is the request body for creating a label
type LabelCreateRequest struct {
	OrgID      string            `json:"orgID"`
	Name       string            `json:"name"`
	Properties map[string]string `json:"properties,omitempty"`
}

// LabelUpdate describes a partial update of a label. Nil fields are
// left untouched by the server; an empty update marshals to {}.
type LabelUpdate struct {
	Name       *string           `json:"name,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

type labelResponse struct {
	Label Label `json:"label"`
}

type labelsResponse struct {
	Labels []Label `json:"labels"`
}

// Labels retrieves all labels.
func (c *Client) Labels(ctx context.Context) ([]Label, error) {
	return c.labels(ctx, "")
}

// LabelsByOrg retrieves the labels belonging to the given organization.
func (c *Client) LabelsByOrg(ctx context.Context, orgID string) ([]Label, error) {
	return c.labels(ctx, orgID)
}

func (c *Client) labels(ctx context.Context, orgID string) ([]Label, error) {
	query := url.Values{}
	if orgID != "" {
		query.Set("orgID", orgID)
	}

	resp, err := doJSON[labelsResponse](ctx, c, http.MethodGet, "/api/v2/labels", query, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().Int("count", len(resp.Labels)).Msg("Retrieved labels from InfluxDB")
	return resp.Labels, nil
}

// FindLabel retrieves a single label by ID.
func (c *Client) FindLabel(ctx context.Context, labelID string) (*Label, error) {
	resp, err := doJSON[labelResponse](ctx, c, http.MethodGet, "/api/v2/labels/"+labelID, nil, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	return &resp.Label, nil
}

// CreateLabel creates a new label and returns it as stored by the
// server.
func (c *Client) CreateLabel(ctx context.Context, req LabelCreateRequest) (*Label, error) {
	resp, err := doJSON[labelResponse](ctx, c, http.MethodPost, "/api/v2/labels", nil, req, http.StatusCreated)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().Str("id", resp.Label.ID).Str("name", resp.Label.Name).Msg("Created label")
	return &resp.Label, nil
}

// UpdateLabel applies a partial update to a label and returns the
// updated label.
func (c *Client) UpdateLabel(ctx context.Context, labelID string, upd LabelUpdate) (*Label, error) {
	resp, err := doJSON[labelResponse](ctx, c, http.MethodPatch, "/api/v2/labels/"+labelID, nil, upd, http.StatusOK)
	if err != nil {
		return nil, err
	}

	return &resp.Label, nil
}

// DeleteLabel deletes a label by ID.
func (c *Client) DeleteLabel(ctx context.Context, labelID string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/api/v2/labels/"+labelID, nil, nil, http.StatusNoContent)
	if err != nil {
		return err
	}

	c.logger.Debug().Str("id", labelID).Msg("Deleted label")
	return nil
}
