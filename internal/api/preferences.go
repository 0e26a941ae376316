package api

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"jobping-client-go/internal/models"
)

type createPreferenceRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type updatePreferenceRequest struct {
	Value string `json:"value"`
}

// ListPreferences returns the user's preferences in server order. An absent
// collection field is an empty list, not an error.
func (c *Client) ListPreferences(ctx context.Context) ([]models.Preference, error) {
	var resp models.PreferencesResponse
	if err := c.get(ctx, "/api/preferences", &resp); err != nil {
		return nil, err
	}
	if resp.Preferences == nil {
		return []models.Preference{}, nil
	}
	return resp.Preferences, nil
}

// CreatePreference stores a new key/value pair; the server assigns the ID.
// Key and value must be non-empty after trimming.
func (c *Client) CreatePreference(ctx context.Context, key, value string) (*models.Preference, error) {
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" {
		return nil, required("key")
	}
	if value == "" {
		return nil, required("value")
	}

	var pref models.Preference
	if err := c.post(ctx, "/api/preferences", createPreferenceRequest{Key: key, Value: value}, &pref); err != nil {
		return nil, err
	}
	return &pref, nil
}

// UpdatePreference replaces the value of an existing preference.
func (c *Client) UpdatePreference(ctx context.Context, id uuid.UUID, value string) (*models.Preference, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, required("value")
	}

	var pref models.Preference
	if err := c.put(ctx, "/api/preferences/"+id.String(), updatePreferenceRequest{Value: value}, &pref); err != nil {
		return nil, err
	}
	return &pref, nil
}

// DeletePreference removes a preference. The backend answers 204; a
// not-found response surfaces as a RequestError and it is the caller's
// call whether to treat the already-absent row as success.
func (c *Client) DeletePreference(ctx context.Context, id uuid.UUID) error {
	return c.delete(ctx, "/api/preferences/"+id.String())
}
