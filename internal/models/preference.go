package models

import "github.com/google/uuid"

// Preference is one user-defined key/value pair. The server assigns the ID
// on create; key uniqueness, if enforced at all, is a server invariant.
type Preference struct {
	ID    uuid.UUID `json:"id"`
	Key   string    `json:"key"`
	Value string    `json:"value"`
}

// PreferencesResponse is the envelope of GET /api/preferences. An absent
// preferences field means an empty collection.
type PreferencesResponse struct {
	Preferences []Preference `json:"preferences"`
}
