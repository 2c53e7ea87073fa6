package storage

import (
	"encoding/json"

	"vkleads/pkg/errors"
	"vkleads/pkg/models"
)

// ReadGroups loads a groups snapshot. Both the {query, found, groups}
// envelope and a bare array of groups are accepted; an object without a
// groups list is a configuration error.
func (m *Manager) ReadGroups(name string) (models.GroupsEnvelope, error) {
	var raw json.RawMessage
	if err := m.ReadJSON(name, &raw); err != nil {
		return models.GroupsEnvelope{}, err
	}

	var groups []models.Group
	if err := json.Unmarshal(raw, &groups); err == nil {
		return models.NewGroupsEnvelope("", groups), nil
	}

	groups = nil
	var probe struct {
		Query  string          `json:"query"`
		Groups json.RawMessage `json:"groups"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return models.GroupsEnvelope{}, errors.Config("snapshot %s does not contain a list of groups in field `groups`", m.Path(name))
	}
	if err := json.Unmarshal(probe.Groups, &groups); err != nil || groups == nil {
		return models.GroupsEnvelope{}, errors.Config("snapshot %s does not contain a list of groups in field `groups`", m.Path(name))
	}
	return models.NewGroupsEnvelope(probe.Query, groups), nil
}

// WriteGroups stores groups in the envelope form
func (m *Manager) WriteGroups(name, query string, groups []models.Group) error {
	return m.WriteJSON(name, models.NewGroupsEnvelope(query, groups))
}
