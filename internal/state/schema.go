package state

import "time"

// SchemaVersion is written into every session file.
const SchemaVersion = 1

// SessionState is the persisted form of a composition session.
type SessionState struct {
	SchemaVersion int `json:"schemaVersion"`

	// Project is the fingerprint of the project the session belongs to
	Project string `json:"project"`

	// ProjectPath is the absolute project root
	ProjectPath string `json:"projectPath"`

	ProjectType string `json:"projectType"`
	Framework   string `json:"framework"`

	// CatalogFingerprint identifies the catalog the session was last saved
	// against
	CatalogFingerprint string `json:"catalogFingerprint"`

	// PageGroups holds pages by page-group, in order
	PageGroups [][]InstanceRecord `json:"pageGroups"`

	Features []InstanceRecord `json:"features"`

	// Pending is the template being named, if any
	Pending *PendingRecord `json:"pending,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// InstanceRecord is one persisted template instance.
type InstanceRecord struct {
	Name          string   `json:"name"`
	Template      string   `json:"template"`
	Kind          string   `json:"kind"`
	Home          bool     `json:"home,omitempty"`
	Removable     bool     `json:"removable"`
	Hidden        bool     `json:"hidden,omitempty"`
	CanChooseName bool     `json:"canChooseName,omitempty"`
	Dependencies  []string `json:"dependencies,omitempty"`
}

// PendingRecord is a persisted pending edit.
type PendingRecord struct {
	Template string `json:"template"`
	Name     string `json:"name"`
}

// NewSessionState creates an empty session.
func NewSessionState(project, projectPath, projectType, framework string, now time.Time) *SessionState {
	return &SessionState{
		SchemaVersion: SchemaVersion,
		Project:       project,
		ProjectPath:   projectPath,
		ProjectType:   projectType,
		Framework:     framework,
		PageGroups:    [][]InstanceRecord{},
		Features:      []InstanceRecord{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// InstanceCount returns the number of persisted instances.
func (s *SessionState) InstanceCount() int {
	n := len(s.Features)
	for _, g := range s.PageGroups {
		n += len(g)
	}
	return n
}
