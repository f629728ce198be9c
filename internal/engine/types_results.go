package engine

import (
	"time"

	"github.com/danieljhkim/appcomposer/internal/persist"
	"github.com/danieljhkim/appcomposer/internal/planner"
)

// NewSessionResult represents the result of starting a session.
type NewSessionResult struct {
	SessionID   string `json:"sessionId"`
	ProjectRoot string `json:"projectRoot"`
	ProjectType string `json:"projectType"`
	Framework   string `json:"framework,omitempty"`

	// Replaced is true when Force discarded an earlier session
	Replaced bool `json:"replaced,omitempty"`

	// Instances lists what the layout pre-selected
	Instances []InstanceInfo `json:"instances"`
	Home      string         `json:"home,omitempty"`
}

// StatusResult represents the current composition of a session.
type StatusResult struct {
	SessionID   string `json:"sessionId"`
	ProjectRoot string `json:"projectRoot"`
	ProjectType string `json:"projectType"`
	Framework   string `json:"framework,omitempty"`
	Home        string `json:"home,omitempty"`

	// Subdir is the request directory relative to ProjectRoot
	Subdir string `json:"subdir,omitempty"`

	PageGroups [][]InstanceInfo `json:"pageGroups"`
	Features   []InstanceInfo   `json:"features"`
	Pending    *PendingInfo     `json:"pending,omitempty"`

	// Drift is true when the catalog changed since the session was saved
	Drift bool `json:"drift,omitempty"`

	CatalogFingerprint string    `json:"catalogFingerprint"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// CatalogResult represents the catalog as seen by a session.
type CatalogResult struct {
	// HasSession is false when the listing was made without a session, in
	// which case nothing is marked selected
	HasSession bool           `json:"hasSession"`
	Templates  []TemplateInfo `json:"templates"`
	Drift      bool           `json:"drift,omitempty"`
}

// AddResult represents the result of adding a template or saving an edit.
// Exactly one of Pending and Added is set.
type AddResult struct {
	Pending *PendingInfo   `json:"pending,omitempty"`
	Added   []InstanceInfo `json:"added,omitempty"`
	Home    string         `json:"home,omitempty"`
	Drift   bool           `json:"drift,omitempty"`
}

// SetNameResult represents the validation outcome of a pending name.
type SetNameResult struct {
	Pending PendingInfo `json:"pending"`
}

// CancelEditResult represents a discarded edit.
type CancelEditResult struct {
	Template string `json:"template"`
	Name     string `json:"name"`
}

// RemoveResult represents the result of removing an instance.
type RemoveResult struct {
	// Plan is the removal plan, including conflicts on dry runs
	Plan *planner.Plan `json:"-"`

	// Removed is the requested instance; Pruned the hidden dependencies
	// that went with it
	Removed []string `json:"removed"`
	Pruned  []string `json:"pruned"`

	// Conflict names the instance blocking the removal on a dry run
	Conflict string `json:"conflict,omitempty"`

	DryRun bool   `json:"dryRun,omitempty"`
	Home   string `json:"home,omitempty"`
}

// RenameResult represents the result of renaming an instance.
type RenameResult struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// SetHomeResult represents a home page change.
type SetHomeResult struct {
	Previous string `json:"previous,omitempty"`
	Home     string `json:"home"`
}

// MoveResult represents a page reorder.
type MoveResult struct {
	Group int      `json:"group"`
	Order []string `json:"order"`
	Home  string   `json:"home,omitempty"`
}

// ResetResult represents a cleared composition.
type ResetResult struct {
	Removed   int            `json:"removed"`
	Instances []InstanceInfo `json:"instances"`
}

// ListSessionsResult represents the stored sessions.
type ListSessionsResult struct {
	Sessions []SessionInfo `json:"sessions"`
}

// DeleteSessionResult represents the result of deleting a session.
type DeleteSessionResult struct {
	SessionID   string `json:"sessionId"`
	ProjectPath string `json:"projectPath"`
	Deleted     bool   `json:"deleted"`
}

// ExportResult represents the result of writing the manifest.
type ExportResult struct {
	Path     string            `json:"path"`
	Manifest *persist.Manifest `json:"manifest"`
	Written  bool              `json:"written"`

	// PendingSkipped is true when an open edit was left out of the export
	PendingSkipped bool `json:"pendingSkipped,omitempty"`
	Drift          bool `json:"drift,omitempty"`
}
