package engine

import "github.com/danieljhkim/appcomposer/internal/catalog"

// NewSessionRequest represents a request to start a composition session.
type NewSessionRequest struct {
	// CWD is the current working directory
	CWD string

	// ProjectType selects the layout the composition starts from
	ProjectType string

	// Framework filters templates; empty accepts every template
	Framework string

	// Empty skips the layout and starts with no instances
	Empty bool

	// Force replaces an existing session
	Force bool
}

// StatusRequest represents a request for the session composition.
type StatusRequest struct {
	// CWD is the current working directory
	CWD string
}

// CatalogRequest represents a request to list catalog templates.
type CatalogRequest struct {
	// CWD is the current working directory
	CWD string

	// Kind limits the listing to pages or features; empty lists both
	Kind catalog.Kind

	// All includes hidden templates and ones unsupported by the framework
	All bool
}

// AddRequest represents a request to add a template.
type AddRequest struct {
	// CWD is the current working directory
	CWD string

	// Template is the catalog identity to add
	Template string

	// Name commits a free-named template under this name instead of
	// leaving it pending
	Name string
}

// SetNameRequest represents a request to rename the pending edit.
type SetNameRequest struct {
	CWD  string
	Name string
}

// SaveEditRequest represents a request to commit the pending edit.
type SaveEditRequest struct {
	CWD string
}

// CancelEditRequest represents a request to discard the pending edit.
type CancelEditRequest struct {
	CWD string
}

// RemoveRequest represents a request to remove an instance.
type RemoveRequest struct {
	// CWD is the current working directory
	CWD string

	// Name is the instance to remove
	Name string

	// DryRun shows what would be removed without actually removing
	DryRun bool
}

// RenameRequest represents a request to rename an instance.
type RenameRequest struct {
	CWD     string
	Name    string
	NewName string
}

// SetHomeRequest represents a request to change the home page.
type SetHomeRequest struct {
	CWD  string
	Name string
}

// MoveRequest represents a request to reorder a page within its group.
type MoveRequest struct {
	// CWD is the current working directory
	CWD string

	// Name is the page to move
	Name string

	// To is the zero-based target position in the page's group
	To int
}

// ResetRequest represents a request to clear the composition.
type ResetRequest struct {
	// CWD is the current working directory
	CWD string

	// Layout re-applies the session's project layout after clearing
	Layout bool
}

// DeleteSessionRequest represents a request to delete a session.
type DeleteSessionRequest struct {
	// CWD is used when SessionID is empty
	CWD string

	// SessionID is a full ID or a unique prefix
	SessionID string

	DryRun bool
}

// ExportRequest represents a request to write the composition manifest.
type ExportRequest struct {
	// CWD is the current working directory
	CWD string

	// DryRun builds the manifest without writing it
	DryRun bool
}
