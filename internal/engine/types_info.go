package engine

import (
	"time"

	"github.com/danieljhkim/appcomposer/internal/catalog"
	"github.com/danieljhkim/appcomposer/internal/selection"
)

// InstanceInfo describes one instance in the composition.
type InstanceInfo struct {
	Name          string       `json:"name"`
	Template      string       `json:"template"`
	Kind          catalog.Kind `json:"kind"`
	Group         int          `json:"group"`
	Home          bool         `json:"home,omitempty"`
	Removable     bool         `json:"removable"`
	Hidden        bool         `json:"hidden,omitempty"`
	CanChooseName bool         `json:"canChooseName,omitempty"`
	Dependencies  []string     `json:"dependencies,omitempty"`
}

// PendingInfo describes the open edit.
type PendingInfo struct {
	Template string `json:"template"`
	Name     string `json:"name"`
	Valid    bool   `json:"valid"`

	// Problem is the naming error kind when Valid is false
	Problem string `json:"problem,omitempty"`
}

// TemplateInfo is a catalog template with its selection state.
type TemplateInfo struct {
	Identity    string       `json:"identity"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Kind        catalog.Kind `json:"kind"`
	Group       string       `json:"group,omitempty"`
	Selected    bool         `json:"selected"`
	Hidden      bool         `json:"hidden,omitempty"`

	// Supported is false when the session framework excludes the template
	Supported bool `json:"supported"`
}

// SessionInfo contains summary information about a session.
type SessionInfo struct {
	SessionID   string    `json:"sessionId"`
	ProjectPath string    `json:"projectPath"`
	ProjectType string    `json:"projectType"`
	Framework   string    `json:"framework,omitempty"`
	Instances   int       `json:"instances"`
	Pending     bool      `json:"pending,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func instanceInfo(inst selection.Instance) InstanceInfo {
	return InstanceInfo{
		Name:          inst.Name,
		Template:      inst.Identity,
		Kind:          inst.Kind,
		Group:         inst.GroupIndex,
		Home:          inst.IsHome,
		Removable:     inst.IsRemovable,
		Hidden:        inst.IsHidden,
		CanChooseName: inst.CanChooseName,
		Dependencies:  inst.Dependencies,
	}
}

func instanceInfos(insts []selection.Instance) []InstanceInfo {
	out := make([]InstanceInfo, len(insts))
	for i, inst := range insts {
		out[i] = instanceInfo(inst)
	}
	return out
}

func pendingInfo(edit selection.PendingEdit) *PendingInfo {
	info := &PendingInfo{
		Template: edit.Template.Identity,
		Name:     edit.Name,
		Valid:    edit.Valid(),
	}
	if !info.Valid {
		info.Problem = edit.Kind.String()
	}
	return info
}
