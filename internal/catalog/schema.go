package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Kind distinguishes pages from features.
type Kind string

const (
	KindPage    Kind = "page"
	KindFeature Kind = "feature"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindPage || k == KindFeature
}

// Template is an immutable catalog entry describing a code template.
type Template struct {
	// Identity is globally unique across the catalog
	Identity string `yaml:"identity" json:"identity"`

	// Name is the display name shown in listings
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	Kind Kind `yaml:"kind" json:"kind"`

	// Group is the catalog display group
	Group string `yaml:"group,omitempty" json:"group,omitempty"`

	// GenGroup is the page-group slot; pages sharing it share a group
	GenGroup int `yaml:"genGroup,omitempty" json:"genGroup,omitempty"`

	// Order sorts templates inside their display group
	Order int `yaml:"order,omitempty" json:"order,omitempty"`

	Hidden bool `yaml:"hidden,omitempty" json:"hidden,omitempty"`

	// CanChooseName is false for templates whose name is always DefaultName
	CanChooseName bool `yaml:"canChooseName,omitempty" json:"canChooseName,omitempty"`

	DefaultName string `yaml:"defaultName" json:"defaultName"`

	// Dependencies lists the identities this template directly requires
	Dependencies []string `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`

	// Frameworks lists supported frameworks; empty means all
	Frameworks []string `yaml:"frameworks,omitempty" json:"frameworks,omitempty"`
}

// SupportsFramework reports whether the template can be used with framework.
func (t Template) SupportsFramework(framework string) bool {
	if len(t.Frameworks) == 0 || framework == "" {
		return true
	}
	for _, fw := range t.Frameworks {
		if strings.EqualFold(fw, framework) {
			return true
		}
	}
	return false
}

// DisplayName returns Name, falling back to the identity.
func (t Template) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Identity
}

// Validate checks the fields a template needs to be composable.
func (t Template) Validate() error {
	if strings.TrimSpace(t.Identity) == "" {
		return errors.New("empty identity")
	}
	if !t.Kind.Valid() {
		return fmt.Errorf("template %s: unknown kind %q", t.Identity, t.Kind)
	}
	if t.GenGroup < 0 {
		return fmt.Errorf("template %s: negative genGroup %d", t.Identity, t.GenGroup)
	}
	for _, dep := range t.Dependencies {
		if dep == t.Identity {
			return fmt.Errorf("template %s: depends on itself", t.Identity)
		}
	}
	return nil
}

// LayoutEntry is one pre-selected template in a layout document.
type LayoutEntry struct {
	Name     string `yaml:"name" json:"name"`
	Template string `yaml:"template" json:"template"`
	ReadOnly bool   `yaml:"readOnly,omitempty" json:"readOnly,omitempty"`
}

// Layout is the default composition for a project type and framework.
type Layout struct {
	ProjectType string `yaml:"projectType" json:"projectType"`

	// Framework may be empty to apply to every framework
	Framework string `yaml:"framework,omitempty" json:"framework,omitempty"`

	Entries []LayoutEntry `yaml:"entries" json:"entries"`
}

// Matches reports whether the layout applies to projectType and framework.
func (l Layout) Matches(projectType, framework string) bool {
	if !strings.EqualFold(l.ProjectType, projectType) {
		return false
	}
	return l.Framework == "" || strings.EqualFold(l.Framework, framework)
}

// LayoutItem is a layout entry resolved against the catalog. Template is nil
// when the entry names a template the catalog does not provide.
type LayoutItem struct {
	Name     string
	ReadOnly bool
	Template *Template
}

// TemplatesFile is the YAML document found under templates/.
type TemplatesFile struct {
	Templates []Template `yaml:"templates"`
}

// LayoutsFile is the YAML document found under layouts/.
type LayoutsFile struct {
	Layouts []Layout `yaml:"layouts"`
}
