// Package catalog holds the template definitions and layouts that
// compositions are built from.
//
// A catalog is read from YAML documents on disk. Each source directory
// contains templates/*.yaml and layouts/*.yaml; several sources can be layered
// so a project-local catalog overrides the user's global one.
//
// Key components:
//   - Catalog: an immutable, indexed snapshot of templates and layouts
//   - Repo: loads a Catalog from some source (FileRepo, MultiRepo)
//   - Loader: builds the layered repo for a project root
package catalog

import (
	"errors"
	"fmt"
)

// Predicate filters templates.
type Predicate func(Template) bool

// All matches every template.
func All() Predicate {
	return func(Template) bool { return true }
}

// OfKind matches templates of kind k.
func OfKind(k Kind) Predicate {
	return func(t Template) bool { return t.Kind == k }
}

// ForFramework matches templates available for framework.
func ForFramework(framework string) Predicate {
	return func(t Template) bool { return t.SupportsFramework(framework) }
}

// Visible matches templates that are not hidden.
func Visible() Predicate {
	return func(t Template) bool { return !t.Hidden }
}

// And matches when every predicate matches.
func And(preds ...Predicate) Predicate {
	return func(t Template) bool {
		for _, p := range preds {
			if p != nil && !p(t) {
				return false
			}
		}
		return true
	}
}

// Catalog is an indexed, read-only set of templates and layouts.
type Catalog struct {
	templates   []Template
	index       map[string]int
	layouts     []Layout
	fingerprint string
}

// New validates templates and layouts and builds a Catalog. Templates keep
// their given order.
func New(templates []Template, layouts []Layout) (*Catalog, error) {
	c := &Catalog{
		templates: make([]Template, 0, len(templates)),
		index:     make(map[string]int, len(templates)),
		layouts:   append([]Layout(nil), layouts...),
	}

	var errs []error
	for i, t := range templates {
		if err := t.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("template #%d: %w", i+1, err))
			continue
		}
		if _, dup := c.index[t.Identity]; dup {
			errs = append(errs, fmt.Errorf("template #%d: duplicate identity %s", i+1, t.Identity))
			continue
		}
		c.index[t.Identity] = len(c.templates)
		c.templates = append(c.templates, t)
	}

	for i, l := range layouts {
		if l.ProjectType == "" {
			errs = append(errs, fmt.Errorf("layout #%d: empty projectType", i+1))
		}
		for j, e := range l.Entries {
			if e.Name == "" || e.Template == "" {
				errs = append(errs, fmt.Errorf("layout %s entry #%d: name and template are required", l.ProjectType, j+1))
			}
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return c, nil
}

// Empty returns a catalog with no templates.
func Empty() *Catalog {
	return &Catalog{index: map[string]int{}}
}

// WithFingerprint returns a copy of c carrying fingerprint.
func (c *Catalog) WithFingerprint(fingerprint string) *Catalog {
	cp := *c
	cp.fingerprint = fingerprint
	return &cp
}

// Fingerprint identifies the documents the catalog was loaded from.
func (c *Catalog) Fingerprint() string {
	return c.fingerprint
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	return len(c.templates)
}

// Template looks up a template by identity.
func (c *Catalog) Template(identity string) (Template, bool) {
	i, ok := c.index[identity]
	if !ok {
		return Template{}, false
	}
	return c.templates[i], true
}

// Templates returns the templates matching pred in catalog order.
func (c *Catalog) Templates(pred Predicate) []Template {
	if pred == nil {
		pred = All()
	}
	var out []Template
	for _, t := range c.templates {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}

// Layouts returns every layout document entry.
func (c *Catalog) Layouts() []Layout {
	return append([]Layout(nil), c.layouts...)
}

// Layout resolves the first layout matching projectType and framework.
// Entries whose template is unknown or unavailable for framework carry a nil
// Template. A missing layout yields nil.
func (c *Catalog) Layout(projectType, framework string) []LayoutItem {
	for _, l := range c.layouts {
		if !l.Matches(projectType, framework) {
			continue
		}
		items := make([]LayoutItem, 0, len(l.Entries))
		for _, e := range l.Entries {
			item := LayoutItem{Name: e.Name, ReadOnly: e.ReadOnly}
			if t, ok := c.Template(e.Template); ok && t.SupportsFramework(framework) {
				tc := t
				item.Template = &tc
			}
			items = append(items, item)
		}
		return items
	}
	return nil
}

// ProjectTypes lists the project types that have a layout, in document order.
func (c *Catalog) ProjectTypes() []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range c.layouts {
		if !seen[l.ProjectType] {
			seen[l.ProjectType] = true
			out = append(out, l.ProjectType)
		}
	}
	return out
}

// FixedNames returns the default names of templates that cannot choose a
// name. Free-named instances may not take these.
func (c *Catalog) FixedNames() []string {
	var out []string
	seen := make(map[string]bool)
	for _, t := range c.templates {
		if t.CanChooseName || t.DefaultName == "" || seen[t.DefaultName] {
			continue
		}
		seen[t.DefaultName] = true
		out = append(out, t.DefaultName)
	}
	return out
}

// Merge layers catalogs; earlier catalogs win on identity conflicts and on
// layouts for the same project type and framework.
func Merge(catalogs ...*Catalog) *Catalog {
	out := Empty()
	type layoutKey struct{ projectType, framework string }
	seenLayouts := make(map[layoutKey]bool)

	for _, c := range catalogs {
		if c == nil {
			continue
		}
		for _, t := range c.templates {
			if _, ok := out.index[t.Identity]; ok {
				continue
			}
			out.index[t.Identity] = len(out.templates)
			out.templates = append(out.templates, t)
		}
		for _, l := range c.layouts {
			key := layoutKey{l.ProjectType, l.Framework}
			if seenLayouts[key] {
				continue
			}
			seenLayouts[key] = true
			out.layouts = append(out.layouts, l)
		}
	}
	return out
}
