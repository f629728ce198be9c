package selection

import (
	"github.com/danieljhkim/appcomposer/internal/catalog"
	"github.com/danieljhkim/appcomposer/internal/naming"
)

// Catalog is the read side of the template catalog the store needs.
type Catalog interface {
	Template(identity string) (catalog.Template, bool)
	Templates(pred catalog.Predicate) []catalog.Template
	Layout(projectType, framework string) []catalog.LayoutItem
	FixedNames() []string
}

// Instance is a named use of a template in the composition.
type Instance struct {
	Name     string
	Identity string
	Kind     catalog.Kind

	// IsHome is set on exactly one page when any page exists
	IsHome bool

	IsRemovable   bool
	IsHidden      bool
	CanChooseName bool

	// Dependencies is the template's resolved closure at insertion time
	Dependencies []string

	// GroupIndex is the page-group of a page; zero for features
	GroupIndex int
}

func (i *Instance) clone() Instance {
	c := *i
	c.Dependencies = append([]string(nil), i.Dependencies...)
	return c
}

// PendingEdit is a template staged for adding while its name is chosen.
type PendingEdit struct {
	Template catalog.Template
	Name     string

	// Kind is the validation result of Name; None when valid
	Kind naming.ErrorKind
}

// Valid reports whether the staged name passed validation.
func (e PendingEdit) Valid() bool {
	return e.Kind == naming.None
}

// Availability pairs a catalog template with its selection state.
type Availability struct {
	Template catalog.Template
	Selected bool
}

// AddResult is the outcome of AddTemplate: either a staged edit or the
// instances committed, the requested one first.
type AddResult struct {
	Pending *PendingEdit
	Added   []Instance
}

// Snapshot is a copy of the composition suitable for persistence.
type Snapshot struct {
	PageGroups [][]Instance
	Features   []Instance
	Pending    *PendingEdit
}
