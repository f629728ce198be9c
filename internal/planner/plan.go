package planner

import "github.com/danieljhkim/appcomposer/internal/catalog"

// Plan is an ordered set of composition changes.
type Plan struct {
	// Operations is the ordered list of operations to execute
	Operations []Operation

	// Conflicts is a list of detected conflicts (empty if no conflicts)
	Conflicts []Conflict
}

// Operation is a single instance insertion or removal.
type Operation struct {
	// Type is the operation type: "insert", "remove", "prune"
	Type string

	Name     string
	Identity string
	Kind     catalog.Kind

	// GenGroup is the page-group an inserted page lands in
	GenGroup int

	Removable     bool
	Hidden        bool
	CanChooseName bool

	// Dependencies is the resolved closure cached on the inserted instance
	Dependencies []string

	// Cause names the instance whose insertion or removal led to this one.
	// Empty for the operation the caller asked for.
	Cause string
}

// Conflict explains why a plan cannot be applied.
type Conflict struct {
	Name     string
	Identity string

	// Reason is a human-readable explanation of the conflict
	Reason string

	// Dependent is the surviving instance that blocks a removal, if any
	Dependent *Entry
}

// Operation type constants
const (
	OpInsert = "insert"
	OpRemove = "remove"
	OpPrune  = "prune"
)

// NewPlan creates a new empty Plan.
func NewPlan() *Plan {
	return &Plan{
		Operations: []Operation{},
		Conflicts:  []Conflict{},
	}
}

// HasConflicts returns true if the plan has any conflicts.
func (p *Plan) HasConflicts() bool {
	return len(p.Conflicts) > 0
}

// AddOperation adds an operation to the plan.
func (p *Plan) AddOperation(op Operation) {
	p.Operations = append(p.Operations, op)
}

// AddConflict adds a conflict to the plan.
func (p *Plan) AddConflict(conflict Conflict) {
	p.Conflicts = append(p.Conflicts, conflict)
}

// Names returns the instance names of operations of the given types, in
// plan order. No types selects every operation.
func (p *Plan) Names(types ...string) []string {
	var out []string
	for _, op := range p.Operations {
		if len(types) == 0 || containsString(types, op.Type) {
			out = append(out, op.Name)
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
