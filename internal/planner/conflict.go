package planner

import (
	"fmt"

	"github.com/danieljhkim/appcomposer/internal/catalog"
)

// Entry is the planner's view of an instance already in the composition.
type Entry struct {
	Name         string
	Identity     string
	Kind         catalog.Kind
	Hidden       bool
	Removable    bool
	Dependencies []string
}

// ConflictChecker answers dependency questions about a composition.
type ConflictChecker struct {
	entries    []Entry
	byName     map[string]int
	byIdentity map[string]int
}

// NewConflictChecker creates a ConflictChecker over entries.
func NewConflictChecker(entries []Entry) *ConflictChecker {
	c := &ConflictChecker{
		entries:    entries,
		byName:     make(map[string]int, len(entries)),
		byIdentity: make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		c.byName[e.Name] = i
		c.byIdentity[e.Identity] = i
	}
	return c
}

// ByName returns the entry with the given name.
func (c *ConflictChecker) ByName(name string) (Entry, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// ByIdentity returns the entry instantiating identity.
func (c *ConflictChecker) ByIdentity(identity string) (Entry, bool) {
	i, ok := c.byIdentity[identity]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Dependent returns the first entry, in composition order, that is not in
// removed and references identity. Nil means nothing depends on it.
func (c *ConflictChecker) Dependent(identity string, removed map[string]bool) *Entry {
	for i := range c.entries {
		e := c.entries[i]
		if removed[e.Name] || e.Identity == identity {
			continue
		}
		for _, dep := range e.Dependencies {
			if dep == identity {
				return &e
			}
		}
	}
	return nil
}

// CheckRemoval reports a conflict when a surviving entry depends on target.
func (c *ConflictChecker) CheckRemoval(target Entry, removed map[string]bool) *Conflict {
	dep := c.Dependent(target.Identity, removed)
	if dep == nil {
		return nil
	}
	return &Conflict{
		Name:      target.Name,
		Identity:  target.Identity,
		Reason:    fmt.Sprintf("%s %s depends on %s", dep.Kind, dep.Name, target.Name),
		Dependent: dep,
	}
}

// CheckInsert reports a conflict when op would duplicate an identity or a
// name already present or already planned.
func (c *ConflictChecker) CheckInsert(op Operation, planned []Operation) *Conflict {
	if e, ok := c.ByIdentity(op.Identity); ok {
		return &Conflict{
			Name:     op.Name,
			Identity: op.Identity,
			Reason:   fmt.Sprintf("template %s is already selected as %s", op.Identity, e.Name),
		}
	}
	if _, ok := c.ByName(op.Name); ok {
		return &Conflict{
			Name:     op.Name,
			Identity: op.Identity,
			Reason:   fmt.Sprintf("name %s is already in use", op.Name),
		}
	}
	for _, p := range planned {
		if p.Identity == op.Identity || p.Name == op.Name {
			return &Conflict{
				Name:     op.Name,
				Identity: op.Identity,
				Reason:   fmt.Sprintf("%s is planned twice", op.Name),
			}
		}
	}
	return nil
}
