package selection

import (
	"fmt"

	"github.com/danieljhkim/appcomposer/internal/catalog"
	"github.com/danieljhkim/appcomposer/internal/naming"
	"github.com/danieljhkim/appcomposer/internal/planner"
)

// AddTemplate adds t to the composition. Templates with free naming are
// staged as a pending edit under an inferred name and nothing is committed;
// any previously pending edit is discarded. Other templates are committed
// right away together with their missing dependencies.
func (s *Store) AddTemplate(t catalog.Template) (*AddResult, error) {
	if t.Hidden {
		return nil, fmt.Errorf("%w: %s is hidden", ErrNotSelectable, t.Identity)
	}
	if !t.SupportsFramework(s.framework) {
		return nil, fmt.Errorf("%w: %s is not available for %s", ErrNotSelectable, t.Identity, s.framework)
	}
	if s.findIdentity(t.Identity) != nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadySelected, t.Identity)
	}

	name, err := naming.Infer(defaultNameOf(t), s.nameRules(t.CanChooseName, "", s.Names())...)
	if err != nil {
		return nil, fmt.Errorf("failed to name %s: %w", t.Identity, err)
	}

	if t.CanChooseName {
		s.pending = &PendingEdit{Template: t, Name: name}
		s.emit(Event{Type: EditChanged, Name: name})
		edit := *s.pending
		return &AddResult{Pending: &edit}, nil
	}

	added, err := s.commit(t, name, true)
	if err != nil {
		return nil, err
	}
	return &AddResult{Added: added}, nil
}

// SetPendingName updates the staged name and validates it. The result is
// also recorded on the pending edit.
func (s *Store) SetPendingName(name string) (naming.Result, error) {
	if s.pending == nil {
		return naming.Result{}, ErrNoPendingEdit
	}
	res := naming.Validate(name, s.nameRules(true, "", s.Names())...)
	s.pending.Name = name
	s.pending.Kind = res.Kind
	s.emit(Event{Type: EditChanged, Name: name})
	return res, nil
}

// SaveTemplateEdit commits the pending edit under its staged name. An
// invalid name keeps the edit open with the error recorded and returns a
// *ValidationError.
func (s *Store) SaveTemplateEdit() ([]Instance, error) {
	if s.pending == nil {
		return nil, ErrNoPendingEdit
	}

	edit := s.pending
	res := naming.Validate(edit.Name, s.nameRules(true, "", s.Names())...)
	if !res.Valid {
		edit.Kind = res.Kind
		verr := &ValidationError{Name: edit.Name, Kind: res.Kind}
		s.reportInvalid(verr)
		s.emit(Event{Type: EditChanged, Name: edit.Name})
		return nil, verr
	}

	added, err := s.commit(edit.Template, edit.Name, true)
	if err != nil {
		return nil, err
	}
	s.pending = nil
	s.emit(Event{Type: EditChanged})
	return added, nil
}

// CancelTemplateEdit discards the pending edit.
func (s *Store) CancelTemplateEdit() error {
	if s.pending == nil {
		return ErrNoPendingEdit
	}
	s.pending = nil
	s.emit(Event{Type: EditChanged})
	return nil
}

// commit inserts t as name plus every dependency in its closure that is not
// yet selected. Dependencies take their default names, re-inferred against
// the names in use, and inherit removable.
func (s *Store) commit(t catalog.Template, name string, removable bool) ([]Instance, error) {
	taken := append(s.Names(), name)
	ops := []planner.Operation{s.insertOp(t, name, removable, "")}

	for _, dep := range s.resolver.Resolve(t, s.framework) {
		if s.findIdentity(dep.Identity) != nil {
			continue
		}
		depName, err := naming.Infer(defaultNameOf(dep), s.baseRules(taken)...)
		if err != nil {
			return nil, fmt.Errorf("failed to name dependency %s of %s: %w", dep.Identity, t.Identity, err)
		}
		taken = append(taken, depName)
		ops = append(ops, s.insertOp(dep, depName, removable, name))
	}

	plan := planner.PlanInsert(s.entries(), ops)
	if plan.HasConflicts() {
		c := plan.Conflicts[0]
		if s.findIdentity(c.Identity) != nil {
			return nil, fmt.Errorf("%w: %s", ErrAlreadySelected, c.Reason)
		}
		return nil, &ValidationError{Name: c.Name, Kind: naming.AlreadyExists}
	}

	return s.applyInserts(plan), nil
}

func (s *Store) insertOp(t catalog.Template, name string, removable bool, cause string) planner.Operation {
	return planner.Operation{
		Type:          planner.OpInsert,
		Name:          name,
		Identity:      t.Identity,
		Kind:          t.Kind,
		GenGroup:      t.GenGroup,
		Removable:     removable,
		Hidden:        t.Hidden,
		CanChooseName: t.CanChooseName,
		Dependencies:  s.resolver.ResolveIdentities(t, s.framework),
		Cause:         cause,
	}
}

func (s *Store) applyInserts(plan *planner.Plan) []Instance {
	added := make([]Instance, 0, len(plan.Operations))
	for _, op := range plan.Operations {
		inst := &Instance{
			Name:          op.Name,
			Identity:      op.Identity,
			Kind:          op.Kind,
			IsRemovable:   op.Removable,
			IsHidden:      op.Hidden,
			CanChooseName: op.CanChooseName,
			Dependencies:  op.Dependencies,
		}
		if op.Kind == catalog.KindPage {
			for len(s.pages) <= op.GenGroup {
				s.pages = append(s.pages, nil)
			}
			inst.GroupIndex = op.GenGroup
			s.pages[op.GenGroup] = append(s.pages[op.GenGroup], inst)
		} else {
			s.features = append(s.features, inst)
		}
	}

	previous, homeChanged := s.alignHome()

	for _, op := range plan.Operations {
		inst := s.find(op.Name)
		added = append(added, inst.clone())
		s.emit(Event{Type: InstanceAdded, Name: op.Name})
	}
	if homeChanged {
		s.emitHome(previous)
	}
	s.emit(Event{Type: AvailabilityChanged})
	return added
}
