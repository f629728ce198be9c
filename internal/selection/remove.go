package selection

import (
	"errors"
	"fmt"

	"github.com/danieljhkim/appcomposer/internal/planner"
	"github.com/danieljhkim/appcomposer/internal/telemetry"
)

// PlanRemoval previews RemoveTemplate without changing the composition.
// The plan carries a conflict when a surviving instance depends on name.
func (s *Store) PlanRemoval(name string) (*planner.Plan, error) {
	plan, err := planner.PlanRemoval(s.entries(), name)
	if errors.Is(err, planner.ErrUnknownEntry) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return plan, err
}

// RemoveTemplate deletes the named instance and prunes hidden dependencies
// nothing else uses. It is refused with a *RemovalConflict while another
// instance depends on the target. With reportErrors the call is treated as
// user-initiated: conflicts are reported to the host and non-removable
// instances are refused.
func (s *Store) RemoveTemplate(name string, reportErrors bool) (*planner.Plan, error) {
	inst := s.find(name)
	if inst == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if reportErrors && !inst.IsRemovable {
		return nil, fmt.Errorf("%w: %s", ErrNotRemovable, name)
	}

	plan, err := s.PlanRemoval(name)
	if err != nil {
		return nil, err
	}

	if plan.HasConflicts() {
		c := plan.Conflicts[0]
		rc := &RemovalConflict{
			Target:         inst.Name,
			TargetIdentity: inst.Identity,
		}
		if c.Dependent != nil {
			rc.Dependent = c.Dependent.Name
			rc.DependentIdentity = c.Dependent.Identity
			rc.DependentKind = c.Dependent.Kind
		}
		if reportErrors {
			s.report(Status{
				Severity: SeverityWarning,
				Err:      rc,
				Text:     rc.Error(),
				Duration: RemovalConflictDuration,
			})
		}
		return plan, rc
	}

	identity := inst.Identity
	for _, op := range plan.Operations {
		s.detach(op.Name)
	}
	s.trimGroups()
	previous, homeChanged := s.alignHome()

	for _, op := range plan.Operations {
		s.emit(Event{Type: InstanceRemoved, Name: op.Name})
	}
	if homeChanged {
		s.emitHome(previous)
	}
	s.emit(Event{Type: AvailabilityChanged})
	s.track(telemetry.ActionRemove, identity)

	return plan, nil
}

func (s *Store) detach(name string) {
	for g, group := range s.pages {
		for i, inst := range group {
			if inst.Name == name {
				s.pages[g] = append(group[:i:i], group[i+1:]...)
				return
			}
		}
	}
	for i, inst := range s.features {
		if inst.Name == name {
			s.features = append(s.features[:i:i], s.features[i+1:]...)
			return
		}
	}
}

// trimGroups drops trailing empty page-groups.
func (s *Store) trimGroups() {
	n := len(s.pages)
	for n > 0 && len(s.pages[n-1]) == 0 {
		n--
	}
	s.pages = s.pages[:n]
}
