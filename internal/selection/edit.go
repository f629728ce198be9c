package selection

import (
	"fmt"

	"github.com/danieljhkim/appcomposer/internal/catalog"
	"github.com/danieljhkim/appcomposer/internal/naming"
	"github.com/danieljhkim/appcomposer/internal/telemetry"
)

// RenameInstance renames an instance. Renaming to the current name is a
// no-op. A rejected name leaves the instance unchanged and returns a
// *ValidationError.
func (s *Store) RenameInstance(name, newName string) error {
	inst := s.find(name)
	if inst == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if newName == name {
		return nil
	}
	if !inst.CanChooseName {
		return fmt.Errorf("%w: %s", ErrNameFixed, name)
	}

	res := naming.Validate(newName, s.nameRules(true, name, s.Names())...)
	if !res.Valid {
		verr := &ValidationError{Name: newName, Kind: res.Kind}
		s.reportInvalid(verr)
		return verr
	}

	inst.Name = newName
	s.emit(Event{Type: NameChanged, Name: newName, Previous: name})
	if inst.IsHome {
		s.emit(Event{Type: HomeChanged, Name: newName, Previous: name})
	}
	s.track(telemetry.ActionRename, inst.Identity)
	return nil
}

// SetHome makes the named page the home page by moving it to the front of
// the first non-empty page-group. Pages in later groups are ineligible.
func (s *Store) SetHome(name string) error {
	inst := s.find(name)
	if inst == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if inst.Kind != catalog.KindPage {
		return fmt.Errorf("%w: %s", ErrNotPage, name)
	}
	g := s.firstNonEmptyGroup()
	if inst.GroupIndex != g {
		return fmt.Errorf("%w: %s is in group %d, home comes from group %d", ErrHomeIneligible, name, inst.GroupIndex, g)
	}
	if inst.IsHome {
		return nil
	}

	group := s.pages[g]
	from := indexOf(group, inst)
	s.pages[g] = move(group, from, 0)
	previous, _ := s.alignHome()

	s.emit(Event{Type: GroupChanged, Name: name, Group: g})
	s.emitHome(previous)
	s.track(telemetry.ActionSetHome, inst.Identity)
	return nil
}

// ReorderPage moves the page at index from to index to within group. Home
// follows whichever page ends up first in the first non-empty group.
func (s *Store) ReorderPage(group, from, to int) error {
	if group < 0 || group >= len(s.pages) {
		return fmt.Errorf("%w: group %d", ErrIndexOutOfRange, group)
	}
	pages := s.pages[group]
	if from < 0 || from >= len(pages) || to < 0 || to >= len(pages) {
		return fmt.Errorf("%w: move %d to %d in a group of %d", ErrIndexOutOfRange, from, to, len(pages))
	}
	if from == to {
		return nil
	}

	moved := pages[from]
	s.pages[group] = move(pages, from, to)
	previous, homeChanged := s.alignHome()

	s.emit(Event{Type: GroupChanged, Name: moved.Name, Group: group})
	if homeChanged {
		s.emitHome(previous)
		if home := s.home(); home != nil {
			s.track(telemetry.ActionSetHome, home.Identity)
		}
	}
	return nil
}

func indexOf(group []*Instance, inst *Instance) int {
	for i, v := range group {
		if v == inst {
			return i
		}
	}
	return -1
}

// move returns group with the element at from relocated to to.
func move(group []*Instance, from, to int) []*Instance {
	inst := group[from]
	out := append(group[:from:from], group[from+1:]...)
	out = append(out[:to], append([]*Instance{inst}, out[to:]...)...)
	return out
}
