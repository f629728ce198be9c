package selection

import (
	"fmt"

	"github.com/danieljhkim/appcomposer/internal/catalog"
)

// Snapshot copies the composition and pending edit.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		PageGroups: s.Pages(),
		Features:   s.Features(),
	}
	if s.pending != nil {
		edit := *s.pending
		snap.Pending = &edit
	}
	return snap
}

// Restore loads snap into an empty store. Page group indexes follow the
// snapshot's group positions and home is re-aligned. Snapshots with
// duplicate names or identities, or with pages and features swapped, are
// rejected.
func (s *Store) Restore(snap Snapshot) error {
	if !s.IsEmpty() {
		return ErrNotEmpty
	}

	names := make(map[string]bool)
	identities := make(map[string]bool)
	check := func(inst Instance, want catalog.Kind) error {
		if inst.Kind != want {
			return fmt.Errorf("%w: %s is a %s, found among %ss", ErrInvalidSnapshot, inst.Name, inst.Kind, want)
		}
		if names[inst.Name] {
			return fmt.Errorf("%w: duplicate name %s", ErrInvalidSnapshot, inst.Name)
		}
		if identities[inst.Identity] {
			return fmt.Errorf("%w: duplicate identity %s", ErrInvalidSnapshot, inst.Identity)
		}
		names[inst.Name] = true
		identities[inst.Identity] = true
		return nil
	}

	pages := make([][]*Instance, len(snap.PageGroups))
	for g, group := range snap.PageGroups {
		for _, inst := range group {
			if err := check(inst, catalog.KindPage); err != nil {
				return err
			}
			c := inst.clone()
			c.GroupIndex = g
			pages[g] = append(pages[g], &c)
		}
	}
	features := make([]*Instance, 0, len(snap.Features))
	for _, inst := range snap.Features {
		if err := check(inst, catalog.KindFeature); err != nil {
			return err
		}
		c := inst.clone()
		c.GroupIndex = 0
		features = append(features, &c)
	}

	s.pages = pages
	s.features = features
	s.trimGroups()
	s.alignHome()
	if snap.Pending != nil {
		edit := *snap.Pending
		s.pending = &edit
	}
	return nil
}
