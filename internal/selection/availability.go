package selection

import "github.com/danieljhkim/appcomposer/internal/catalog"

// IsAlreadySelected reports whether identity is instantiated.
func (s *Store) IsAlreadySelected(identity string) bool {
	return s.findIdentity(identity) != nil
}

// Availability lists the catalog templates matching pred with their
// selection state, in catalog order.
func (s *Store) Availability(pred catalog.Predicate) []Availability {
	selected := make(map[string]bool)
	s.each(func(inst *Instance) {
		selected[inst.Identity] = true
	})

	templates := s.catalog.Templates(pred)
	out := make([]Availability, len(templates))
	for i, t := range templates {
		out[i] = Availability{Template: t, Selected: selected[t.Identity]}
	}
	return out
}
