package selection

import (
	"fmt"

	"github.com/danieljhkim/appcomposer/internal/naming"
)

// InitializeFromLayout fills an empty composition from the catalog layout
// for projectType. Each entry is committed under its layout name, inferring
// a suffix if the name is taken, and is removable unless the layout marks it
// read-only. Entries for unknown templates are skipped. On failure the
// composition stays empty and no events are delivered.
func (s *Store) InitializeFromLayout(projectType string) error {
	if !s.IsEmpty() {
		return ErrNotEmpty
	}

	restore := s.checkpoint()
	s.beginBatch()

	for _, item := range s.catalog.Layout(projectType, s.framework) {
		if item.Template == nil {
			s.logger.Warn("layout entry references unavailable template",
				"projectType", projectType, "framework", s.framework, "entry", item.Name)
			continue
		}
		t := *item.Template
		if s.findIdentity(t.Identity) != nil {
			continue
		}

		name, err := naming.Infer(item.Name, s.baseRules(s.Names())...)
		if err == nil {
			_, err = s.commit(t, name, !item.ReadOnly)
		}
		if err != nil {
			restore()
			s.endBatch(false)
			return fmt.Errorf("layout %s entry %s: %w", projectType, item.Name, err)
		}
	}

	s.endBatch(true)
	return nil
}

// Reset discards the composition and any pending edit.
func (s *Store) Reset() {
	s.pages = nil
	s.features = nil
	s.pending = nil
	s.emit(Event{Type: Reset})
	s.emit(Event{Type: AvailabilityChanged})
}
