package engine

import (
	"context"

	"github.com/danieljhkim/appcomposer/internal/persist"
	"github.com/danieljhkim/appcomposer/internal/selection"
)

// Export writes the committed composition to the project manifest. A
// pending edit is not part of the export.
func (e *Engine) Export(ctx context.Context, req *ExportRequest) (*ExportResult, error) {
	sess, err := e.openSession(ctx, req.CWD)
	if err != nil {
		return nil, err
	}

	m := &persist.Manifest{
		Version:            persist.ManifestVersion,
		ProjectType:        sess.state.ProjectType,
		Framework:          sess.state.Framework,
		CatalogFingerprint: sess.catalog.Fingerprint(),
		Home:               sess.store.HomeName(),
		PageGroups:         [][]persist.ManifestEntry{},
		Features:           manifestEntries(sess.store.Features()),
		ExportedAt:         e.clock.Now(),
	}
	for _, group := range sess.store.Pages() {
		m.PageGroups = append(m.PageGroups, manifestEntries(group))
	}

	_, pending := sess.store.Pending()
	result := &ExportResult{
		Path:           persist.ManifestPath(sess.root),
		Manifest:       m,
		PendingSkipped: pending,
		Drift:          sess.drift,
	}
	if req.DryRun {
		return result, nil
	}

	if _, err := e.exporter.Write(sess.root, m); err != nil {
		return nil, err
	}
	result.Written = true
	e.logger.Info("composition exported", "path", result.Path, "instances", m.Len())
	return result, nil
}

func manifestEntries(insts []selection.Instance) []persist.ManifestEntry {
	out := make([]persist.ManifestEntry, len(insts))
	for i, inst := range insts {
		out[i] = persist.ManifestEntry{
			Name:     inst.Name,
			Template: inst.Identity,
			Hidden:   inst.IsHidden,
		}
	}
	return out
}
