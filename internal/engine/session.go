package engine

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/danieljhkim/appcomposer/internal/catalog"
	"github.com/danieljhkim/appcomposer/internal/selection"
	"github.com/danieljhkim/appcomposer/internal/state"
)

// session is a loaded session replayed into a store.
type session struct {
	id      string
	root    string
	state   *state.SessionState
	catalog *catalog.Catalog
	store   *selection.Store

	// drift is set when the catalog fingerprint differs from the saved one
	drift bool
}

func (e *Engine) loadCatalog(root string) (*catalog.Catalog, error) {
	cat, err := e.catalogs.Load(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}

// openSession loads the session of the project containing cwd.
func (e *Engine) openSession(ctx context.Context, cwd string) (*session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, _, id, err := e.discoverProject(cwd)
	if err != nil {
		return nil, err
	}

	st, err := e.stateStore.LoadSession(id)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrNoSession, root)
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	cat, err := e.loadCatalog(root)
	if err != nil {
		return nil, err
	}

	store := selection.New(cat, st.Framework, e.storeOptions(id)...)
	if err := e.replay(store, st, cat); err != nil {
		return nil, fmt.Errorf("session %s cannot be restored: %w", state.ShortID(id), err)
	}

	sess := &session{
		id:      id,
		root:    root,
		state:   st,
		catalog: cat,
		store:   store,
		drift:   st.CatalogFingerprint != "" && st.CatalogFingerprint != cat.Fingerprint(),
	}
	if sess.drift {
		e.logger.Warn("catalog changed since the session was saved",
			"session", state.ShortID(id), "saved", st.CatalogFingerprint, "current", cat.Fingerprint())
	}
	e.observe(sess)
	return sess, nil
}

// observe logs composition changes.
func (e *Engine) observe(sess *session) {
	sess.store.Subscribe(func(ev selection.Event) {
		e.logger.Debug("composition changed",
			"session", state.ShortID(sess.id), "event", ev.Type, "name", ev.Name, "previous", ev.Previous)
	})
}

// replay restores the persisted composition into an empty store. A pending
// edit whose template left the catalog is dropped.
func (e *Engine) replay(store *selection.Store, st *state.SessionState, cat *catalog.Catalog) error {
	snap := selection.Snapshot{
		PageGroups: make([][]selection.Instance, len(st.PageGroups)),
		Features:   make([]selection.Instance, len(st.Features)),
	}
	for g, group := range st.PageGroups {
		snap.PageGroups[g] = make([]selection.Instance, len(group))
		for i, rec := range group {
			snap.PageGroups[g][i] = fromRecord(rec, g)
		}
	}
	for i, rec := range st.Features {
		snap.Features[i] = fromRecord(rec, 0)
	}

	var pendingName string
	if p := st.Pending; p != nil {
		if t, ok := cat.Template(p.Template); ok {
			snap.Pending = &selection.PendingEdit{Template: t, Name: p.Name}
			pendingName = p.Name
		} else {
			e.logger.Warn("dropping pending edit for unknown template", "template", p.Template, "name", p.Name)
		}
	}

	if err := store.Restore(snap); err != nil {
		return err
	}
	if snap.Pending != nil {
		// recompute the validation state against the restored names
		if _, err := store.SetPendingName(pendingName); err != nil {
			return err
		}
	}
	return nil
}

// saveSession writes the store composition back into the session file.
func (e *Engine) saveSession(sess *session) error {
	snap := sess.store.Snapshot()
	st := sess.state

	st.PageGroups = make([][]state.InstanceRecord, len(snap.PageGroups))
	for g, group := range snap.PageGroups {
		st.PageGroups[g] = make([]state.InstanceRecord, len(group))
		for i, inst := range group {
			st.PageGroups[g][i] = toRecord(inst)
		}
	}
	st.Features = make([]state.InstanceRecord, len(snap.Features))
	for i, inst := range snap.Features {
		st.Features[i] = toRecord(inst)
	}
	st.Pending = nil
	if snap.Pending != nil {
		st.Pending = &state.PendingRecord{
			Template: snap.Pending.Template.Identity,
			Name:     snap.Pending.Name,
		}
	}

	st.CatalogFingerprint = sess.catalog.Fingerprint()
	st.UpdatedAt = e.clock.Now()

	if err := e.stateStore.SaveSession(sess.id, st); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// mutate opens the session, applies fn and saves the result. Nothing is
// saved when fn fails.
func (e *Engine) mutate(ctx context.Context, cwd string, fn func(*session) error) (*session, error) {
	sess, err := e.openSession(ctx, cwd)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return sess, classify(err)
	}
	if err := e.saveSession(sess); err != nil {
		return sess, err
	}
	return sess, nil
}

func toRecord(inst selection.Instance) state.InstanceRecord {
	return state.InstanceRecord{
		Name:          inst.Name,
		Template:      inst.Identity,
		Kind:          string(inst.Kind),
		Home:          inst.IsHome,
		Removable:     inst.IsRemovable,
		Hidden:        inst.IsHidden,
		CanChooseName: inst.CanChooseName,
		Dependencies:  inst.Dependencies,
	}
}

func fromRecord(rec state.InstanceRecord, group int) selection.Instance {
	return selection.Instance{
		Name:          rec.Name,
		Identity:      rec.Template,
		Kind:          catalog.Kind(rec.Kind),
		IsHome:        rec.Home,
		IsRemovable:   rec.Removable,
		IsHidden:      rec.Hidden,
		CanChooseName: rec.CanChooseName,
		Dependencies:  rec.Dependencies,
		GroupIndex:    group,
	}
}
