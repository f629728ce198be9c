package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/danieljhkim/appcomposer/internal/selection"
	"github.com/danieljhkim/appcomposer/internal/state"
)

// NewSession starts a composition session for the project containing
// req.CWD, pre-selecting the layout of the project type unless req.Empty.
func (e *Engine) NewSession(ctx context.Context, req *NewSessionRequest) (*NewSessionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, fingerprint, id, err := e.discoverProject(req.CWD)
	if err != nil {
		return nil, err
	}

	projectType := req.ProjectType
	if projectType == "" {
		projectType = e.settings.DefaultProjectType
	}
	framework := req.Framework
	if framework == "" {
		framework = e.settings.DefaultFramework
	}

	cat, err := e.loadCatalog(root)
	if err != nil {
		return nil, err
	}
	if projectType == "" {
		return nil, fmt.Errorf("%w: project type is required (available: %s)", ErrValidation, availableTypes(cat.ProjectTypes()))
	}

	_, err = e.stateStore.LoadSession(id)
	replaced := err == nil
	switch {
	case err != nil && !errors.Is(err, os.ErrNotExist):
		e.logger.Warn("existing session is unreadable", "session", state.ShortID(id), "error", err)
		if !req.Force {
			return nil, fmt.Errorf("failed to load existing session: %w", err)
		}
		replaced = true
	case replaced && !req.Force:
		return nil, fmt.Errorf("%w for %s (session %s)", ErrSessionExists, root, state.ShortID(id))
	}

	store := selection.New(cat, framework, e.storeOptions(id)...)
	if !req.Empty {
		if cat.Layout(projectType, framework) == nil {
			return nil, fmt.Errorf("%w: no layout for project type %q (available: %s)", ErrNotFound, projectType, availableTypes(cat.ProjectTypes()))
		}
		if err := store.InitializeFromLayout(projectType); err != nil {
			return nil, classify(err)
		}
	}

	sess := &session{
		id:      id,
		root:    root,
		state:   state.NewSessionState(fingerprint, root, projectType, framework, e.clock.Now()),
		catalog: cat,
		store:   store,
	}
	if err := e.saveSession(sess); err != nil {
		return nil, err
	}

	e.logger.Info("session started", "session", state.ShortID(id), "projectType", projectType,
		"framework", framework, "instances", len(store.Instances()))

	return &NewSessionResult{
		SessionID:   id,
		ProjectRoot: root,
		ProjectType: projectType,
		Framework:   framework,
		Replaced:    replaced,
		Instances:   instanceInfos(store.Instances()),
		Home:        store.HomeName(),
	}, nil
}

// Reset clears the composition and any pending edit, optionally re-applying
// the project layout.
func (e *Engine) Reset(ctx context.Context, req *ResetRequest) (*ResetResult, error) {
	result := &ResetResult{}
	sess, err := e.mutate(ctx, req.CWD, func(sess *session) error {
		result.Removed = len(sess.store.Instances())
		sess.store.Reset()
		if req.Layout {
			return sess.store.InitializeFromLayout(sess.state.ProjectType)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Instances = instanceInfos(sess.store.Instances())
	return result, nil
}

// ListSessions lists every stored session. Unreadable sessions are logged
// and skipped.
func (e *Engine) ListSessions(ctx context.Context) (*ListSessionsResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ids, err := e.stateStore.ListSessions()
	if err != nil {
		return nil, err
	}

	result := &ListSessionsResult{Sessions: make([]SessionInfo, 0, len(ids))}
	for _, id := range ids {
		st, err := e.stateStore.LoadSession(id)
		if err != nil {
			e.logger.Warn("skipping unreadable session", "session", id, "error", err)
			continue
		}
		result.Sessions = append(result.Sessions, SessionInfo{
			SessionID:   id,
			ProjectPath: st.ProjectPath,
			ProjectType: st.ProjectType,
			Framework:   st.Framework,
			Instances:   st.InstanceCount(),
			Pending:     st.Pending != nil,
			UpdatedAt:   st.UpdatedAt,
		})
	}
	return result, nil
}

// DeleteSession deletes a session chosen by ID prefix, or the session of the
// project containing req.CWD.
func (e *Engine) DeleteSession(ctx context.Context, req *DeleteSessionRequest) (*DeleteSessionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := req.SessionID
	if id == "" {
		_, _, cwdID, err := e.discoverProject(req.CWD)
		if err != nil {
			return nil, err
		}
		id = cwdID
	} else {
		resolved, err := e.resolveSessionID(id)
		if err != nil {
			return nil, err
		}
		id = resolved
	}

	st, err := e.stateStore.LoadSession(id)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: session %s", ErrNotFound, state.ShortID(id))
		}
		// a corrupt session can still be deleted
		e.logger.Warn("deleting unreadable session", "session", state.ShortID(id), "error", err)
		st = &state.SessionState{}
	}

	result := &DeleteSessionResult{SessionID: id, ProjectPath: st.ProjectPath}
	if req.DryRun {
		return result, nil
	}

	if err := e.stateStore.DeleteSession(id); err != nil {
		return nil, err
	}
	result.Deleted = true
	return result, nil
}

// resolveSessionID expands a unique prefix to a stored session ID.
func (e *Engine) resolveSessionID(prefix string) (string, error) {
	ids, err := e.stateStore.ListSessions()
	if err != nil {
		return "", err
	}

	var matches []string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: session %s", ErrNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: session prefix %q matches %d sessions", ErrValidation, prefix, len(matches))
	}
}

func availableTypes(types []string) string {
	if len(types) == 0 {
		return "none"
	}
	return strings.Join(types, ", ")
}
