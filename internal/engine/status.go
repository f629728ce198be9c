package engine

import (
	"context"
	"errors"

	"github.com/danieljhkim/appcomposer/internal/catalog"
)

// Status returns the composition of the current session.
func (e *Engine) Status(ctx context.Context, req *StatusRequest) (*StatusResult, error) {
	sess, err := e.openSession(ctx, req.CWD)
	if err != nil {
		return nil, err
	}

	result := &StatusResult{
		SessionID:          sess.id,
		ProjectRoot:        sess.root,
		ProjectType:        sess.state.ProjectType,
		Framework:          sess.state.Framework,
		Home:               sess.store.HomeName(),
		Features:           instanceInfos(sess.store.Features()),
		Drift:              sess.drift,
		CatalogFingerprint: sess.state.CatalogFingerprint,
		CreatedAt:          sess.state.CreatedAt,
		UpdatedAt:          sess.state.UpdatedAt,
	}

	groups := sess.store.Pages()
	result.PageGroups = make([][]InstanceInfo, len(groups))
	for g, group := range groups {
		result.PageGroups[g] = instanceInfos(group)
	}

	if edit, ok := sess.store.Pending(); ok {
		result.Pending = pendingInfo(edit)
	}

	if rel, err := e.project.RelPath(sess.root, req.CWD); err == nil && rel != "." {
		result.Subdir = rel
	}

	return result, nil
}

// Catalog lists catalog templates with their selection state. Outside a
// session every template is listed unselected.
func (e *Engine) Catalog(ctx context.Context, req *CatalogRequest) (*CatalogResult, error) {
	sess, err := e.openSession(ctx, req.CWD)
	if err != nil && !errors.Is(err, ErrNoSession) {
		return nil, err
	}

	var preds []catalog.Predicate
	if req.Kind != "" {
		preds = append(preds, catalog.OfKind(req.Kind))
	}

	if sess == nil {
		root, _, _, err := e.discoverProject(req.CWD)
		if err != nil {
			return nil, err
		}
		cat, err := e.loadCatalog(root)
		if err != nil {
			return nil, err
		}
		if !req.All {
			preds = append(preds, catalog.Visible())
		}
		result := &CatalogResult{}
		for _, t := range cat.Templates(catalog.And(preds...)) {
			result.Templates = append(result.Templates, templateInfo(t, false, true))
		}
		return result, nil
	}

	framework := sess.store.Framework()
	if !req.All {
		preds = append(preds, catalog.Visible(), catalog.ForFramework(framework))
	}

	result := &CatalogResult{HasSession: true, Drift: sess.drift}
	for _, a := range sess.store.Availability(catalog.And(preds...)) {
		result.Templates = append(result.Templates, templateInfo(a.Template, a.Selected, a.Template.SupportsFramework(framework)))
	}
	return result, nil
}

func templateInfo(t catalog.Template, selected, supported bool) TemplateInfo {
	return TemplateInfo{
		Identity:    t.Identity,
		Name:        t.DisplayName(),
		Description: t.Description,
		Kind:        t.Kind,
		Group:       t.Group,
		Selected:    selected,
		Hidden:      t.Hidden,
		Supported:   supported,
	}
}
