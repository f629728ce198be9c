package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/appcomposer/internal/planner"
	"github.com/danieljhkim/appcomposer/internal/selection"
)

// Add adds a catalog template to the composition. Free-named templates are
// left pending unless req.Name is given, in which case they are committed
// under that name.
func (e *Engine) Add(ctx context.Context, req *AddRequest) (*AddResult, error) {
	result := &AddResult{}
	sess, err := e.mutate(ctx, req.CWD, func(sess *session) error {
		t, ok := sess.catalog.Template(req.Template)
		if !ok {
			return fmt.Errorf("%w: template %s", ErrNotFound, req.Template)
		}
		if req.Name != "" && !t.CanChooseName {
			return fmt.Errorf("%w: template %s is always named %s", ErrValidation, t.Identity, t.DefaultName)
		}

		res, err := sess.store.AddTemplate(t)
		if err != nil {
			return err
		}
		if res.Pending == nil {
			result.Added = instanceInfos(res.Added)
			return nil
		}
		if req.Name == "" {
			result.Pending = pendingInfo(*res.Pending)
			return nil
		}

		if _, err := sess.store.SetPendingName(req.Name); err != nil {
			return err
		}
		added, err := sess.store.SaveTemplateEdit()
		if err != nil {
			return err
		}
		result.Added = instanceInfos(added)
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Home = sess.store.HomeName()
	result.Drift = sess.drift
	return result, nil
}

// SetPendingName renames the pending edit. An invalid name is stored and
// reported in the result rather than as an error.
func (e *Engine) SetPendingName(ctx context.Context, req *SetNameRequest) (*SetNameResult, error) {
	result := &SetNameResult{}
	_, err := e.mutate(ctx, req.CWD, func(sess *session) error {
		if _, err := sess.store.SetPendingName(req.Name); err != nil {
			return err
		}
		edit, _ := sess.store.Pending()
		result.Pending = *pendingInfo(edit)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SaveEdit commits the pending edit under its current name.
func (e *Engine) SaveEdit(ctx context.Context, req *SaveEditRequest) (*AddResult, error) {
	result := &AddResult{}
	sess, err := e.mutate(ctx, req.CWD, func(sess *session) error {
		added, err := sess.store.SaveTemplateEdit()
		if err != nil {
			return err
		}
		result.Added = instanceInfos(added)
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Home = sess.store.HomeName()
	result.Drift = sess.drift
	return result, nil
}

// CancelEdit discards the pending edit.
func (e *Engine) CancelEdit(ctx context.Context, req *CancelEditRequest) (*CancelEditResult, error) {
	result := &CancelEditResult{}
	_, err := e.mutate(ctx, req.CWD, func(sess *session) error {
		if edit, ok := sess.store.Pending(); ok {
			result.Template = edit.Template.Identity
			result.Name = edit.Name
		}
		return sess.store.CancelTemplateEdit()
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Remove deletes an instance and prunes the hidden dependencies only it
// used. A dry run reports the plan, including any conflict, without saving.
func (e *Engine) Remove(ctx context.Context, req *RemoveRequest) (*RemoveResult, error) {
	if req.DryRun {
		return e.planRemove(ctx, req)
	}

	var plan *planner.Plan
	sess, err := e.mutate(ctx, req.CWD, func(sess *session) error {
		var err error
		plan, err = sess.store.RemoveTemplate(req.Name, true)
		return err
	})
	if err != nil {
		return nil, err
	}

	result := removeResult(plan)
	result.Home = sess.store.HomeName()
	return result, nil
}

func (e *Engine) planRemove(ctx context.Context, req *RemoveRequest) (*RemoveResult, error) {
	sess, err := e.openSession(ctx, req.CWD)
	if err != nil {
		return nil, err
	}

	inst, ok := sess.store.Find(req.Name)
	if !ok {
		return nil, classify(fmt.Errorf("%w: %s", selection.ErrNotFound, req.Name))
	}
	if !inst.IsRemovable {
		return nil, fmt.Errorf("%w: %s", selection.ErrNotRemovable, req.Name)
	}

	plan, err := sess.store.PlanRemoval(req.Name)
	if err != nil {
		return nil, classify(err)
	}

	result := removeResult(plan)
	result.DryRun = true
	result.Home = sess.store.HomeName()
	return result, nil
}

func removeResult(plan *planner.Plan) *RemoveResult {
	result := &RemoveResult{
		Plan:    plan,
		Removed: plan.Names(planner.OpRemove),
		Pruned:  plan.Names(planner.OpPrune),
	}
	if plan.HasConflicts() && plan.Conflicts[0].Dependent != nil {
		result.Conflict = plan.Conflicts[0].Dependent.Name
	}
	return result
}
