package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/appcomposer/internal/catalog"
	"github.com/danieljhkim/appcomposer/internal/selection"
)

// Rename renames an instance.
func (e *Engine) Rename(ctx context.Context, req *RenameRequest) (*RenameResult, error) {
	_, err := e.mutate(ctx, req.CWD, func(sess *session) error {
		return sess.store.RenameInstance(req.Name, req.NewName)
	})
	if err != nil {
		return nil, err
	}
	return &RenameResult{Old: req.Name, New: req.NewName}, nil
}

// SetHome makes a page of the first page-group the home page.
func (e *Engine) SetHome(ctx context.Context, req *SetHomeRequest) (*SetHomeResult, error) {
	result := &SetHomeResult{}
	sess, err := e.mutate(ctx, req.CWD, func(sess *session) error {
		result.Previous = sess.store.HomeName()
		return sess.store.SetHome(req.Name)
	})
	if err != nil {
		return nil, err
	}
	result.Home = sess.store.HomeName()
	return result, nil
}

// Move reorders a page within its page-group.
func (e *Engine) Move(ctx context.Context, req *MoveRequest) (*MoveResult, error) {
	result := &MoveResult{}
	sess, err := e.mutate(ctx, req.CWD, func(sess *session) error {
		inst, ok := sess.store.Find(req.Name)
		if !ok {
			return fmt.Errorf("%w: %s", selection.ErrNotFound, req.Name)
		}
		if inst.Kind != catalog.KindPage {
			return fmt.Errorf("%w: %s", selection.ErrNotPage, req.Name)
		}

		group := inst.GroupIndex
		from := -1
		for i, p := range sess.store.Pages()[group] {
			if p.Name == inst.Name {
				from = i
				break
			}
		}
		result.Group = group
		return sess.store.ReorderPage(group, from, req.To)
	})
	if err != nil {
		return nil, err
	}

	for _, p := range sess.store.Pages()[result.Group] {
		result.Order = append(result.Order, p.Name)
	}
	result.Home = sess.store.HomeName()
	return result, nil
}
