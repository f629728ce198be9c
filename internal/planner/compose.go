package planner

import (
	"errors"
	"fmt"
)

// ErrUnknownEntry is returned when a plan targets a name not in the
// composition.
var ErrUnknownEntry = errors.New("unknown instance")

// PlanInsert checks ops against entries and returns them as a plan. Each op
// is checked against the entries and the ops before it.
func PlanInsert(entries []Entry, ops []Operation) *Plan {
	checker := NewConflictChecker(entries)
	plan := NewPlan()
	for _, op := range ops {
		op.Type = OpInsert
		if conflict := checker.CheckInsert(op, plan.Operations); conflict != nil {
			plan.AddConflict(*conflict)
			continue
		}
		plan.AddOperation(op)
	}
	return plan
}

// PlanRemoval plans the removal of the named entry followed by pruning of
// hidden dependencies that nothing else references anymore. The plan holds a
// conflict instead of operations when a surviving entry depends on the
// target.
func PlanRemoval(entries []Entry, name string) (*Plan, error) {
	checker := NewConflictChecker(entries)
	target, ok := checker.ByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntry, name)
	}

	plan := NewPlan()
	removed := map[string]bool{}
	if conflict := checker.CheckRemoval(target, removed); conflict != nil {
		plan.AddConflict(*conflict)
		return plan, nil
	}

	removed[target.Name] = true
	plan.AddOperation(removeOp(OpRemove, target, ""))
	prune(checker, plan, target, removed)
	return plan, nil
}

// prune removes the hidden entries reachable from gone that only removed or
// pruned entries reference. Candidates are gathered first and then dropped
// until no surviving entry references any of them, so hidden entries that
// reference each other go together. Pruned entries are planned in
// composition order.
func prune(checker *ConflictChecker, plan *Plan, gone Entry, removed map[string]bool) {
	cause := map[string]string{}
	pruned := make(map[string]bool, len(removed))
	for name := range removed {
		pruned[name] = true
	}

	queue := []Entry{gone}
	for len(queue) > 0 {
		from := queue[0]
		queue = queue[1:]
		for _, id := range from.Dependencies {
			dep, ok := checker.ByIdentity(id)
			if !ok || !dep.Hidden || pruned[dep.Name] {
				continue
			}
			pruned[dep.Name] = true
			cause[dep.Name] = from.Name
			queue = append(queue, dep)
		}
	}

	for changed := true; changed; {
		changed = false
		for name := range cause {
			if !pruned[name] {
				continue
			}
			dep, _ := checker.ByName(name)
			if checker.Dependent(dep.Identity, pruned) != nil {
				pruned[name] = false
				changed = true
			}
		}
	}

	for _, e := range checker.entries {
		if _, ok := cause[e.Name]; ok && pruned[e.Name] {
			removed[e.Name] = true
			plan.AddOperation(removeOp(OpPrune, e, cause[e.Name]))
		}
	}
}

func removeOp(typ string, e Entry, cause string) Operation {
	return Operation{
		Type:         typ,
		Name:         e.Name,
		Identity:     e.Identity,
		Kind:         e.Kind,
		Removable:    e.Removable,
		Hidden:       e.Hidden,
		Dependencies: e.Dependencies,
		Cause:        cause,
	}
}
