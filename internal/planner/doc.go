// Package planner computes composition changes before they are applied.
//
// The selection store never mutates directly: it asks the planner for a
// Plan describing every instance that would be inserted, removed or pruned,
// checks the plan for conflicts, and only then applies it. The same plans
// back dry-run previews in the CLI.
//
// Key responsibilities:
//   - Build insert plans for a template and its missing dependencies
//   - Build remove plans including the hidden-dependency pruning cascade
//   - Detect conflicts (surviving dependents, duplicate identities or names)
package planner
