package planner

import (
	"reflect"
	"testing"
)

func TestNewPlan(t *testing.T) {
	plan := NewPlan()

	if plan.Operations == nil || len(plan.Operations) != 0 {
		t.Errorf("expected empty initialized Operations, got %v", plan.Operations)
	}
	if plan.Conflicts == nil || len(plan.Conflicts) != 0 {
		t.Errorf("expected empty initialized Conflicts, got %v", plan.Conflicts)
	}
	if plan.HasConflicts() {
		t.Error("new plan should not have conflicts")
	}
}

func TestPlan_Names(t *testing.T) {
	plan := NewPlan()
	plan.AddOperation(Operation{Type: OpRemove, Name: "Main"})
	plan.AddOperation(Operation{Type: OpPrune, Name: "Sample"})
	plan.AddOperation(Operation{Type: OpPrune, Name: "Helpers"})

	tests := []struct {
		name  string
		types []string
		want  []string
	}{
		{"all", nil, []string{"Main", "Sample", "Helpers"}},
		{"removed only", []string{OpRemove}, []string{"Main"}},
		{"pruned only", []string{OpPrune}, []string{"Sample", "Helpers"}},
		{"inserts", []string{OpInsert}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := plan.Names(tt.types...); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Names(%v) = %v, want %v", tt.types, got, tt.want)
			}
		})
	}
}

func TestPlan_AddConflict(t *testing.T) {
	plan := NewPlan()
	plan.AddConflict(Conflict{Name: "Sample", Reason: "page Main depends on Sample"})

	if !plan.HasConflicts() {
		t.Error("expected HasConflicts after AddConflict")
	}
	if plan.Conflicts[0].Name != "Sample" {
		t.Errorf("unexpected conflict %+v", plan.Conflicts[0])
	}
}
