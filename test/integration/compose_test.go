package integration

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danieljhkim/appcomposer/internal/catalog"
	"github.com/danieljhkim/appcomposer/internal/engine"
	"github.com/danieljhkim/appcomposer/internal/persist"
	"github.com/danieljhkim/appcomposer/internal/selection"
	"github.com/danieljhkim/appcomposer/internal/telemetry"
)

func groupNames(st *engine.StatusResult) [][]string {
	out := make([][]string, len(st.PageGroups))
	for i, group := range st.PageGroups {
		for _, p := range group {
			out[i] = append(out[i], p.Name)
		}
	}
	return out
}

func featureNames(st *engine.StatusResult) []string {
	var out []string
	for _, f := range st.Features {
		out = append(out, f.Name)
	}
	return out
}

// Every step runs on a fresh engine so the composition must survive the
// session file round trip.
func TestCompose_FullCycle(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	cwd := filepath.Join(env.project, "src", "views")
	if err := os.MkdirAll(cwd, 0755); err != nil {
		t.Fatal(err)
	}

	started, err := env.newEngine(t).NewSession(ctx, &engine.NewSessionRequest{CWD: cwd, ProjectType: "SplitView"})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	if started.Home != "Main" {
		t.Errorf("Home = %q, want Main", started.Home)
	}

	// Free-named template committed directly.
	added, err := env.newEngine(t).Add(ctx, &engine.AddRequest{CWD: cwd, Template: "shop.Page.Grid", Name: "Orders"})
	if err != nil {
		t.Fatalf("Add(Grid) error = %v", err)
	}
	if len(added.Added) != 2 {
		t.Fatalf("Add(Grid) added %d instances, want the page and its dependency", len(added.Added))
	}

	// Free-named template through a pending edit.
	added, err = env.newEngine(t).Add(ctx, &engine.AddRequest{CWD: cwd, Template: "shop.Page.Chart"})
	if err != nil {
		t.Fatalf("Add(Chart) error = %v", err)
	}
	if added.Pending == nil || added.Pending.Name != "Chart" {
		t.Fatalf("Add(Chart) pending = %+v, want Chart", added.Pending)
	}
	named, err := env.newEngine(t).SetPendingName(ctx, &engine.SetNameRequest{CWD: cwd, Name: "Orders"})
	if err != nil {
		t.Fatalf("SetPendingName() error = %v", err)
	}
	if named.Pending.Valid {
		t.Error("expected a taken name to be invalid")
	}
	if _, err := env.newEngine(t).SaveEdit(ctx, &engine.SaveEditRequest{CWD: cwd}); !errors.Is(err, engine.ErrValidation) {
		t.Fatalf("SaveEdit() with invalid name error = %v, want ErrValidation", err)
	}
	if _, err := env.newEngine(t).SetPendingName(ctx, &engine.SetNameRequest{CWD: cwd, Name: "Sales"}); err != nil {
		t.Fatalf("SetPendingName() error = %v", err)
	}
	if _, err := env.newEngine(t).SaveEdit(ctx, &engine.SaveEditRequest{CWD: cwd}); err != nil {
		t.Fatalf("SaveEdit() error = %v", err)
	}

	// Fixed-name page in the second page group.
	if _, err := env.newEngine(t).Add(ctx, &engine.AddRequest{CWD: cwd, Template: "shop.Page.Login"}); err != nil {
		t.Fatalf("Add(Login) error = %v", err)
	}

	st, err := env.newEngine(t).Status(ctx, &engine.StatusRequest{CWD: env.project})
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if diff := cmp.Diff([][]string{{"Main", "Orders", "Sales"}, {"Login"}}, groupNames(st)); diff != "" {
		t.Errorf("page groups mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Settings", "Data"}, featureNames(st)); diff != "" {
		t.Errorf("features mismatch (-want +got):\n%s", diff)
	}
	if st.Pending != nil {
		t.Errorf("Pending = %+v, want none", st.Pending)
	}

	if _, err := env.newEngine(t).SetHome(ctx, &engine.SetHomeRequest{CWD: cwd, Name: "Login"}); !errors.Is(err, selection.ErrHomeIneligible) {
		t.Errorf("SetHome(Login) error = %v, want ErrHomeIneligible", err)
	}

	// Data stays while Sales still needs it.
	removed, err := env.newEngine(t).Remove(ctx, &engine.RemoveRequest{CWD: cwd, Name: "Orders"})
	if err != nil {
		t.Fatalf("Remove(Orders) error = %v", err)
	}
	if len(removed.Pruned) != 0 {
		t.Errorf("Remove(Orders) pruned %v, want nothing", removed.Pruned)
	}
	removed, err = env.newEngine(t).Remove(ctx, &engine.RemoveRequest{CWD: cwd, Name: "Sales"})
	if err != nil {
		t.Fatalf("Remove(Sales) error = %v", err)
	}
	if diff := cmp.Diff([]string{"Data"}, removed.Pruned); diff != "" {
		t.Errorf("Remove(Sales) pruned mismatch (-want +got):\n%s", diff)
	}

	exported, err := env.newEngine(t).Export(ctx, &engine.ExportRequest{CWD: cwd})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !exported.Written {
		t.Fatal("expected the manifest to be written")
	}

	m, err := persist.NewExporter(env.fs).Read(env.project)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	want := [][]persist.ManifestEntry{
		{{Name: "Main", Template: "shop.Page.Main"}},
		{{Name: "Login", Template: "shop.Page.Login"}},
	}
	if diff := cmp.Diff(want, m.PageGroups); diff != "" {
		t.Errorf("manifest page groups mismatch (-want +got):\n%s", diff)
	}
	if m.Home != "Main" || m.ProjectType != "SplitView" {
		t.Errorf("manifest home=%q type=%q", m.Home, m.ProjectType)
	}
}

func TestCompose_CatalogDrift(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	if _, err := env.newEngine(t).NewSession(ctx, &engine.NewSessionRequest{CWD: env.project, ProjectType: "SplitView"}); err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	st, err := env.newEngine(t).Status(ctx, &engine.StatusRequest{CWD: env.project})
	if err != nil {
		t.Fatal(err)
	}
	if st.Drift {
		t.Fatal("unexpected drift on an unchanged catalog")
	}

	// A project-local catalog layers over the global one.
	local := catalog.NewFileRepo(env.fs, filepath.Join(env.project, catalog.ProjectCatalogDir), env.hasher)
	extra := &catalog.TemplatesFile{Templates: []catalog.Template{
		{Identity: "acme.Page.Map", Name: "Map", Kind: catalog.KindPage, CanChooseName: true, DefaultName: "Map"},
	}}
	if err := local.SaveTemplates("acme", extra); err != nil {
		t.Fatalf("SaveTemplates() error = %v", err)
	}

	st, err = env.newEngine(t).Status(ctx, &engine.StatusRequest{CWD: env.project})
	if err != nil {
		t.Fatal(err)
	}
	if !st.Drift {
		t.Fatal("expected drift after the catalog changed")
	}

	added, err := env.newEngine(t).Add(ctx, &engine.AddRequest{CWD: env.project, Template: "acme.Page.Map", Name: "Stores"})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if !added.Drift {
		t.Error("expected Add to report the drift it saw")
	}

	st, err = env.newEngine(t).Status(ctx, &engine.StatusRequest{CWD: env.project})
	if err != nil {
		t.Fatal(err)
	}
	if st.Drift {
		t.Error("expected saving to adopt the new catalog fingerprint")
	}
}

func TestCompose_Telemetry(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	if _, err := env.newEngine(t).NewSession(ctx, &engine.NewSessionRequest{CWD: env.project, ProjectType: "SplitView"}); err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	eng := env.newEngine(t, engine.WithTelemetry(env.openTelemetry(t)))
	if _, err := eng.Rename(ctx, &engine.RenameRequest{CWD: env.project, Name: "Main", NewName: "Dashboard"}); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if _, err := eng.Add(ctx, &engine.AddRequest{CWD: env.project, Template: "shop.Feature.Toast", Name: "Alerts"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := eng.Remove(ctx, &engine.RemoveRequest{CWD: env.project, Name: "Alerts"}); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := eng.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	f, err := os.Open(env.paths.Telemetry)
	if err != nil {
		t.Fatalf("failed to open telemetry file: %v", err)
	}
	defer f.Close()

	var actions []telemetry.Action
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ev telemetry.Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Fatalf("bad telemetry line %q: %v", scanner.Text(), err)
		}
		if ev.Session == "" {
			t.Errorf("event %s has no session", ev.Action)
		}
		actions = append(actions, ev.Action)
	}
	if diff := cmp.Diff([]telemetry.Action{telemetry.ActionRename, telemetry.ActionRemove}, actions); diff != "" {
		t.Errorf("telemetry actions mismatch (-want +got):\n%s", diff)
	}
}
