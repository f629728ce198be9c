package integration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danieljhkim/appcomposer/internal/catalog"
	"github.com/danieljhkim/appcomposer/internal/clock"
	"github.com/danieljhkim/appcomposer/internal/config"
	"github.com/danieljhkim/appcomposer/internal/engine"
	"github.com/danieljhkim/appcomposer/internal/fsops"
	"github.com/danieljhkim/appcomposer/internal/gitx"
	"github.com/danieljhkim/appcomposer/internal/hash"
	"github.com/danieljhkim/appcomposer/internal/logx"
	"github.com/danieljhkim/appcomposer/internal/persist"
	"github.com/danieljhkim/appcomposer/internal/state"
	"github.com/danieljhkim/appcomposer/internal/telemetry"
)

// testEnv is a project on disk with a global catalog and session directory.
type testEnv struct {
	paths   *config.Paths
	project string
	fs      *fsops.RealFS
	hasher  *hash.SHA256Hasher
	clock   *clock.FakeClock
}

func shopTemplates() *catalog.TemplatesFile {
	return &catalog.TemplatesFile{Templates: []catalog.Template{
		{Identity: "shop.Page.Main", Name: "Main page", Kind: catalog.KindPage, CanChooseName: true, DefaultName: "Main"},
		{Identity: "shop.Page.Grid", Name: "Data grid", Kind: catalog.KindPage, CanChooseName: true, DefaultName: "Grid",
			Dependencies: []string{"shop.Feature.Data"}},
		{Identity: "shop.Page.Chart", Name: "Chart", Kind: catalog.KindPage, CanChooseName: true, DefaultName: "Chart",
			Dependencies: []string{"shop.Feature.Data"}},
		{Identity: "shop.Page.Login", Name: "Login", Kind: catalog.KindPage, GenGroup: 1, DefaultName: "Login"},
		{Identity: "shop.Feature.Data", Kind: catalog.KindFeature, Hidden: true, DefaultName: "Data"},
		{Identity: "shop.Feature.Settings", Name: "Settings", Kind: catalog.KindFeature, DefaultName: "Settings"},
		{Identity: "shop.Feature.Toast", Name: "Notifications", Kind: catalog.KindFeature, CanChooseName: true, DefaultName: "Toast"},
	}}
}

func shopLayouts() *catalog.LayoutsFile {
	return &catalog.LayoutsFile{Layouts: []catalog.Layout{
		{ProjectType: "SplitView", Entries: []catalog.LayoutEntry{
			{Name: "Main", Template: "shop.Page.Main"},
			{Name: "Settings", Template: "shop.Feature.Settings", ReadOnly: true},
		}},
	}}
}

// setupTestEnv writes the shop catalog to the global catalog directory and
// creates a project marked with an .appcomposer directory.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	tmpDir := t.TempDir()

	env := &testEnv{
		paths:   config.PathsAt(filepath.Join(tmpDir, "home")),
		project: filepath.Join(tmpDir, "project"),
		fs:      fsops.NewRealFS(),
		hasher:  hash.NewSHA256Hasher(),
		clock:   clock.NewFakeClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)),
	}
	if err := env.paths.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories() error = %v", err)
	}
	if err := os.MkdirAll(filepath.Join(env.project, gitx.MarkerDir), 0755); err != nil {
		t.Fatalf("failed to create project: %v", err)
	}

	repo := catalog.NewFileRepo(env.fs, env.paths.Catalog, env.hasher)
	if err := repo.SaveTemplates("shop", shopTemplates()); err != nil {
		t.Fatalf("SaveTemplates() error = %v", err)
	}
	if err := repo.SaveLayouts("shop", shopLayouts()); err != nil {
		t.Fatalf("SaveLayouts() error = %v", err)
	}
	return env
}

// newEngine builds an engine over the environment, as the CLI would for a
// single command.
func (env *testEnv) newEngine(t *testing.T, opts ...engine.Option) *engine.Engine {
	t.Helper()
	opts = append([]engine.Option{engine.WithLogger(logx.Discard())}, opts...)
	eng := engine.New(
		gitx.NewRealProject(),
		catalog.NewLoader(env.fs, env.hasher, env.paths.Catalog),
		state.NewFileStateStore(env.fs, env.paths.Sessions),
		persist.NewExporter(env.fs),
		env.clock,
		opts...,
	)
	t.Cleanup(func() { _ = eng.Close() })
	return eng
}

// openTelemetry opens the file sink at the environment's telemetry path.
func (env *testEnv) openTelemetry(t *testing.T) *telemetry.AsyncSink {
	t.Helper()
	sink, err := telemetry.OpenFile(env.paths.Telemetry, telemetry.WithClock(env.clock))
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	return sink
}
