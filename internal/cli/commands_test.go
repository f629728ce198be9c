package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/appcomposer/internal/config"
	"github.com/danieljhkim/appcomposer/internal/engine"
	"github.com/danieljhkim/appcomposer/internal/selection"
)

const testTemplates = `templates:
  - identity: shop.Page.Main
    name: Main page
    kind: page
    canChooseName: true
    defaultName: Main
  - identity: shop.Page.Grid
    name: Data grid
    kind: page
    canChooseName: true
    defaultName: Grid
    dependencies: [shop.Feature.Data]
  - identity: shop.Feature.Data
    kind: feature
    hidden: true
    defaultName: Data
  - identity: shop.Feature.Settings
    name: Settings
    kind: feature
    defaultName: Settings
`

const testLayouts = `layouts:
  - projectType: SplitView
    entries:
      - name: Main
        template: shop.Page.Main
      - name: Settings
        template: shop.Feature.Settings
        readOnly: true
`

// setupTestEnv creates a project with its own catalog and points the global
// directory at a temp dir. It returns the project root.
func setupTestEnv(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	t.Setenv(config.RootEnv, filepath.Join(tmpDir, "home"))

	project := filepath.Join(tmpDir, "project")
	catalogDir := filepath.Join(project, ".appcomposer", "catalog")
	require.NoError(t, os.MkdirAll(filepath.Join(catalogDir, "templates"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(catalogDir, "layouts"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(catalogDir, "templates", "shop.yaml"), []byte(testTemplates), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(catalogDir, "layouts", "shop.yaml"), []byte(testLayouts), 0644))

	oldDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(project))

	oldInteractive, oldPrompter, oldNoColor := interactive, prompter, color.NoColor
	interactive = func() bool { return false }
	color.NoColor = true

	t.Cleanup(func() {
		_ = os.Chdir(oldDir)
		interactive, prompter, color.NoColor = oldInteractive, oldPrompter, oldNoColor
	})
	return project
}

// resetFlags restores every flag to its default between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes the CLI with args and returns what it printed.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var bufOut, bufErr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&bufOut)
	rootCmd.SetErr(&bufErr)
	err := rootCmd.Execute()
	return bufOut.String(), bufErr.String(), err
}

// runJSON executes the CLI in JSON mode and decodes stdout into v.
func runJSON(t *testing.T, v any, args ...string) {
	t.Helper()
	out, errOut, err := run(t, append(args, "--json")...)
	require.NoError(t, err, "stderr: %s", errOut)
	require.NoError(t, json.Unmarshal([]byte(out), v), "stdout: %s", out)
}

func pageNames(st *engine.StatusResult) []string {
	var names []string
	for _, group := range st.PageGroups {
		for _, p := range group {
			names = append(names, p.Name)
		}
	}
	return names
}

func featureNames(st *engine.StatusResult) []string {
	var names []string
	for _, f := range st.Features {
		names = append(names, f.Name)
	}
	return names
}

func TestInitCommand(t *testing.T) {
	setupTestEnv(t)

	out, _, err := run(t, "init", "--type", "SplitView")
	require.NoError(t, err)
	assert.Contains(t, out, "Started session")
	assert.Contains(t, out, "Main")

	_, _, err = run(t, "init", "--type", "SplitView")
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrSessionExists))
	assert.Contains(t, FormatError(err), "--force")

	var result engine.NewSessionResult
	runJSON(t, &result, "init", "--type", "SplitView", "--empty", "--force")
	assert.True(t, result.Replaced)
	assert.Empty(t, result.Instances)
}

func TestStatusCommand_NoSession(t *testing.T) {
	setupTestEnv(t)

	_, _, err := run(t, "status")
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrNoSession))
	assert.Contains(t, FormatError(err), "appcomposer init")
}

func TestStatusCommand(t *testing.T) {
	project := setupTestEnv(t)
	_, _, err := run(t, "init", "--type", "SplitView")
	require.NoError(t, err)

	out, _, err := run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Main [home] (shop.Page.Main)")
	assert.Contains(t, out, "Settings (shop.Feature.Settings) [required]")

	var st engine.StatusResult
	runJSON(t, &st, "status")
	assert.Equal(t, "Main", st.Home)
	assert.Equal(t, "SplitView", st.ProjectType)
	assert.Equal(t, []string{"Main"}, pageNames(&st))
	assert.Equal(t, []string{"Settings"}, featureNames(&st))

	resolved, err := filepath.EvalSymlinks(project)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(st.ProjectRoot)
	require.NoError(t, err)
	assert.Equal(t, resolved, got)
}

func TestAddCommand_WithName(t *testing.T) {
	setupTestEnv(t)
	_, _, err := run(t, "init", "--type", "SplitView")
	require.NoError(t, err)

	out, _, err := run(t, "add", "shop.Page.Grid", "--name", "Orders")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Orders (shop.Page.Grid)")
	assert.Contains(t, out, "Data (shop.Feature.Data) as a dependency")

	var st engine.StatusResult
	runJSON(t, &st, "status")
	assert.Equal(t, []string{"Main", "Orders"}, pageNames(&st))
	assert.ElementsMatch(t, []string{"Settings", "Data"}, featureNames(&st))
}

func TestAddCommand_PendingEdit(t *testing.T) {
	setupTestEnv(t)
	_, _, err := run(t, "init", "--type", "SplitView")
	require.NoError(t, err)

	var added engine.AddResult
	runJSON(t, &added, "add", "shop.Page.Grid")
	require.NotNil(t, added.Pending)
	assert.Equal(t, "Grid", added.Pending.Name)
	assert.True(t, added.Pending.Valid)

	// A taken name is stored but reported as invalid.
	out, errOut, err := run(t, "name", "Main")
	require.NoError(t, err)
	assert.Contains(t, errOut, "already uses this name")
	assert.Contains(t, out, "appcomposer name <name>")
	assert.NotContains(t, out, "is now named")

	var st engine.StatusResult
	runJSON(t, &st, "status")
	require.NotNil(t, st.Pending)
	assert.Equal(t, "Main", st.Pending.Name)
	assert.False(t, st.Pending.Valid)

	_, _, err = run(t, "save")
	require.Error(t, err)

	_, _, err = run(t, "name", "Orders")
	require.NoError(t, err)

	out, _, err = run(t, "save")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Orders")

	_, _, err = run(t, "cancel")
	require.Error(t, err)
	assert.True(t, errors.Is(err, selection.ErrNoPendingEdit))
}

func TestAddCommand_Cancel(t *testing.T) {
	setupTestEnv(t)
	_, _, err := run(t, "init", "--type", "SplitView")
	require.NoError(t, err)

	_, _, err = run(t, "add", "shop.Page.Grid")
	require.NoError(t, err)

	out, _, err := run(t, "cancel")
	require.NoError(t, err)
	assert.Contains(t, out, "Discarded pending shop.Page.Grid")

	var st engine.StatusResult
	runJSON(t, &st, "status")
	assert.Nil(t, st.Pending)
	assert.Equal(t, []string{"Main"}, pageNames(&st))
}

// scriptedPrompter answers with each name in turn until one validates.
type scriptedPrompter struct {
	answers  []string
	rejected []string
	err      error
}

func (p *scriptedPrompter) Name(message, def string, validate func(string) error) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	for _, answer := range p.answers {
		if err := validate(answer); err != nil {
			p.rejected = append(p.rejected, err.Error())
			continue
		}
		return answer, nil
	}
	return "", ErrAborted
}

func TestAddCommand_Prompt(t *testing.T) {
	setupTestEnv(t)
	_, _, err := run(t, "init", "--type", "SplitView")
	require.NoError(t, err)

	p := &scriptedPrompter{answers: []string{"1bad", "Main", "Orders"}}
	prompter = p
	interactive = func() bool { return true }

	out, errOut, err := run(t, "add", "shop.Page.Grid")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Orders")
	assert.Empty(t, errOut)
	require.Len(t, p.rejected, 2)
	assert.Contains(t, p.rejected[0], "must start with a letter")
	assert.Contains(t, p.rejected[1], "already uses this name")

	var st engine.StatusResult
	runJSON(t, &st, "status")
	assert.Nil(t, st.Pending)
	assert.Equal(t, []string{"Main", "Orders"}, pageNames(&st))
}

func TestAddCommand_PromptAborted(t *testing.T) {
	setupTestEnv(t)
	_, _, err := run(t, "init", "--type", "SplitView")
	require.NoError(t, err)

	prompter = &scriptedPrompter{err: ErrAborted}
	interactive = func() bool { return true }

	_, errOut, err := run(t, "add", "shop.Page.Grid")
	require.NoError(t, err)
	assert.Contains(t, errOut, "Left shop.Page.Grid pending")

	var st engine.StatusResult
	runJSON(t, &st, "status")
	require.NotNil(t, st.Pending)
	assert.Equal(t, "shop.Page.Grid", st.Pending.Template)
}

func TestAddCommand_Errors(t *testing.T) {
	setupTestEnv(t)
	_, _, err := run(t, "init", "--type", "SplitView")
	require.NoError(t, err)

	_, _, err = run(t, "add", "shop.Page.Missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrNotFound))

	_, _, err = run(t, "add", "shop.Page.Main")
	require.Error(t, err)
	assert.True(t, errors.Is(err, selection.ErrAlreadySelected))

	_, _, err = run(t, "add")
	require.Error(t, err)
}

func TestRmCommand(t *testing.T) {
	setupTestEnv(t)
	_, _, err := run(t, "init", "--type", "SplitView")
	require.NoError(t, err)
	_, _, err = run(t, "add", "shop.Page.Grid", "--name", "Orders")
	require.NoError(t, err)

	t.Run("dry run", func(t *testing.T) {
		out, _, err := run(t, "rm", "Orders", "--dry-run")
		require.NoError(t, err)
		assert.Contains(t, out, "dry run")
		assert.Contains(t, out, "Data")

		var st engine.StatusResult
		runJSON(t, &st, "status")
		assert.Contains(t, pageNames(&st), "Orders")
	})

	t.Run("not removable", func(t *testing.T) {
		_, _, err := run(t, "rm", "Settings")
		require.Error(t, err)
		assert.True(t, errors.Is(err, selection.ErrNotRemovable))
	})

	t.Run("removes and prunes", func(t *testing.T) {
		var result engine.RemoveResult
		runJSON(t, &result, "rm", "Orders")
		assert.Equal(t, []string{"Orders"}, result.Removed)
		assert.Equal(t, []string{"Data"}, result.Pruned)

		var st engine.StatusResult
		runJSON(t, &st, "status")
		assert.Equal(t, []string{"Main"}, pageNames(&st))
		assert.Equal(t, []string{"Settings"}, featureNames(&st))
	})
}

func TestEditCommands(t *testing.T) {
	setupTestEnv(t)
	_, _, err := run(t, "init", "--type", "SplitView")
	require.NoError(t, err)
	_, _, err = run(t, "add", "shop.Page.Grid", "--name", "Orders")
	require.NoError(t, err)

	out, _, err := run(t, "rename", "Main", "Dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "Renamed Main to Dashboard")

	_, _, err = run(t, "rename", "Settings", "Prefs")
	require.Error(t, err)
	assert.True(t, errors.Is(err, selection.ErrNameFixed))

	out, _, err = run(t, "home", "Orders")
	require.NoError(t, err)
	assert.Contains(t, out, "Orders is now the home page")

	var moved engine.MoveResult
	runJSON(t, &moved, "move", "Orders", "1")
	assert.Equal(t, []string{"Dashboard", "Orders"}, moved.Order)
	assert.Equal(t, "Dashboard", moved.Home)

	_, _, err = run(t, "move", "Orders", "first")
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrValidation))

	_, _, err = run(t, "home", "Settings")
	require.Error(t, err)
	assert.True(t, errors.Is(err, selection.ErrNotPage))
}

func TestResetCommand(t *testing.T) {
	setupTestEnv(t)
	_, _, err := run(t, "init", "--type", "SplitView")
	require.NoError(t, err)
	_, _, err = run(t, "add", "shop.Page.Grid", "--name", "Orders")
	require.NoError(t, err)

	var result engine.ResetResult
	runJSON(t, &result, "reset")
	assert.Equal(t, 4, result.Removed)
	assert.Empty(t, result.Instances)

	var restored engine.ResetResult
	runJSON(t, &restored, "reset", "--layout")
	assert.Equal(t, 0, restored.Removed)
	assert.Len(t, restored.Instances, 2)
}

func TestCatalogCommand(t *testing.T) {
	setupTestEnv(t)

	var result engine.CatalogResult
	runJSON(t, &result, "catalog")
	assert.False(t, result.HasSession)
	assert.Len(t, result.Templates, 3)

	_, _, err := run(t, "init", "--type", "SplitView")
	require.NoError(t, err)

	var pages engine.CatalogResult
	runJSON(t, &pages, "catalog", "--kind", "page")
	assert.True(t, pages.HasSession)
	require.Len(t, pages.Templates, 2)
	assert.True(t, pages.Templates[0].Selected)
	assert.False(t, pages.Templates[1].Selected)

	var all engine.CatalogResult
	runJSON(t, &all, "catalog", "--all")
	assert.Len(t, all.Templates, 4)

	out, _, err := run(t, "catalog")
	require.NoError(t, err)
	assert.Contains(t, out, "shop.Page.Grid")
	assert.NotContains(t, out, "shop.Feature.Data")

	_, _, err = run(t, "catalog", "--kind", "widget")
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrValidation))
}

func TestExportCommand(t *testing.T) {
	project := setupTestEnv(t)
	_, _, err := run(t, "init", "--type", "SplitView")
	require.NoError(t, err)

	out, _, err := run(t, "export", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "projectType: SplitView")
	_, err = os.Stat(filepath.Join(project, ".appcomposer", "composition.yaml"))
	assert.True(t, os.IsNotExist(err))

	_, _, err = run(t, "add", "shop.Page.Grid")
	require.NoError(t, err)

	out, errOut, err := run(t, "export")
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 instances")
	assert.Contains(t, errOut, "pending edit was not exported")

	data, err := os.ReadFile(filepath.Join(project, ".appcomposer", "composition.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "home: Main")
}

func TestSessionCommands(t *testing.T) {
	setupTestEnv(t)

	out, _, err := run(t, "session", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions")

	_, _, err = run(t, "init", "--type", "SplitView")
	require.NoError(t, err)

	var list engine.ListSessionsResult
	runJSON(t, &list, "session", "ls")
	require.Len(t, list.Sessions, 1)
	assert.Equal(t, 2, list.Sessions[0].Instances)
	id := list.Sessions[0].SessionID

	var del engine.DeleteSessionResult
	runJSON(t, &del, "session", "rm", id[:6], "--dry-run")
	assert.False(t, del.Deleted)
	assert.Equal(t, id, del.SessionID)

	out, _, err = run(t, "session", "rm")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted session")

	_, _, err = run(t, "status")
	assert.True(t, errors.Is(err, engine.ErrNoSession))
}

func TestCommands_JSONOutputIsClean(t *testing.T) {
	setupTestEnv(t)
	_, _, err := run(t, "init", "--type", "SplitView")
	require.NoError(t, err)

	out, _, err := run(t, "add", "shop.Page.Grid", "--json")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "{"))
	assert.True(t, json.Valid([]byte(out)))
}
