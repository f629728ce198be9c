package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/danieljhkim/appcomposer/internal/catalog"
	"github.com/danieljhkim/appcomposer/internal/clock"
	"github.com/danieljhkim/appcomposer/internal/config"
	"github.com/danieljhkim/appcomposer/internal/engine"
	"github.com/danieljhkim/appcomposer/internal/fsops"
	"github.com/danieljhkim/appcomposer/internal/gitx"
	"github.com/danieljhkim/appcomposer/internal/hash"
	"github.com/danieljhkim/appcomposer/internal/logx"
	"github.com/danieljhkim/appcomposer/internal/persist"
	"github.com/danieljhkim/appcomposer/internal/selection"
	"github.com/danieljhkim/appcomposer/internal/state"
	"github.com/danieljhkim/appcomposer/internal/telemetry"
)

var (
	// reported holds errors already shown through the status channel so
	// they are not printed twice on exit.
	reported []error

	// quietStatus suppresses status output while a prompt shows its own
	// validation messages.
	quietStatus bool
)

// newEngine creates a new engine with real implementations of all dependencies.
func newEngine() (*engine.Engine, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get config paths: %w", err)
	}

	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	settings, err := config.LoadSettings(paths)
	if err != nil {
		return nil, err
	}

	logger := logx.New(stderr, verbose)
	fs := fsops.NewRealFS()
	hasher := hash.NewSHA256Hasher()
	clk := &clock.RealClock{}

	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithSettings(settings),
		engine.WithStatusHandler(printStatus),
	}
	if settings.TelemetryEnabled() {
		sink, err := telemetry.OpenFile(paths.Telemetry, telemetry.WithLogger(logger), telemetry.WithClock(clk))
		if err != nil {
			logger.Warn("telemetry disabled", "error", err)
		} else {
			opts = append(opts, engine.WithTelemetry(sink))
		}
	}

	return engine.New(
		gitx.NewRealProject(),
		catalog.NewLoader(fs, hasher, paths.Catalog, settings.CatalogDirs...),
		state.NewFileStateStore(fs, paths.Sessions),
		persist.NewExporter(fs),
		clk,
		opts...,
	), nil
}

// runWithEngine builds the engine, runs fn from the current directory and
// flushes the engine afterwards.
func runWithEngine(fn func(ctx context.Context, eng *engine.Engine, cwd string) error) (err error) {
	eng, err := newEngine()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := eng.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	return fn(context.Background(), eng, cwd)
}

// printStatus shows store status messages. In JSON mode they go to stderr
// only as warnings so stdout stays parseable.
func printStatus(st selection.Status) {
	if quietStatus {
		return
	}
	text := st.Text
	var verr *selection.ValidationError
	if errors.As(st.Err, &verr) {
		text = nameProblem(verr.Name, verr.Kind)
	}

	switch st.Severity {
	case selection.SeverityError:
		PrintError(text)
	case selection.SeverityWarning:
		PrintWarning(text)
	default:
		if !jsonOutput {
			PrintInfo(text)
		}
	}

	if st.Err != nil {
		reported = append(reported, st.Err)
	}
}

// alreadyReported reports whether err was shown through printStatus.
func alreadyReported(err error) bool {
	for _, r := range reported {
		if errors.Is(err, r) {
			return true
		}
	}
	return false
}

// formatJSON formats a value as JSON.
func formatJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// formatError formats an error for display.
func formatError(err error) string {
	msg := errorColor.Sprintf("Error: %v", err)
	if hint := errorHint(err); hint != "" {
		msg += "\n" + dimColor.Sprint(hint)
	}
	return msg
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// warnDrift tells the user the catalog changed under the session.
func warnDrift(drift bool) {
	if drift && !jsonOutput {
		PrintWarning("The template catalog changed since this session was last saved")
	}
}
