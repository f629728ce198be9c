// Package engine provides the core business logic for appcomposer operations.
//
// The engine package acts as the orchestration layer between CLI commands and
// the composition model. Every operation discovers the project, loads its
// session and the layered template catalog, replays the session into a
// selection.Store, applies one change and saves the session again.
//
// Key components:
//   - Engine: Main orchestrator that coordinates all operations
//   - Sessions: NewSession, Status, Reset, ListSessions, DeleteSession
//   - Composition: Add, SetPendingName, SaveEdit, CancelEdit, Remove
//   - Editing: Rename, SetHome, Move
//   - Export: writes the composition manifest into the project
package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/danieljhkim/appcomposer/internal/catalog"
	"github.com/danieljhkim/appcomposer/internal/clock"
	"github.com/danieljhkim/appcomposer/internal/config"
	"github.com/danieljhkim/appcomposer/internal/gitx"
	"github.com/danieljhkim/appcomposer/internal/logx"
	"github.com/danieljhkim/appcomposer/internal/persist"
	"github.com/danieljhkim/appcomposer/internal/selection"
	"github.com/danieljhkim/appcomposer/internal/state"
	"github.com/danieljhkim/appcomposer/internal/telemetry"
)

// CatalogSource loads the catalog visible from a project root.
type CatalogSource interface {
	Load(projectRoot string) (*catalog.Catalog, error)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithStatusHandler forwards store status messages to fn.
func WithStatusHandler(fn selection.StatusFunc) Option {
	return func(e *Engine) { e.status = fn }
}

// WithTelemetry sets the edit-action sink. Close closes it when it is an
// io.Closer.
func WithTelemetry(sink telemetry.Sink) Option {
	return func(e *Engine) { e.sink = sink }
}

// WithSettings applies config.yaml settings.
func WithSettings(s *config.Settings) Option {
	return func(e *Engine) {
		if s != nil {
			e.settings = *s
		}
	}
}

// Engine orchestrates all appcomposer operations.
// It is the main API surface called by the CLI.
type Engine struct {
	project    gitx.Project
	catalogs   CatalogSource
	stateStore state.StateStore
	exporter   *persist.Exporter
	clock      clock.Clock

	settings config.Settings
	sink     telemetry.Sink
	status   selection.StatusFunc
	logger   *slog.Logger
}

// New creates a new Engine with the given dependencies.
func New(
	project gitx.Project,
	catalogs CatalogSource,
	stateStore state.StateStore,
	exporter *persist.Exporter,
	clk clock.Clock,
	opts ...Option,
) *Engine {
	e := &Engine{
		project:    project,
		catalogs:   catalogs,
		stateStore: stateStore,
		exporter:   exporter,
		clock:      clk,
		sink:       telemetry.Nop{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logx.OrDiscard(e.logger)
	return e
}

// Settings returns the settings the engine was configured with.
func (e *Engine) Settings() config.Settings {
	return e.settings
}

// Close flushes the telemetry sink.
func (e *Engine) Close() error {
	if c, ok := e.sink.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// discoverProject returns the project root, fingerprint and session ID for cwd.
func (e *Engine) discoverProject(cwd string) (root, fingerprint, sessionID string, err error) {
	root, err = e.project.Discover(cwd)
	if err != nil {
		if errors.Is(err, gitx.ErrNoProject) {
			return "", "", "", fmt.Errorf("%w: %v", ErrNotInProject, err)
		}
		return "", "", "", fmt.Errorf("failed to discover project: %w", err)
	}

	fingerprint, err = e.project.Fingerprint(root)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to compute project fingerprint: %w", err)
	}

	return root, fingerprint, state.ComputeSessionID(fingerprint, root), nil
}

// storeOptions builds the selection options for a session.
func (e *Engine) storeOptions(sessionID string) []selection.Option {
	opts := []selection.Option{
		selection.WithLogger(e.logger),
		selection.WithTelemetry(telemetry.WithSession(e.sink, state.ShortID(sessionID))),
	}
	if e.status != nil {
		opts = append(opts, selection.WithStatus(e.status))
	}
	if len(e.settings.ReservedNames) > 0 {
		opts = append(opts, selection.WithReservedWords(e.settings.ReservedNames...))
	}
	if len(e.settings.DisallowedDefaultNames) > 0 {
		opts = append(opts, selection.WithDisallowedNames(e.settings.DisallowedDefaultNames...))
	}
	return opts
}
