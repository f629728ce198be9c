package engine

import (
	"errors"
	"fmt"

	"github.com/danieljhkim/appcomposer/internal/selection"
)

var (
	// ErrNoSession indicates the project has no composition session yet.
	ErrNoSession = errors.New("no session for this project")

	// ErrSessionExists indicates a session already exists for the project.
	ErrSessionExists = errors.New("session already exists")

	// ErrValidation indicates a validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a template, instance or session was not found.
	ErrNotFound = errors.New("not found")

	// ErrNotInProject indicates no project root was found above the CWD.
	ErrNotInProject = errors.New("not in a project")
)

// classify tags store errors with the engine sentinel the CLI maps to an
// exit path. The original error stays reachable through errors.As.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, selection.ErrValidation):
		return fmt.Errorf("%w: %w", ErrValidation, err)
	case errors.Is(err, selection.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
