package cli

import (
	"errors"
	"fmt"

	"github.com/danieljhkim/appcomposer/internal/engine"
	"github.com/danieljhkim/appcomposer/internal/naming"
	"github.com/danieljhkim/appcomposer/internal/selection"
)

// kindMessages are the user-facing texts for naming problems.
var kindMessages = map[naming.ErrorKind]string{
	naming.Empty:         "a name is required",
	naming.BadFormat:     "names must start with a letter and contain only letters, digits and underscores",
	naming.TooLong:       fmt.Sprintf("names can be at most %d characters", naming.MaxLength),
	naming.AlreadyExists: "another page or feature already uses this name",
	naming.ReservedName:  "this name is reserved",
	naming.DefaultName:   "this name belongs to a built-in template",
}

// nameProblem describes why name was rejected.
func nameProblem(name string, kind naming.ErrorKind) string {
	msg, ok := kindMessages[kind]
	if !ok {
		msg = kind.String()
	}
	return fmt.Sprintf("%q: %s", name, msg)
}

// errorHint suggests the next step for common failures.
func errorHint(err error) string {
	switch {
	case errors.Is(err, engine.ErrNoSession):
		return "Run 'appcomposer init --type <project-type>' to start a session."
	case errors.Is(err, engine.ErrSessionExists):
		return "Use 'appcomposer init --force' to start over."
	case errors.Is(err, engine.ErrNotInProject):
		return "Run inside a git repository or create an .appcomposer directory."
	case errors.Is(err, selection.ErrNoPendingEdit):
		return "Use 'appcomposer add <template>' to stage a template first."
	case errors.Is(err, selection.ErrHomeIneligible):
		return "Only pages of the first page group can be home."
	case errors.Is(err, selection.ErrRemovalConflict):
		return "Remove the dependent page first."
	}
	return ""
}

// pendingProblem describes an invalid pending name from its reported kind.
func pendingProblem(p engine.PendingInfo) string {
	for kind := range kindMessages {
		if kind.String() == p.Problem {
			return nameProblem(p.Name, kind)
		}
	}
	return fmt.Sprintf("%q: %s", p.Name, p.Problem)
}
