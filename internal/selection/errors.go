package selection

import (
	"errors"
	"fmt"

	"github.com/danieljhkim/appcomposer/internal/catalog"
	"github.com/danieljhkim/appcomposer/internal/naming"
)

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("invalid name")

	// ErrRemovalConflict matches every *RemovalConflict.
	ErrRemovalConflict = errors.New("removal conflict")

	ErrNotFound        = errors.New("instance not found")
	ErrAlreadySelected = errors.New("template already selected")
	ErrNotSelectable   = errors.New("template cannot be selected")
	ErrNotRemovable    = errors.New("instance cannot be removed")
	ErrNameFixed       = errors.New("instance name cannot be changed")
	ErrNoPendingEdit   = errors.New("no pending edit")
	ErrNotPage         = errors.New("instance is not a page")
	ErrHomeIneligible  = errors.New("page cannot become home")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNotEmpty        = errors.New("composition is not empty")
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// ValidationError reports a rejected name. The composition is unchanged.
type ValidationError struct {
	Name string
	Kind naming.ErrorKind
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid name %q: %s", e.Name, e.Kind)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// RemovalConflict reports that Target cannot be removed because Dependent
// still requires it. The composition is unchanged.
type RemovalConflict struct {
	Target            string
	TargetIdentity    string
	Dependent         string
	DependentIdentity string
	DependentKind     catalog.Kind
}

func (e *RemovalConflict) Error() string {
	return fmt.Sprintf("cannot remove %s: %s %s depends on it", e.Target, e.DependentKind, e.Dependent)
}

func (e *RemovalConflict) Is(target error) bool {
	return target == ErrRemovalConflict
}
