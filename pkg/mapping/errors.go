package mapping

import (
	"fmt"

	"github.com/vango-dev/servicelayer/internal/errors"
)

// DuplicatePathError reports a path claimed by more than one route.
type DuplicatePathError struct {
	Path string

	// Service is the route that tried to claim Path second: a registry key,
	// or the synthetic route kind for registry and forms routes.
	Service string
}

// Error implements the error interface.
func (e *DuplicatePathError) Error() string {
	return fmt.Sprintf("path %q is already defined in service mapping", e.Path)
}

// Is reports the error as a configuration defect.
func (e *DuplicatePathError) Is(target error) bool {
	return target == errors.ErrConfigurationDefect
}

// Coded returns the error in its coded E130 form.
func (e *DuplicatePathError) Coded() *errors.Error {
	key := "services." + e.Service + ".path"
	switch e.Service {
	case KindRegistry.String(), KindFormsIndex.String(), KindFormsService.String():
		key = "config.registry_path"
	}
	return errors.New("E130").
		WithKey(key).
		WithDetailf("path %q is already defined in service mapping", e.Path).
		WithSuggestion("Give one of the services a distinct path or definition").
		Wrap(e)
}

// As lets errors.As find the coded form of e.
func (e *DuplicatePathError) As(target any) bool {
	t, ok := target.(**errors.Error)
	if !ok {
		return false
	}
	*t = e.Coded()
	return true
}
