// Package pipeline holds the error taxonomy shared by services and jobs.
// Record-scoped failures wrap ErrUpstream and are written back to the
// owning Idea/Schedule; ErrConflict marks a lost status race and is
// skipped silently; ErrConfiguration aborts a whole job run.
package pipeline

import (
	"errors"
	"fmt"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrAuthentication = errors.New("authentication error")
	ErrUpstream       = errors.New("upstream service error")
	ErrConflict       = errors.New("conflict: record already claimed")
	ErrConfiguration  = errors.New("configuration error")
	ErrNotFound       = errors.New("not found")
)

func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func Upstreamf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUpstream, fmt.Sprintf(format, args...))
}

func Configurationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}
