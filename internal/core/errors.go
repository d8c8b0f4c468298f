package core

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("unavailable")
)

var (
	ErrConditionNotFound = fmt.Errorf("%w: condition not found", ErrNotFound)
)

// CatalogLoadError reports a rule catalog that could not be built from its
// source. It is non-fatal: callers degrade to an empty catalog and keep
// serving, with condition endpoints reporting not-found.
type CatalogLoadError struct {
	Path string
	Err  error
}

func (e *CatalogLoadError) Error() string {
	return fmt.Sprintf("load rule catalog %s: %v", e.Path, e.Err)
}

func (e *CatalogLoadError) Unwrap() error { return e.Err }
