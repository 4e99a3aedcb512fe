package catalog

import (
	"errors"
	"fmt"
)

// Storage sentinels. Store implementations translate their driver errors to
// these so the workflow can react without knowing the backend.
var (
	// ErrNotFound means the requested row does not exist.
	ErrNotFound = errors.New("catalog: not found")
	// ErrConflict means a unique constraint rejected the write.
	ErrConflict = errors.New("catalog: unique constraint violation")
)

// ValidationError reports a missing or malformed required field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// DuplicateError reports a name/SKU collision under the same brand.
type DuplicateError struct {
	Message string
}

func (e *DuplicateError) Error() string {
	return e.Message
}

// InvalidSortFieldError reports a sort_by value outside the whitelist.
type InvalidSortFieldError struct {
	Field string
}

func (e *InvalidSortFieldError) Error() string {
	return fmt.Sprintf("unsupported sort field %q", e.Field)
}
