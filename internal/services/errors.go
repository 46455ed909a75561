package services

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownField      = errors.New("unknown settings field")
	ErrPresetNotFound    = errors.New("preset not found")
	ErrInvalidPresetName = errors.New("invalid preset name")
	ErrReservedPreset    = errors.New("preset is reserved")
	ErrInvalidPreset     = errors.New("invalid preset document")
	ErrInvalidLanguage   = errors.New("invalid language code")
	ErrNoJournal         = errors.New("settings journal not configured")
)

// StoreError reports a failed store operation on a file.
type StoreError struct {
	Operation string
	Path      string
	Err       error
}

func (e *StoreError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s failed for %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Operation, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new store error
func NewStoreError(operation, path string, err error) *StoreError {
	return &StoreError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}
