// Package errors provides custom error types for the satmap system.
// These errors enable better error handling, programmatic error checking,
// and improved debugging throughout the reconciliation and matching phases.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the satmap system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCode indicates a catalog code with an unexpected shape
	ErrInvalidCode = errors.New("invalid code")

	// ErrStore indicates a failure reported by the backing store
	ErrStore = errors.New("store failure")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")

	// ErrReadOnly indicates an attempt to modify a read-only resource
	ErrReadOnly = errors.New("read only")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// CodeError reports a catalog entity whose code does not fit its taxonomy's
// level scheme. Repair passes skip and log these instead of aborting.
type CodeError struct {
	Taxonomy string // "activities" or "products"
	Code     string
	Reason   string
}

// Error implements the error interface
func (e *CodeError) Error() string {
	return fmt.Sprintf("invalid %s code %q: %s", e.Taxonomy, e.Code, e.Reason)
}

// Is implements errors.Is support
func (e *CodeError) Is(target error) bool {
	return target == ErrInvalidCode || target == ErrInvalidInput
}

// NewCodeError creates a new CodeError
func NewCodeError(taxonomy, code, reason string) *CodeError {
	return &CodeError{Taxonomy: taxonomy, Code: code, Reason: reason}
}

// StoreErrorKind classifies a store failure.
type StoreErrorKind string

// Store failure kinds.
const (
	StoreErrorUnknown      StoreErrorKind = "unknown"
	StoreErrorConnectivity StoreErrorKind = "connectivity"
	StoreErrorPermission   StoreErrorKind = "permission"
	StoreErrorConstraint   StoreErrorKind = "constraint"
)

// StoreError represents a failed read or write against the backing store.
// Store errors are fatal for the phase that produced them.
type StoreError struct {
	Operation string // "read", "insert", "update", "upsert", "clear"
	Table     string
	Kind      StoreErrorKind
	Err       error
}

// Error implements the error interface
func (e *StoreError) Error() string {
	kind := e.Kind
	if kind == "" {
		kind = StoreErrorUnknown
	}
	if e.Table != "" {
		return fmt.Sprintf("store %s error during %s on %s: %v", kind, e.Operation, e.Table, e.Err)
	}
	return fmt.Sprintf("store %s error during %s: %v", kind, e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

// NewStoreError creates a new StoreError
func NewStoreError(operation, table string, kind StoreErrorKind, err error) *StoreError {
	return &StoreError{
		Operation: operation,
		Table:     table,
		Kind:      kind,
		Err:       err,
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// PhaseError wraps the failure of one engine phase
// ("repair-activities", "repair-products", "name", "match").
type PhaseError struct {
	Phase string
	Err   error
}

// Error implements the error interface
func (e *PhaseError) Error() string {
	return fmt.Sprintf("phase %s failed: %v", e.Phase, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *PhaseError) Unwrap() error {
	return e.Err
}

// NewPhaseError creates a new PhaseError
func NewPhaseError(phase string, err error) *PhaseError {
	return &PhaseError{Phase: phase, Err: err}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsInvalidCode checks if an error is a data-shape error
func IsInvalidCode(err error) bool {
	return errors.Is(err, ErrInvalidCode)
}

// IsStoreError checks if an error originated in the backing store
func IsStoreError(err error) bool {
	return errors.Is(err, ErrStore)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml", etc.
	File    string
	Line    int
	Column  int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d:%d: %s", e.Format, e.File, e.Line, e.Column, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapStore wraps an error as a StoreError of unknown kind.
// Errors that already are store errors are returned unchanged.
func WrapStore(operation, table string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return NewStoreError(operation, table, StoreErrorUnknown, err)
}

// WrapPhase wraps an error as a PhaseError
func WrapPhase(phase string, err error) error {
	if err == nil {
		return nil
	}
	return NewPhaseError(phase, err)
}
