package appcontext

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/satmap"
	"github.com/agentstation/satmap/pkg/rules"
)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
//
// Example Usage:
//
//	st := memory.New(memory.WithActivities(...))
//	mock := &appcontext.Mock{
//	    EngineFunc: func(ctx context.Context, opts ...satmap.Option) (satmap.Engine, error) {
//	        return satmap.New(st, opts...)
//	    },
//	}
//	cmd := match.NewCommand(mock)
type Mock struct {
	EngineFunc       func(ctx context.Context, opts ...satmap.Option) (satmap.Engine, error)
	RulesFunc        func() (*rules.RuleSet, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Engine returns an engine using the mock function or nil.
func (m *Mock) Engine(ctx context.Context, opts ...satmap.Option) (satmap.Engine, error) {
	if m.EngineFunc != nil {
		return m.EngineFunc(ctx, opts...)
	}
	return nil, nil
}

// Rules returns rules using the mock function or the built-in rule set.
func (m *Mock) Rules() (*rules.RuleSet, error) {
	if m.RulesFunc != nil {
		return m.RulesFunc()
	}
	return rules.Default(), nil
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the format using the mock function or "json".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "json"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
