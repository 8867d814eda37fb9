package satmap

import (
	"github.com/agentstation/satmap/pkg/materiality"
	"github.com/agentstation/satmap/pkg/namer"
	"github.com/agentstation/satmap/pkg/repair"
	"github.com/agentstation/satmap/pkg/rules"
)

// config holds the engine configuration
type config struct {
	rules         *rules.RuleSet
	dryRun        bool
	repairOptions []repair.Option
	namerOptions  []namer.Option
	matchOptions  []materiality.Option
}

func defaultConfig() *config {
	return &config{rules: rules.Default()}
}

func (c *config) apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// Option is a function that configures an Engine
type Option func(*config) error

// WithRules configures the sector rules used for matching.
// A nil rule set keeps the built-in rules.
func WithRules(rs *rules.RuleSet) Option {
	return func(c *config) error {
		if rs != nil {
			c.rules = rs
		}
		return nil
	}
}

// WithDryRun configures every phase to plan without writing
func WithDryRun(enabled bool) Option {
	return func(c *config) error {
		c.dryRun = enabled
		return nil
	}
}

// WithRepairOptions configures the hierarchy repairs
func WithRepairOptions(opts ...repair.Option) Option {
	return func(c *config) error {
		c.repairOptions = append(c.repairOptions, opts...)
		return nil
	}
}

// WithNamerOptions configures node naming
func WithNamerOptions(opts ...namer.Option) Option {
	return func(c *config) error {
		c.namerOptions = append(c.namerOptions, opts...)
		return nil
	}
}

// WithMatchOptions configures the materiality matcher
func WithMatchOptions(opts ...materiality.Option) Option {
	return func(c *config) error {
		c.matchOptions = append(c.matchOptions, opts...)
		return nil
	}
}
