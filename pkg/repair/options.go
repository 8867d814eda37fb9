package repair

import (
	"github.com/agentstation/satmap/pkg/constants"
	"github.com/agentstation/satmap/pkg/errors"
)

type options struct {
	syntheticBatch int
	updateBatch    int
	dryRun         bool
}

func defaultOptions() *options {
	return &options{
		syntheticBatch: constants.SyntheticBatchSize,
		updateBatch:    constants.UpdateBatchSize,
	}
}

// Option configures a Repairer.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithSyntheticBatchSize sets how many synthetic nodes are inserted per statement.
func WithSyntheticBatchSize(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return &errors.ValidationError{Field: "synthetic_batch", Value: n, Message: "must be positive"}
		}
		o.syntheticBatch = n
		return nil
	}
}

// WithUpdateBatchSize sets how many hierarchy updates are written per transaction.
func WithUpdateBatchSize(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return &errors.ValidationError{Field: "update_batch", Value: n, Message: "must be positive"}
		}
		o.updateBatch = n
		return nil
	}
}

// WithDryRun plans the repair without writing to the store.
func WithDryRun(enabled bool) Option {
	return func(o *options) error {
		o.dryRun = enabled
		return nil
	}
}
