// Package train drives gradient accumulation over micro-batches.
package train

import "github.com/pkg/errors"

// Config holds configuration for micro-batch accumulation.
type Config struct {
	// AccumulationSteps is the number of micro-batches summed before the
	// merged gradients are released (default: 1, no accumulation).
	AccumulationSteps int
}

// DefaultConfig returns a config that releases gradients on every step.
func DefaultConfig() Config {
	return Config{AccumulationSteps: 1}
}

// Validate checks the config.
func (c Config) Validate() error {
	if c.AccumulationSteps < 1 {
		return errors.Errorf("accumulation steps must be >= 1, got %d", c.AccumulationSteps)
	}
	return nil
}
