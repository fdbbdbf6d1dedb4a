package train

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/gradaccum/internal/nn"
	"github.com/born-ml/gradaccum/internal/optim"
	"github.com/born-ml/gradaccum/internal/tensor"
)

// Accumulation releases merged gradients once every AccumulationSteps
// micro-batches.
//
// Example:
//
//	acc, err := train.NewAccumulation(train.Config{AccumulationSteps: 4}, backend.Inner())
//	for _, batch := range batches {
//	    grads := optim.FromGrads(autodiff.Backward(loss(batch), backend), model)
//	    if merged, ok := acc.Step(model, grads); ok {
//	        apply(merged)
//	    }
//	}
//	if merged, ok := acc.Flush(); ok {
//	    apply(merged)
//	}
type Accumulation struct {
	steps   int
	pending int
	accum   *optim.GradientsAccumulator
}

// NewAccumulation validates cfg and creates an Accumulation that merges
// gradients with backend.
func NewAccumulation(cfg Config, backend tensor.Backend) (*Accumulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid accumulation config")
	}
	return &Accumulation{
		steps: cfg.AccumulationSteps,
		accum: optim.NewGradientsAccumulator(backend),
	}, nil
}

// Step accumulates one micro-batch. It returns the merged gradients and true
// when the window is complete, and (nil, false) otherwise.
func (a *Accumulation) Step(module nn.Visitable, grads *optim.GradientsParams) (*optim.GradientsParams, bool) {
	a.accum.Accumulate(module, grads)
	a.pending++

	if a.pending < a.steps {
		return nil, false
	}
	klog.V(2).Infof("accumulation window complete after %d micro-batches", a.pending)
	return a.drain(), true
}

// Flush drains a partial window, for example at the end of an epoch.
// It returns false when no micro-batch is pending.
func (a *Accumulation) Flush() (*optim.GradientsParams, bool) {
	if a.pending == 0 {
		return nil, false
	}
	klog.V(2).Infof("flushing partial window of %d/%d micro-batches", a.pending, a.steps)
	return a.drain(), true
}

// Pending returns the number of micro-batches accumulated in the current window.
func (a *Accumulation) Pending() int {
	return a.pending
}

// Steps returns the window size.
func (a *Accumulation) Steps() int {
	return a.steps
}

func (a *Accumulation) drain() *optim.GradientsParams {
	a.pending = 0
	return a.accum.Drain()
}
