// Package optim holds gradient bookkeeping for training loops.
//
// This package provides:
//   - GradientsParams: Gradients keyed by parameter id
//   - GradientsAccumulator: Sums gradients over several backward passes
//
// Example usage:
//
//	accum := optim.NewGradientsAccumulator(backend.Inner())
//
//	for _, batch := range microBatches {
//	    backend.Tape().Clear()
//	    loss := lossFn.Forward(model.Forward(batch.Input), batch.Target)
//	    grads := optim.FromGrads(autodiff.Backward(loss, backend), model)
//	    accum.Accumulate(model, grads)
//	}
//
//	merged := accum.Drain()
package optim

import (
	"sort"

	"github.com/born-ml/gradaccum/internal/nn"
	"github.com/born-ml/gradaccum/internal/tensor"
)

// GradientsParams maps parameter ids to gradient tensors.
//
// Each id appears at most once. Gradient tensors are treated as immutable
// once registered: merges always produce new tensors.
type GradientsParams struct {
	grads map[nn.ParamID]*tensor.RawTensor
}

// NewGradientsParams returns an empty set.
func NewGradientsParams() *GradientsParams {
	return &GradientsParams{
		grads: make(map[nn.ParamID]*tensor.RawTensor),
	}
}

// FromGrads keys a backward result by parameter id.
//
// grads is the map returned by autodiff.Backward. Every parameter of module
// that received a gradient is registered under its id; parameters outside
// the computation graph get no entry.
func FromGrads(grads map[*tensor.RawTensor]*tensor.RawTensor, module nn.Visitable) *GradientsParams {
	params := NewGradientsParams()
	module.Visit(nn.ModuleVisitorFunc(func(id nn.ParamID, param *tensor.RawTensor) {
		if grad, ok := grads[param]; ok {
			params.Register(id, grad)
		}
	}))
	return params
}

// Get returns the gradient for id, or nil.
func (g *GradientsParams) Get(id nn.ParamID) *tensor.RawTensor {
	return g.grads[id]
}

// Remove deletes and returns the gradient for id.
func (g *GradientsParams) Remove(id nn.ParamID) (*tensor.RawTensor, bool) {
	grad, ok := g.grads[id]
	if ok {
		delete(g.grads, id)
	}
	return grad, ok
}

// Register stores grad under id, replacing any previous entry.
func (g *GradientsParams) Register(id nn.ParamID, grad *tensor.RawTensor) {
	g.grads[id] = grad
}

// Len returns the number of entries.
func (g *GradientsParams) Len() int {
	return len(g.grads)
}

// IsEmpty reports whether the set has no entries.
func (g *GradientsParams) IsEmpty() bool {
	return len(g.grads) == 0
}

// IDs returns the ids in ascending order.
func (g *GradientsParams) IDs() []nn.ParamID {
	ids := make([]nn.ParamID, 0, len(g.grads))
	for id := range g.grads {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Range calls fn for every entry in id order until fn returns false.
func (g *GradientsParams) Range(fn func(id nn.ParamID, grad *tensor.RawTensor) bool) {
	for _, id := range g.IDs() {
		if !fn(id, g.grads[id]) {
			return
		}
	}
}

// ByteSize returns the total storage held by the gradients.
func (g *GradientsParams) ByteSize() int {
	var total int
	for _, grad := range g.grads {
		total += grad.ByteSize()
	}
	return total
}
