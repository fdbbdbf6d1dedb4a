package optim

import (
	"github.com/dustin/go-humanize"
	"k8s.io/klog/v2"

	"github.com/born-ml/gradaccum/internal/nn"
	"github.com/born-ml/gradaccum/internal/tensor"
)

// GradientsAccumulator sums gradients over several backward passes.
//
// It owns one running GradientsParams. Between calls every id appears at
// most once, and its gradient is the element-wise sum of all gradients
// accumulated for that id since the last Drain.
//
// A GradientsAccumulator is not safe for concurrent use.
type GradientsAccumulator struct {
	backend tensor.Backend
	grads   *GradientsParams
}

// NewGradientsAccumulator creates an empty accumulator. backend supplies the
// element-wise addition used to merge gradients; pass a backend that does
// not record onto a tape.
func NewGradientsAccumulator(backend tensor.Backend) *GradientsAccumulator {
	return &GradientsAccumulator{
		backend: backend,
		grads:   NewGradientsParams(),
	}
}

// Accumulate merges grads into the running set for every parameter of module.
//
// The accumulator takes ownership of grads: visited entries are removed from
// it, and entries whose id module never visits are ignored. grads must not
// be reused afterwards. A nil grads is treated as empty.
//
// Shapes are not checked here. If the backend panics while adding two
// gradients the panic reaches the caller unchanged.
func (a *GradientsAccumulator) Accumulate(module nn.Visitable, grads *GradientsParams) {
	if grads == nil {
		grads = NewGradientsParams()
	}

	visitor := &moduleGradsAccumulator{
		backend:  a.backend,
		grads:    a.grads,
		gradsNew: grads,
	}
	module.Visit(visitor)

	klog.V(2).Infof("accumulate: visited=%d merged=%d dropped=%d running=%d",
		visitor.visited, visitor.merged, grads.Len(), a.grads.Len())
}

// Drain returns the accumulated gradients and resets the accumulator.
//
// The returned set belongs to the caller; the accumulator starts over with
// a fresh empty set and can be reused immediately.
func (a *GradientsAccumulator) Drain() *GradientsParams {
	grads := a.grads
	a.grads = NewGradientsParams()

	if klog.V(1).Enabled() {
		klog.Infof("drain: %d gradients, %s", grads.Len(), humanize.Bytes(uint64(grads.ByteSize())))
	}
	return grads
}

// Grads is Drain under the name used by training loops that read it as
// "take the gradients".
func (a *GradientsAccumulator) Grads() *GradientsParams {
	return a.Drain()
}

// Len returns the number of ids in the running set.
func (a *GradientsAccumulator) Len() int {
	return a.grads.Len()
}

// IsEmpty reports whether nothing has been accumulated since the last Drain.
func (a *GradientsAccumulator) IsEmpty() bool {
	return a.grads.IsEmpty()
}

// moduleGradsAccumulator merges one new gradient set into the running set,
// one parameter at a time.
type moduleGradsAccumulator struct {
	backend  tensor.Backend
	grads    *GradientsParams
	gradsNew *GradientsParams

	visited int
	merged  int
}

// Visit implements nn.ModuleVisitor.
func (m *moduleGradsAccumulator) Visit(id nn.ParamID, _ *tensor.RawTensor) {
	m.visited++

	gradUpdated, hasNew := m.gradsNew.Remove(id)
	gradPrev, hasPrev := m.grads.Remove(id)

	var grad *tensor.RawTensor
	switch {
	case hasNew && hasPrev:
		grad = m.backend.Add(gradPrev, gradUpdated)
		m.merged++
	case hasNew:
		grad = gradUpdated
	case hasPrev:
		grad = gradPrev
	default:
		return
	}

	m.grads.Register(id, grad)
}
