// Package nn implements neural network modules and parameter traversal.
//
// This package provides:
//   - ParamID: Stable parameter identifiers
//   - Parameter: Trainable tensors with an id
//   - ModuleVisitor: Callback invoked once per parameter during traversal
//   - Linear: Fully connected layer
//   - Sequential: Container for stacking modules
//   - MSELoss: Mean squared error
package nn

import (
	"github.com/born-ml/gradaccum/internal/tensor"
)

// ModuleVisitor receives every parameter of a module during traversal.
type ModuleVisitor interface {
	Visit(id ParamID, param *tensor.RawTensor)
}

// ModuleVisitorFunc adapts an ordinary function to a ModuleVisitor.
type ModuleVisitorFunc func(id ParamID, param *tensor.RawTensor)

// Visit calls f(id, param).
func (f ModuleVisitorFunc) Visit(id ParamID, param *tensor.RawTensor) {
	f(id, param)
}

// Visitable is anything whose parameters can be enumerated.
//
// Visit must call v.Visit exactly once for every parameter the module owns,
// including those of nested modules. Order is deterministic but callers
// should not rely on it.
type Visitable interface {
	Visit(v ModuleVisitor)
}

// Module is the base interface for all neural network components.
//
// Modules can be composed to build complex architectures:
//
//	model := nn.NewSequential[Backend](
//	    nn.NewLinear(784, 128, backend),
//	    nn.NewLinear(128, 10, backend),
//	)
type Module[B tensor.Backend] interface {
	Visitable

	// Forward computes the output of the module given an input tensor.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters of this module,
	// including nested module parameters.
	Parameters() []*Parameter[B]
}

// VisitParameters visits each of params in order. Nil entries are skipped.
func VisitParameters[B tensor.Backend](v ModuleVisitor, params ...*Parameter[B]) {
	for _, p := range params {
		if p == nil {
			continue
		}
		v.Visit(p.ID(), p.Tensor().Raw())
	}
}
