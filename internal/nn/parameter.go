package nn

import (
	"github.com/born-ml/gradaccum/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network.
//
// Each parameter carries a ParamID that never changes for the lifetime of
// the owning module. Gradients are not stored on the parameter: they live in
// a GradientsParams keyed by this id.
//
// Example:
//
//	weight := nn.NewParameter("weight", weightTensor)
//	id := weight.ID()
//	w := weight.Tensor()
type Parameter[B tensor.Backend] struct {
	id     ParamID
	name   string                     // Parameter name (e.g., "weight", "bias")
	tensor *tensor.Tensor[float32, B] // The parameter tensor
}

// NewParameter creates a new trainable parameter with a fresh ParamID.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return NewParameterWithID(NewParamID(), name, t)
}

// NewParameterWithID creates a parameter with a caller-chosen id.
func NewParameterWithID[B tensor.Backend](id ParamID, name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{
		id:     id,
		name:   name,
		tensor: t,
	}
}

// ID returns the parameter identifier.
func (p *Parameter[B]) ID() ParamID {
	return p.id
}

// Name returns the parameter name.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] {
	return p.tensor
}
