package ops

import (
	"github.com/gomlx/exceptions"

	"github.com/born-ml/gradaccum/internal/tensor"
)

// SumOp represents a full reduction: output = sum(x), a scalar.
// Every input element contributes once, so the gradient is the scalar
// output gradient broadcast to x's shape.
type SumOp struct{ unaryOp }

// NewSumOp creates a new SumOp.
func NewSumOp(x, output *tensor.RawTensor) *SumOp {
	return &SumOp{unaryOp{input: x, output: output}}
}

// Backward broadcasts the scalar gradient to the input shape.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	zeros, err := tensor.NewRaw(op.input.Shape(), op.input.DType(), backend.Device())
	if err != nil {
		exceptions.Panicf("sum backward: %v", err)
	}
	return []*tensor.RawTensor{backend.Add(zeros, outputGrad)}
}
