package ops

import "github.com/born-ml/gradaccum/internal/tensor"

// ReshapeOp records a reshape; its gradient is reshaped back to the input shape.
type ReshapeOp struct {
	unaryOp
	origShape tensor.Shape
}

// NewReshapeOp creates a new ReshapeOp.
func NewReshapeOp(input, output *tensor.RawTensor) *ReshapeOp {
	return &ReshapeOp{
		unaryOp:   unaryOp{input: input, output: output},
		origShape: input.Shape().Clone(),
	}
}

// Backward reshapes the output gradient back to the original input shape.
func (op *ReshapeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Reshape(outputGrad, op.origShape)}
}

// TransposeOp records a transpose; its gradient is transposed with the inverse permutation.
type TransposeOp struct {
	unaryOp
	axes []int
}

// NewTransposeOp creates a new TransposeOp. Empty axes means full reversal.
func NewTransposeOp(input, output *tensor.RawTensor, axes []int) *TransposeOp {
	if len(axes) == 0 {
		ndim := len(input.Shape())
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	return &TransposeOp{
		unaryOp: unaryOp{input: input, output: output},
		axes:    append([]int(nil), axes...),
	}
}

// Backward transposes the output gradient with the inverse axes.
func (op *TransposeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	inverseAxes := make([]int, len(op.axes))
	for i, ax := range op.axes {
		inverseAxes[ax] = i
	}
	return []*tensor.RawTensor{backend.Transpose(outputGrad, inverseAxes...)}
}
