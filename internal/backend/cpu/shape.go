package cpu

import (
	"github.com/gomlx/exceptions"

	"github.com/born-ml/gradaccum/internal/tensor"
)

// Reshape returns a copy of t with a new shape of the same element count.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	result, err := t.Clone().WithShape(newShape)
	if err != nil {
		exceptions.Panicf("reshape: %v", err)
	}
	return result
}

// Transpose permutes the dimensions of t. With no axes it reverses them.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	if len(axes) != ndim {
		exceptions.Panicf("transpose: axes length %d != ndim %d", len(axes), ndim)
	}
	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim {
			exceptions.Panicf("transpose: invalid axis %d for %dD tensor", ax, ndim)
		}
		if seen[ax] {
			exceptions.Panicf("transpose: duplicate axis %d", ax)
		}
		seen[ax] = true
	}

	newShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		newShape[i] = shape[ax]
	}

	result := cpu.alloc("transpose", newShape, t.DType())
	permuteBytes(result.Data(), t.Data(), shape, axes, t.DType().Size())

	return result
}

// permuteBytes moves each element of src (elemSize bytes wide) to its
// transposed position in dst. It works for every dtype.
func permuteBytes(dst, src []byte, shape tensor.Shape, axes []int, elemSize int) {
	ndim := len(shape)
	srcStrides := shape.ComputeStrides()

	dstShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		dstShape[i] = shape[ax]
	}
	dstStrides := dstShape.ComputeStrides()

	coords := make([]int, ndim)
	n := shape.NumElements()
	for i := 0; i < n; i++ {
		idx := i
		for dim := 0; dim < ndim; dim++ {
			coords[dim] = idx / srcStrides[dim]
			idx %= srcStrides[dim]
		}

		dstIdx := 0
		for dstDim, srcDim := range axes {
			dstIdx += coords[srcDim] * dstStrides[dstDim]
		}

		copy(dst[dstIdx*elemSize:(dstIdx+1)*elemSize], src[i*elemSize:(i+1)*elemSize])
	}
}
