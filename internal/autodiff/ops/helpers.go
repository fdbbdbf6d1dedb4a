package ops

import (
	"github.com/gomlx/exceptions"

	"github.com/born-ml/gradaccum/internal/tensor"
)

// reduceBroadcast sums grad down to targetShape, undoing forward broadcasting.
//
//	Forward:  a[3,1] + b[3,4] -> c[3,4]
//	Backward: grad_c[3,4] -> grad_a[3,1] (sum along dim 1)
//
// When the shapes already match, grad itself is returned.
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape) *tensor.RawTensor {
	gradShape := grad.Shape()
	if gradShape.Equal(targetShape) {
		return grad
	}

	result, err := tensor.NewRaw(targetShape, grad.DType(), grad.Device())
	if err != nil {
		exceptions.Panicf("reduceBroadcast: %v", err)
	}

	outStrides := gradShape.ComputeStrides()
	inStrides := targetShape.BroadcastStrides(gradShape)

	switch grad.DType() {
	case tensor.Float32:
		reduceInto(result.AsFloat32(), grad.AsFloat32(), outStrides, inStrides)
	case tensor.Float64:
		reduceInto(result.AsFloat64(), grad.AsFloat64(), outStrides, inStrides)
	default:
		exceptions.Panicf("reduceBroadcast: unsupported dtype %s", grad.DType())
	}

	return result
}

func reduceInto[T float32 | float64](dst, grad []T, gradStrides, dstStrides []int) {
	for i, g := range grad {
		idx, rem := 0, i
		for d, s := range gradStrides {
			idx += (rem / s) * dstStrides[d]
			rem %= s
		}
		dst[idx] += g
	}
}
