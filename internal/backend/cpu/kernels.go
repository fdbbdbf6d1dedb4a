package cpu

import (
	"github.com/gomlx/exceptions"
	"github.com/x448/float16"
	"golang.org/x/exp/constraints"

	"github.com/born-ml/gradaccum/internal/tensor"
)

// number is the set of element types the kernels operate on.
type number interface {
	constraints.Integer | constraints.Float
}

type binaryOp int

const (
	opAdd binaryOp = iota
	opSub
	opMul
)

func opFunc[T number](op binaryOp) func(x, y T) T {
	switch op {
	case opAdd:
		return func(x, y T) T { return x + y }
	case opSub:
		return func(x, y T) T { return x - y }
	case opMul:
		return func(x, y T) T { return x * y }
	default:
		exceptions.Panicf("unknown binary op")
		return nil
	}
}

// binaryKernel computes dst = op(a, b), broadcasting a and b to outShape.
func binaryKernel[T number](dst, a, b []T, aShape, bShape, outShape tensor.Shape, op func(x, y T) T) {
	// Fast path: identical shapes, no index arithmetic.
	if aShape.Equal(bShape) {
		for i := range dst {
			dst[i] = op(a[i], b[i])
		}
		return
	}

	outStrides := outShape.ComputeStrides()
	aStrides := aShape.BroadcastStrides(outShape)
	bStrides := bShape.BroadcastStrides(outShape)

	for i := range dst {
		aIdx := computeFlatIndex(i, outStrides, aStrides)
		bIdx := computeFlatIndex(i, outStrides, bStrides)
		dst[i] = op(a[aIdx], b[bIdx])
	}
}

func scaleKernel[T number](dst, x []T, s T) {
	for i := range x {
		dst[i] = x[i] * s
	}
}

func sumKernel[T number](x []T) T {
	var sum T
	for _, v := range x {
		sum += v
	}
	return sum
}

// matmulKernel performs naive matrix multiplication on rows [rowStart, rowEnd).
// C[i,j] = sum_k A[i,k] * B[k,j]
func matmulKernel[T number](c, a, b []T, rowStart, rowEnd, k, n int) {
	for i := rowStart; i < rowEnd; i++ {
		for j := 0; j < n; j++ {
			var sum T
			for kIdx := 0; kIdx < k; kIdx++ {
				sum += a[i*k+kIdx] * b[kIdx*n+j]
			}
			c[i*n+j] = sum
		}
	}
}

// widen converts half precision values to float32 for computation.
func widen(src []float16.Float16) []float32 {
	out := make([]float32, len(src))
	for i, v := range src {
		out[i] = v.Float32()
	}
	return out
}

// narrow rounds float32 results back into half precision storage.
func narrow(dst []float16.Float16, src []float32) {
	for i, v := range src {
		dst[i] = float16.Fromfloat32(v)
	}
}
