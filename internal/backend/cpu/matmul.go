package cpu

import (
	"github.com/gomlx/exceptions"

	"github.com/born-ml/gradaccum/internal/parallel"
	"github.com/born-ml/gradaccum/internal/tensor"
)

// MatMul performs matrix multiplication.
// For 2D tensors: (M, K) @ (K, N) -> (M, N)
//
// Output rows are split across workers according to the backend's
// parallel config.
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()

	if len(aShape) != 2 || len(bShape) != 2 {
		exceptions.Panicf("matmul: only 2D tensors supported, got %dD and %dD", len(aShape), len(bShape))
	}
	if a.DType() != b.DType() {
		exceptions.Panicf("matmul: dtype mismatch %s vs %s", a.DType(), b.DType())
	}

	m, k := aShape[0], aShape[1]
	kAlt, n := bShape[0], bShape[1]
	if k != kAlt {
		exceptions.Panicf("matmul: shape mismatch [%d,%d] @ [%d,%d]", m, k, kAlt, n)
	}

	result := cpu.alloc("matmul", tensor.Shape{m, n}, a.DType())

	switch a.DType() {
	case tensor.Float32:
		matmulRows(cpu.parallel, result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), m, k, n)
	case tensor.Float64:
		matmulRows(cpu.parallel, result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), m, k, n)
	case tensor.Float16:
		out := make([]float32, m*n)
		matmulRows(cpu.parallel, out, widen(a.AsFloat16()), widen(b.AsFloat16()), m, k, n)
		narrow(result.AsFloat16(), out)
	case tensor.Int32:
		matmulRows(cpu.parallel, result.AsInt32(), a.AsInt32(), b.AsInt32(), m, k, n)
	case tensor.Int64:
		matmulRows(cpu.parallel, result.AsInt64(), a.AsInt64(), b.AsInt64(), m, k, n)
	default:
		exceptions.Panicf("matmul: unsupported dtype %s", a.DType())
	}

	return result
}

func matmulRows[T number](cfg parallel.Config, c, a, b []T, m, k, n int) {
	parallel.Range(m, cfg, func(start, end int) {
		matmulKernel(c, a, b, start, end, k, n)
	})
}
