// Package cpu implements the pure Go CPU backend.
package cpu

import (
	"github.com/gomlx/exceptions"

	"github.com/born-ml/gradaccum/internal/parallel"
	"github.com/born-ml/gradaccum/internal/tensor"
)

// CPUBackend implements tensor operations on CPU.
//
// Every operation allocates its result; operands are never written to.
// Invalid inputs (incompatible shapes, mixed dtypes) panic through
// exceptions.Panicf and are left to the caller to handle.
type CPUBackend struct {
	device   tensor.Device
	parallel parallel.Config
}

// New creates a new CPU backend using all available cores.
func New() *CPUBackend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a CPU backend with an explicit parallel config.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		parallel: cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("add", opAdd, a, b)
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("sub", opSub, a, b)
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("mul", opMul, a, b)
}

// MulScalar multiplies every element of x by scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	result := cpu.alloc("mulscalar", x.Shape(), x.DType())

	switch x.DType() {
	case tensor.Float32:
		scaleKernel(result.AsFloat32(), x.AsFloat32(), float32(scalar))
	case tensor.Float64:
		scaleKernel(result.AsFloat64(), x.AsFloat64(), scalar)
	case tensor.Float16:
		out := make([]float32, x.NumElements())
		scaleKernel(out, widen(x.AsFloat16()), float32(scalar))
		narrow(result.AsFloat16(), out)
	case tensor.Int32:
		scaleKernel(result.AsInt32(), x.AsInt32(), int32(scalar))
	case tensor.Int64:
		scaleKernel(result.AsInt64(), x.AsInt64(), int64(scalar))
	default:
		exceptions.Panicf("mulscalar: unsupported dtype %s", x.DType())
	}

	return result
}

// binary validates operands, allocates the broadcast result and dispatches
// to the dtype-specific kernel.
func (cpu *CPUBackend) binary(name string, op binaryOp, a, b *tensor.RawTensor) *tensor.RawTensor {
	if a.DType() != b.DType() {
		exceptions.Panicf("%s: dtype mismatch %s vs %s", name, a.DType(), b.DType())
	}

	outShape, _, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		exceptions.Panicf("%s: %v", name, err)
	}

	result := cpu.alloc(name, outShape, a.DType())
	aShape, bShape := a.Shape(), b.Shape()

	switch a.DType() {
	case tensor.Float32:
		binaryKernel(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), aShape, bShape, outShape, opFunc[float32](op))
	case tensor.Float64:
		binaryKernel(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), aShape, bShape, outShape, opFunc[float64](op))
	case tensor.Float16:
		// Half precision is computed in float32 and rounded once on the way out.
		out := make([]float32, outShape.NumElements())
		binaryKernel(out, widen(a.AsFloat16()), widen(b.AsFloat16()), aShape, bShape, outShape, opFunc[float32](op))
		narrow(result.AsFloat16(), out)
	case tensor.Int32:
		binaryKernel(result.AsInt32(), a.AsInt32(), b.AsInt32(), aShape, bShape, outShape, opFunc[int32](op))
	case tensor.Int64:
		binaryKernel(result.AsInt64(), a.AsInt64(), b.AsInt64(), aShape, bShape, outShape, opFunc[int64](op))
	default:
		exceptions.Panicf("%s: unsupported dtype %s", name, a.DType())
	}

	return result
}

func (cpu *CPUBackend) alloc(name string, shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape, dtype, cpu.device)
	if err != nil {
		exceptions.Panicf("%s: failed to create result tensor: %v", name, err)
	}
	return result
}
