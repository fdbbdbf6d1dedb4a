package cpu

import (
	"github.com/gomlx/exceptions"
	"github.com/x448/float16"

	"github.com/born-ml/gradaccum/internal/tensor"
)

// Sum reduces all elements of x to a scalar tensor of the same dtype.
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := cpu.alloc("sum", tensor.Shape{}, x.DType())

	switch x.DType() {
	case tensor.Float32:
		result.AsFloat32()[0] = sumKernel(x.AsFloat32())
	case tensor.Float64:
		result.AsFloat64()[0] = sumKernel(x.AsFloat64())
	case tensor.Float16:
		result.AsFloat16()[0] = float16.Fromfloat32(sumKernel(widen(x.AsFloat16())))
	case tensor.Int32:
		result.AsInt32()[0] = sumKernel(x.AsInt32())
	case tensor.Int64:
		result.AsInt64()[0] = sumKernel(x.AsInt64())
	default:
		exceptions.Panicf("sum: unsupported dtype %s", x.DType())
	}

	return result
}
