package autodiff

import (
	"github.com/gomlx/exceptions"

	"github.com/born-ml/gradaccum/internal/tensor"
)

// BackwardCapable is implemented by backends that carry a gradient tape.
type BackwardCapable interface {
	tensor.Backend
	Tape() *GradientTape
}

// Backward computes gradients of t with respect to every tensor recorded
// on the backend's tape, seeding the output gradient with ones.
//
// Returns a map from RawTensor to its gradient. Parameter gradients are
// looked up by the parameter tensor's Raw() pointer.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	x := tensor.Ones[float32](Shape{2}, backend)
//	y := x.Mul(x).Sum()
//	gradients := autodiff.Backward(y, backend)
//	grad := gradients[x.Raw()]
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	tape := backend.Tape()
	if tape.NumOps() == 0 {
		exceptions.Panicf("backward: no operations recorded (did you forget to call Tape().StartRecording()?)")
	}

	outputGrad, err := tensor.NewRaw(t.Shape(), t.DType(), backend.Device())
	if err != nil {
		exceptions.Panicf("backward: failed to create output gradient: %v", err)
	}

	switch t.DType() {
	case tensor.Float32:
		data := outputGrad.AsFloat32()
		for i := range data {
			data[i] = 1
		}
	case tensor.Float64:
		data := outputGrad.AsFloat64()
		for i := range data {
			data[i] = 1
		}
	default:
		exceptions.Panicf("backward: unsupported dtype %s (only float32/float64 supported)", t.DType())
	}

	return tape.Backward(outputGrad, backend)
}
