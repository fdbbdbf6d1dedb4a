package tensor

import (
	"math/rand"

	"github.com/gomlx/exceptions"
	"github.com/x448/float16"
)

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	backend := cpu.New()
//	t := tensor.Zeros[float32](Shape{3, 4}, backend)
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	raw, err := NewRaw(shape, inferDataType[T](), b.Device())
	if err != nil {
		exceptions.Panicf("%v", err)
	}
	return New[T, B](raw, b)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	t := tensor.Full[float32](Shape{3, 3}, 3.14, backend)
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return Full[T, B](shape, fromFloat64[T](1), b)
}

// Randn creates a tensor with values drawn from N(0, 1) using the global source.
// Only float types are supported.
func Randn[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return RandnWith[T, B](shape, rand.New(rand.NewSource(rand.Int63())), b) //nolint:gosec // G404: ML uses math/rand intentionally
}

// RandnWith creates a normally distributed tensor from the given source,
// which makes runs reproducible for a fixed seed.
func RandnWith[T DType, B Backend](shape Shape, rng *rand.Rand, b B) *Tensor[T, B] {
	if !inferDataType[T]().IsFloat() {
		exceptions.Panicf("Randn only supports float types")
	}
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = fromFloat64[T](rng.NormFloat64())
	}
	return t
}

// fromFloat64 converts v to the element type T.
func fromFloat64[T DType](v float64) T {
	var out T
	switch p := any(&out).(type) {
	case *float32:
		*p = float32(v)
	case *float64:
		*p = v
	case *float16.Float16:
		*p = float16.Fromfloat32(float32(v))
	case *int32:
		*p = int32(v)
	case *int64:
		*p = int64(v)
	default:
		exceptions.Panicf("unsupported type")
	}
	return out
}
