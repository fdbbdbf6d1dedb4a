package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - CPU: pure Go kernels (internal/backend/cpu)
//   - Autodiff: decorator recording a gradient tape (internal/autodiff)
//
// Every operation returns a newly allocated tensor and leaves its operands
// untouched. Shape and dtype mismatches are reported by panicking.
type Backend interface {
	// Element-wise binary operations, NumPy broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor

	// MatMul performs 2D matrix multiplication: [M, K] @ [K, N] -> [M, N].
	MatMul(a, b *RawTensor) *RawTensor

	// Shape operations
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// MulScalar multiplies every element by a scalar of the tensor's dtype.
	MulScalar(x *RawTensor, scalar float64) *RawTensor

	// Sum reduces all elements to a scalar (shape []).
	Sum(x *RawTensor) *RawTensor

	// Metadata
	Name() string
	Device() Device
}
