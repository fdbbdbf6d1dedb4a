// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/gradaccum/internal/tensor"

// Backend defines the interface that all compute backends must implement.
//
// Implementations:
//   - backend/cpu: Pure Go
//
// Decorator backends:
//   - autodiff: Automatic differentiation (wraps any backend)
//
// Every operation returns a newly allocated tensor and leaves its operands
// untouched.
type Backend interface {
	Add(a, b *RawTensor) *RawTensor // Element-wise addition.
	Sub(a, b *RawTensor) *RawTensor // Element-wise subtraction.
	Mul(a, b *RawTensor) *RawTensor // Element-wise multiplication.

	MatMul(a, b *RawTensor) *RawTensor // 2D matrix multiplication.

	Reshape(t *RawTensor, newShape Shape) *RawTensor // Reshape tensor.
	Transpose(t *RawTensor, axes ...int) *RawTensor  // Permute dimensions.

	MulScalar(x *RawTensor, scalar float64) *RawTensor // Multiply by scalar.
	Sum(x *RawTensor) *RawTensor                       // Total sum (scalar result).

	Name() string   // Backend name (e.g., "CPU").
	Device() Device // Device type.
}

// Compile-time check that internal Backend implements public Backend.
var _ Backend = tensor.Backend(nil)
