package ops_test

import (
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gradaccum/internal/autodiff/ops"
	"github.com/born-ml/gradaccum/internal/backend/cpu"
	"github.com/born-ml/gradaccum/internal/tensor"
)

func raw(t *testing.T, shape tensor.Shape, values ...float32) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	copy(r.AsFloat32(), values)
	return r
}

func TestAddOp_Backward(t *testing.T) {
	backend := cpu.New()
	a := raw(t, tensor.Shape{3}, 1, 2, 3)
	b := raw(t, tensor.Shape{3}, 4, 5, 6)
	op := ops.NewAddOp(a, b, backend.Add(a, b))

	grads := op.Backward(raw(t, tensor.Shape{3}, 1, 1, 1), backend)

	require.Len(t, grads, 2)
	assert.Equal(t, []float32{1, 1, 1}, grads[0].AsFloat32())
	assert.Equal(t, []float32{1, 1, 1}, grads[1].AsFloat32())
	assert.Equal(t, []*tensor.RawTensor{a, b}, op.Inputs())
}

func TestAddOp_BackwardBroadcast(t *testing.T) {
	backend := cpu.New()
	a := raw(t, tensor.Shape{2, 3}, 1, 2, 3, 4, 5, 6)
	bias := raw(t, tensor.Shape{1, 3}, 1, 1, 1)
	op := ops.NewAddOp(a, bias, backend.Add(a, bias))

	grads := op.Backward(raw(t, tensor.Shape{2, 3}, 1, 2, 3, 4, 5, 6), backend)

	assert.True(t, tensor.Shape{1, 3}.Equal(grads[1].Shape()))
	assert.Equal(t, []float32{5, 7, 9}, grads[1].AsFloat32())
}

func TestSubOp_Backward(t *testing.T) {
	backend := cpu.New()
	a := raw(t, tensor.Shape{2}, 5, 6)
	b := raw(t, tensor.Shape{}, 1)
	op := ops.NewSubOp(a, b, backend.Sub(a, b))

	grads := op.Backward(raw(t, tensor.Shape{2}, 1, 2), backend)

	assert.Equal(t, []float32{1, 2}, grads[0].AsFloat32())
	assert.Equal(t, []float32{-3}, grads[1].AsFloat32())
}

func TestMulOp_Backward(t *testing.T) {
	backend := cpu.New()
	a := raw(t, tensor.Shape{2}, 2, 3)
	b := raw(t, tensor.Shape{2}, 4, 5)
	op := ops.NewMulOp(a, b, backend.Mul(a, b))

	grads := op.Backward(raw(t, tensor.Shape{2}, 1, 1), backend)

	assert.Equal(t, []float32{4, 5}, grads[0].AsFloat32())
	assert.Equal(t, []float32{2, 3}, grads[1].AsFloat32())
}

func TestMulScalarOp_Backward(t *testing.T) {
	backend := cpu.New()
	x := raw(t, tensor.Shape{2}, 1, 2)
	op := ops.NewMulScalarOp(x, backend.MulScalar(x, 0.25), 0.25)

	grads := op.Backward(raw(t, tensor.Shape{2}, 4, 8), backend)

	assert.Equal(t, []float32{1, 2}, grads[0].AsFloat32())
}

func TestMatMulOp_Backward(t *testing.T) {
	backend := cpu.New()
	a := raw(t, tensor.Shape{1, 2}, 1, 2)
	b := raw(t, tensor.Shape{2, 1}, 3, 4)
	op := ops.NewMatMulOp(a, b, backend.MatMul(a, b))

	grads := op.Backward(raw(t, tensor.Shape{1, 1}, 1), backend)

	// grad_a = g @ b^T, grad_b = a^T @ g
	assert.Equal(t, []float32{3, 4}, grads[0].AsFloat32())
	assert.Equal(t, []float32{1, 2}, grads[1].AsFloat32())
	assert.True(t, tensor.Shape{2, 1}.Equal(grads[1].Shape()))
}

func TestReshapeOp_Backward(t *testing.T) {
	backend := cpu.New()
	x := raw(t, tensor.Shape{3}, 1, 2, 3)
	op := ops.NewReshapeOp(x, backend.Reshape(x, tensor.Shape{1, 3}))

	grads := op.Backward(raw(t, tensor.Shape{1, 3}, 7, 8, 9), backend)

	assert.True(t, tensor.Shape{3}.Equal(grads[0].Shape()))
	assert.Equal(t, []float32{7, 8, 9}, grads[0].AsFloat32())
}

func TestTransposeOp_Backward(t *testing.T) {
	backend := cpu.New()
	x := raw(t, tensor.Shape{2, 3}, 1, 2, 3, 4, 5, 6)
	op := ops.NewTransposeOp(x, backend.Transpose(x), nil)

	grads := op.Backward(raw(t, tensor.Shape{3, 2}, 1, 4, 2, 5, 3, 6), backend)

	assert.True(t, tensor.Shape{2, 3}.Equal(grads[0].Shape()))
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, grads[0].AsFloat32())
}

func TestSumOp_Backward(t *testing.T) {
	backend := cpu.New()
	x := raw(t, tensor.Shape{2, 2}, 1, 2, 3, 4)
	op := ops.NewSumOp(x, backend.Sum(x))

	grads := op.Backward(raw(t, tensor.Shape{}, 3), backend)

	assert.True(t, tensor.Shape{2, 2}.Equal(grads[0].Shape()))
	assert.Equal(t, []float32{3, 3, 3, 3}, grads[0].AsFloat32())
}

func TestAddOp_BackwardBroadcastUnsupportedDType(t *testing.T) {
	backend := cpu.New()
	a, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Int32, tensor.CPU)
	require.NoError(t, err)
	b, err := tensor.NewRaw(tensor.Shape{1, 3}, tensor.Int32, tensor.CPU)
	require.NoError(t, err)
	op := ops.NewAddOp(a, b, backend.Add(a, b))

	grad, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Int32, tensor.CPU)
	require.NoError(t, err)

	err = exceptions.TryCatch[error](func() { op.Backward(grad, backend) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reduceBroadcast: unsupported dtype int32")
}
