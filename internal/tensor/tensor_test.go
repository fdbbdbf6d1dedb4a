package tensor_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"

	"github.com/born-ml/gradaccum/internal/backend/cpu"
	"github.com/born-ml/gradaccum/internal/tensor"
)

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dtype tensor.DataType
		size  int
		str   string
	}{
		{tensor.Float32, 4, "float32"},
		{tensor.Float64, 8, "float64"},
		{tensor.Float16, 2, "float16"},
		{tensor.Int32, 4, "int32"},
		{tensor.Int64, 8, "int64"},
	}

	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			assert.Equal(t, tt.size, tt.dtype.Size())
			assert.Equal(t, tt.str, tt.dtype.String())
		})
	}
}

func TestShapeBasics(t *testing.T) {
	s := tensor.Shape{2, 3, 4}
	assert.Equal(t, 24, s.NumElements())
	assert.Equal(t, []int{12, 4, 1}, s.ComputeStrides())
	assert.Equal(t, 1, tensor.Shape{}.NumElements())
	assert.Equal(t, "[2 3 4]", s.String())

	clone := s.Clone()
	clone[0] = 9
	assert.Equal(t, 2, s[0], "Clone must not alias")

	require.NoError(t, s.Validate())
	require.Error(t, tensor.Shape{2, 0}.Validate())
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name      string
		a, b      tensor.Shape
		want      tensor.Shape
		broadcast bool
		wantErr   bool
	}{
		{"same", tensor.Shape{3, 5}, tensor.Shape{3, 5}, tensor.Shape{3, 5}, false, false},
		{"column", tensor.Shape{3, 1}, tensor.Shape{3, 5}, tensor.Shape{3, 5}, true, false},
		{"rank", tensor.Shape{5}, tensor.Shape{3, 5}, tensor.Shape{3, 5}, true, false},
		{"scalar", tensor.Shape{}, tensor.Shape{2, 2}, tensor.Shape{2, 2}, true, false},
		{"mismatch", tensor.Shape{3, 4}, tensor.Shape{3, 5}, nil, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, broadcast, err := tensor.BroadcastShapes(tt.a, tt.b)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
			assert.Equal(t, tt.broadcast, broadcast)
		})
	}
}

func TestNewRawRejectsInvalidShape(t *testing.T) {
	_, err := tensor.NewRaw(tensor.Shape{2, -1}, tensor.Float32, tensor.CPU)
	require.Error(t, err)
}

func TestRawCloneIsDeep(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{3}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	raw.AsFloat32()[0] = 1

	clone := raw.Clone()
	clone.AsFloat32()[0] = 5

	assert.Equal(t, float32(1), raw.AsFloat32()[0])
	assert.Equal(t, float32(5), clone.AsFloat32()[0])
	assert.Equal(t, 12, clone.ByteSize())
}

func TestRawWrongDTypePanics(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{2}, tensor.Float64, tensor.CPU)
	require.NoError(t, err)
	assert.Panics(t, func() { raw.AsFloat32() })
}

func TestFromSlice(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	require.NoError(t, err)
	assert.Equal(t, tensor.Float32, x.DType())
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, x.Data())

	_, err = tensor.FromSlice([]float32{1, 2}, tensor.Shape{3}, backend)
	require.Error(t, err)
}

func TestCreation(t *testing.T) {
	backend := cpu.New()

	assert.Equal(t, []float64{0, 0}, tensor.Zeros[float64](tensor.Shape{2}, backend).Data())
	assert.Equal(t, []int32{1, 1, 1}, tensor.Ones[int32](tensor.Shape{3}, backend).Data())
	assert.Equal(t, []float32{2.5, 2.5}, tensor.Full[float32](tensor.Shape{2}, 2.5, backend).Data())

	half := tensor.Ones[float16.Float16](tensor.Shape{2}, backend)
	assert.Equal(t, tensor.Float16, half.DType())
	assert.Equal(t, float32(1), half.Data()[1].Float32())
}

func TestRandnWithIsReproducible(t *testing.T) {
	backend := cpu.New()
	a := tensor.RandnWith[float32](tensor.Shape{8}, rand.New(rand.NewSource(7)), backend)
	b := tensor.RandnWith[float32](tensor.Shape{8}, rand.New(rand.NewSource(7)), backend)
	assert.Equal(t, a.Data(), b.Data())

	assert.Panics(t, func() {
		tensor.RandnWith[int32](tensor.Shape{2}, rand.New(rand.NewSource(1)), backend)
	})
}

func TestTensorOps(t *testing.T) {
	backend := cpu.New()

	a, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)
	b, err := tensor.FromSlice([]float32{10, 20}, tensor.Shape{1, 2}, backend)
	require.NoError(t, err)

	assert.Equal(t, []float32{11, 22, 13, 24}, a.Add(b).Data())
	assert.Equal(t, []float32{-9, -18, -7, -16}, a.Sub(b).Data())
	assert.Equal(t, []float32{10, 40, 30, 80}, a.Mul(b).Data())
	assert.Equal(t, []float32{2, 4, 6, 8}, a.MulScalar(2).Data())
	assert.Equal(t, []float32{1, 3, 2, 4}, a.T().Data())
	assert.Equal(t, []float32{7, 10, 15, 22}, a.MatMul(a).Data())
	assert.Equal(t, float32(10), a.Sum().Item())
	assert.True(t, tensor.Shape{4}.Equal(a.Reshape(4).Shape()))

	// Operands are never modified.
	assert.Equal(t, []float32{1, 2, 3, 4}, a.Data())
}

func TestShapeBroadcastStrides(t *testing.T) {
	tests := []struct {
		name    string
		in, out tensor.Shape
		want    []int
	}{
		{"same", tensor.Shape{2, 3}, tensor.Shape{2, 3}, []int{3, 1}},
		{"row", tensor.Shape{1, 3}, tensor.Shape{2, 3}, []int{0, 1}},
		{"column", tensor.Shape{2, 1}, tensor.Shape{2, 3}, []int{1, 0}},
		{"rank", tensor.Shape{3}, tensor.Shape{4, 2, 3}, []int{0, 0, 1}},
		{"scalar", tensor.Shape{}, tensor.Shape{2, 2}, []int{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.BroadcastStrides(tt.out))
		})
	}
}
