package main

import (
	"io"
	"testing"

	"github.com/schollz/progressbar/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"

	"github.com/born-ml/gradaccum/internal/autodiff"
	"github.com/born-ml/gradaccum/internal/backend/cpu"
	"github.com/born-ml/gradaccum/internal/nn"
	"github.com/born-ml/gradaccum/internal/tensor"
)

func TestL2Norm(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{2}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	copy(raw.AsFloat32(), []float32{3, 4})
	assert.InDelta(t, 5.0, l2Norm(raw), 1e-9)

	wide, err := tensor.NewRaw(tensor.Shape{2}, tensor.Float64, tensor.CPU)
	require.NoError(t, err)
	copy(wide.AsFloat64(), []float64{6, 8})
	assert.InDelta(t, 10.0, l2Norm(wide), 1e-9)

	half, err := tensor.NewRaw(tensor.Shape{2}, tensor.Float16, tensor.CPU)
	require.NoError(t, err)
	half.AsFloat16()[0], half.AsFloat16()[1] = float16.Fromfloat32(3), float16.Fromfloat32(4)
	assert.InDelta(t, 5.0, l2Norm(half), 1e-9)

	ints, err := tensor.NewRaw(tensor.Shape{2}, tensor.Int32, tensor.CPU)
	require.NoError(t, err)
	assert.Panics(t, func() { l2Norm(ints) })
}

func TestParameterLabels(t *testing.T) {
	backend := autodiff.New(cpu.New())
	noBias := nn.LinearConfig{Bias: false}
	first := nn.NewLinearWithConfig(3, 4, noBias, backend)
	second := nn.NewLinear(4, 2, backend)
	third := nn.NewLinearWithConfig(2, 1, noBias, backend)
	model := nn.NewSequential[backendType](first, second, third)

	labels := parameterLabels(model)

	require.Len(t, labels, 4)
	assert.Equal(t, "0.weight", labels[first.Weight().ID()])
	assert.Equal(t, "1.weight", labels[second.Weight().ID()])
	assert.Equal(t, "1.bias", labels[second.Bias().ID()])
	assert.Equal(t, "2.weight", labels[third.Weight().ID()])

	single := parameterLabels(second)
	assert.Equal(t, "bias", single[second.Bias().ID()])
}

func TestMicroBatch(t *testing.T) {
	backend := autodiff.New(cpu.New())
	inner := backend.Inner()
	model := nn.NewSequential[backendType](nn.NewLinear(3, 2, backend), nn.NewLinear(2, 1, backend))

	x := tensor.Randn[float32](tensor.Shape{4, 3}, inner)
	y := tensor.Zeros[float32](tensor.Shape{4, 1}, inner)

	loss, grads := microBatch(backend, model, nn.NewMSELoss[backendType](), x, y)

	assert.GreaterOrEqual(t, loss, float32(0))
	assert.Equal(t, 4, grads.Len())
	assert.False(t, backend.Tape().IsRecording())
	for _, p := range model.Parameters() {
		grad := grads.Get(p.ID())
		require.NotNil(t, grad, p.Name())
		assert.True(t, p.Tensor().Shape().Equal(grad.Shape()))
	}
}

func TestAdvanceIgnoresRenderErrors(t *testing.T) {
	newBar := func() *progressbar.ProgressBar {
		return progressbar.NewOptions(1, progressbar.OptionSetWriter(io.Discard))
	}
	require.Error(t, newBar().Add(2), "overflowing the bar reports an error")

	bar := newBar()
	assert.NotPanics(t, func() {
		advance(bar, 2)
		finish(bar)
	})
}
