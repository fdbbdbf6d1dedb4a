// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gradaccum/backend/cpu"
	"github.com/born-ml/gradaccum/tensor"
)

func TestBackendInterface(_ *testing.T) {
	var _ tensor.Backend = cpu.New()
}

func TestPublicAPI(t *testing.T) {
	backend := cpu.New()

	raw, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	assert.Equal(t, tensor.Float32, raw.DType())
	assert.Equal(t, tensor.CPU, raw.Device())

	x := tensor.New[float32](raw, backend)
	y := tensor.Full[float32](tensor.Shape{2, 3}, 2, backend)
	assert.Equal(t, []float32{2, 2, 2, 2, 2, 2}, x.Add(y).Data())

	_, broadcast, err := tensor.BroadcastShapes(tensor.Shape{3, 1}, tensor.Shape{3, 4})
	require.NoError(t, err)
	assert.True(t, broadcast)
}
