// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides gradient accumulation for training loops.
//
// # Basic Usage
//
//	backend := autodiff.New(cpu.New())
//	model := nn.NewLinear(16, 1, backend)
//	accum := optim.NewGradientsAccumulator(backend.Inner())
//
//	for _, batch := range microBatches {
//	    backend.Tape().Clear()
//	    backend.Tape().StartRecording()
//	    loss := mse.Forward(model.Forward(batch.X), batch.Y)
//	    grads := optim.FromGrads(autodiff.Backward(loss, backend), model)
//	    accum.Accumulate(model, grads)
//	}
//
//	merged := accum.Drain() // sum over all micro-batches
//
// The accumulator merges with the backend it was built with. Pass the inner
// backend so the additions stay off the tape.
package optim

import (
	"github.com/born-ml/gradaccum/internal/nn"
	"github.com/born-ml/gradaccum/internal/optim"
	"github.com/born-ml/gradaccum/internal/tensor"
)

// GradientsParams maps parameter ids to gradients.
type GradientsParams = optim.GradientsParams

// NewGradientsParams returns an empty gradient set.
func NewGradientsParams() *GradientsParams {
	return optim.NewGradientsParams()
}

// FromGrads keys a backward result by the parameter ids of module.
func FromGrads(grads map[*tensor.RawTensor]*tensor.RawTensor, module nn.Visitable) *GradientsParams {
	return optim.FromGrads(grads, module)
}

// GradientsAccumulator sums gradients over several backward passes.
type GradientsAccumulator = optim.GradientsAccumulator

// NewGradientsAccumulator creates an empty accumulator merging with backend.
func NewGradientsAccumulator(backend tensor.Backend) *GradientsAccumulator {
	return optim.NewGradientsAccumulator(backend)
}
