// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network modules and parameter traversal.
//
//	backend := autodiff.New(cpu.New())
//	model := nn.NewSequential[*autodiff.Backend[*cpu.Backend]](
//	    nn.NewLinear(16, 8, backend),
//	    nn.NewLinear(8, 1, backend),
//	)
//
//	model.Visit(nn.ModuleVisitorFunc(func(id nn.ParamID, p *tensor.RawTensor) {
//	    fmt.Println(id, p.Shape())
//	}))
package nn

import (
	"github.com/born-ml/gradaccum/internal/nn"
	"github.com/born-ml/gradaccum/internal/tensor"
)

// ParamID identifies a parameter across passes.
type ParamID = nn.ParamID

// NewParamID returns a fresh random id.
func NewParamID() ParamID {
	return nn.NewParamID()
}

// ParamIDFrom wraps an existing string as a ParamID.
func ParamIDFrom(s string) ParamID {
	return nn.ParamIDFrom(s)
}

// ModuleVisitor receives every parameter during traversal.
type ModuleVisitor = nn.ModuleVisitor

// ModuleVisitorFunc adapts a function to ModuleVisitor.
type ModuleVisitorFunc = nn.ModuleVisitorFunc

// Visitable is anything whose parameters can be enumerated.
type Visitable = nn.Visitable

// Module is the base interface for all neural network components.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter represents a trainable parameter.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with a fresh id.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// VisitParameters visits each of params in order.
func VisitParameters[B tensor.Backend](v ModuleVisitor, params ...*Parameter[B]) {
	nn.VisitParameters(v, params...)
}

// Linear represents a fully connected (dense) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// LinearConfig configures a Linear layer.
type LinearConfig = nn.LinearConfig

// NewLinear creates a new linear layer with bias and Xavier initialization.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}

// NewLinearWithConfig creates a linear layer from cfg.
func NewLinearWithConfig[B tensor.Backend](inFeatures, outFeatures int, cfg LinearConfig, backend B) *Linear[B] {
	return nn.NewLinearWithConfig(inFeatures, outFeatures, cfg, backend)
}

// Sequential chains modules.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a new Sequential container.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// MSELoss computes mean squared error.
type MSELoss[B tensor.Backend] = nn.MSELoss[B]

// NewMSELoss creates a new MSE loss function.
func NewMSELoss[B tensor.Backend]() *MSELoss[B] {
	return nn.NewMSELoss[B]()
}
