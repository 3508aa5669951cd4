// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network building blocks for the Ember ML framework.
//
// # Overview
//
// The package provides:
//   - Module: the interface every layer implements
//   - Container: the model object holding named child modules
//   - Layers: Linear, Conv (1D/2D/3D), BatchNorm
//   - Activations: ReLU, Sigmoid, Tanh
//   - Name registries for initializers and activations
//
// # Declared vs. deferred construction
//
// Layers can be constructed directly with explicit sizes:
//
//	backend := cpu.New()
//	layer := nn.NewLinear(784, 128, true, backend)
//
// or deferred through the fn and warmup packages, where input sizes are
// inferred from a one-shot warm-up trace:
//
//	net := nn.NewContainer[*cpu.Backend]()
//	scope, err := warmup.WarmUp(net, backend, forward, tensor.Shape{2, 3, 28, 28})
//
// See the warmup package documentation for the tracing life cycle.
package nn
