// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package fn provides the functional layer API of the Ember ML framework.
//
// Each function is a stateless call site: invoked during a warm-up trace
// it infers its input channel count from the observed tensor shape,
// materializes its parameters, and registers the resulting module on the
// scope's container under a deterministic name; invoked afterwards it
// replays the bound module directly.
//
// Example:
//
//	forward := func(s *warmup.Scope[*cpu.Backend], xs ...*tensor.Tensor[float32, *cpu.Backend]) (*tensor.Tensor[float32, *cpu.Backend], error) {
//	    h, err := fn.Conv(s, xs[0], 16, 3, fn.WithActivation("relu"))
//	    if err != nil {
//	        return nil, err
//	    }
//	    return fn.Conv(s, h, 32, 3)
//	}
package fn

import (
	internalfn "github.com/ember-ml/ember/internal/fn"
	"github.com/ember-ml/ember/internal/tensor"
	"github.com/ember-ml/ember/internal/warmup"
)

// Option configures a single functional call.
type Option = internalfn.Option

// Call options.
var (
	// WithName sets an explicit module name, bypassing ordinal generation.
	WithName = internalfn.WithName
	// WithBaseName sets the stem used for generated names.
	WithBaseName = internalfn.WithBaseName
	// WithInLayout sets the input axis layout (default "BCD").
	WithInLayout = internalfn.WithInLayout
	// WithOutLayout sets the output axis layout (default "BCD").
	WithOutLayout = internalfn.WithOutLayout
	// WithActivation composes an activation after the layer.
	WithActivation = internalfn.WithActivation
	// WithInitWeight overrides weight initialization.
	WithInitWeight = internalfn.WithInitWeight
	// WithInitBias overrides bias initialization.
	WithInitBias = internalfn.WithInitBias
	// With adds one passthrough option handed to the layer constructor.
	With = internalfn.With
)

// Conv applies a rank-dispatched convolution: rank-3 input selects the
// 1D variant, rank-4 the 2D variant, rank-5 the 3D variant. The input
// channel count is inferred from the channel axis of the observed shape.
//
// Passdown keys: "stride" (int, default 1), "padding" (int, default 0),
// "bias" (bool, default true).
func Conv[B tensor.Backend](
	s *warmup.Scope[B],
	x *tensor.Tensor[float32, B],
	outChannels, kernelSize int,
	opts ...Option,
) (*tensor.Tensor[float32, B], error) {
	return internalfn.Conv(s, x, outChannels, kernelSize, opts...)
}

// Linear applies a dense projection over [batch, features] input, with
// the input feature count inferred from the channel axis.
//
// Passdown keys: "bias" (bool, default true).
func Linear[B tensor.Backend](
	s *warmup.Scope[B],
	x *tensor.Tensor[float32, B],
	outFeatures int,
	opts ...Option,
) (*tensor.Tensor[float32, B], error) {
	return internalfn.Linear(s, x, outFeatures, opts...)
}

// BatchNorm normalizes each channel using batch statistics, with the
// channel count inferred from the observed shape.
//
// Passdown keys: "eps" (float, default 1e-5), "affine" (bool, default
// true).
func BatchNorm[B tensor.Backend](
	s *warmup.Scope[B],
	x *tensor.Tensor[float32, B],
	opts ...Option,
) (*tensor.Tensor[float32, B], error) {
	return internalfn.BatchNorm(s, x, opts...)
}
