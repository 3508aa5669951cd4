// Package fn is the functional layer API of the Ember framework.
//
// Each function is a stateless call site: invoked during a warm-up trace
// it infers its input channel count from the observed tensor shape,
// materializes its parameters, and registers the resulting module on the
// scope's container under a deterministic name; invoked afterwards it
// replays the bound module directly.
package fn

import (
	"github.com/ember-ml/ember/internal/tensor"
	"github.com/ember-ml/ember/internal/warmup"
)

// Option configures a single functional call.
type Option = warmup.Option

// Re-exported call options.
var (
	WithName       = warmup.WithName
	WithBaseName   = warmup.WithBaseName
	WithInLayout   = warmup.WithInLayout
	WithOutLayout  = warmup.WithOutLayout
	WithActivation = warmup.WithActivation
	WithInitWeight = warmup.WithInitWeight
	WithInitBias   = warmup.WithInitBias
	With           = warmup.With
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
	return s.Call("conv", x, []int{outChannels, kernelSize}, opts)
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
	return s.Call("linear", x, []int{outFeatures}, opts)
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
	return s.Call("batchnorm", x, nil, opts)
}
