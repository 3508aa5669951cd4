// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package warmup provides the public API of Ember's trace-based shape
// inference engine.
//
// A container built with the functional API (package fn) declares no
// per-layer input sizes. WarmUp runs the user's forward computation once
// with placeholder input; every functional call site encountered during
// that single dry run infers its missing dimensions from the observed
// tensor shapes, materializes its parameter tensors, and is registered
// on the container under a deterministic name. Later forward passes go
// through Scope.Apply and replay the bound modules directly.
//
// Example:
//
//	net := nn.NewContainer[*cpu.Backend]()
//	forward := func(s *warmup.Scope[*cpu.Backend], xs ...*tensor.Tensor[float32, *cpu.Backend]) (*tensor.Tensor[float32, *cpu.Backend], error) {
//	    h, err := fn.Conv(s, xs[0], 16, 3, fn.WithActivation("relu"))
//	    if err != nil {
//	        return nil, err
//	    }
//	    return fn.Conv(s, h, 32, 3)
//	}
//	scope, err := warmup.WarmUp(net, cpu.New(), forward, tensor.Shape{2, 3, 28, 28})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := scope.Apply(forward, x)
package warmup

import (
	"github.com/ember-ml/ember/internal/nn"
	"github.com/ember-ml/ember/internal/tensor"
	"github.com/ember-ml/ember/internal/warmup"
)

// Scope carries one container through tracing and the forward passes
// after it.
type Scope[B tensor.Backend] = warmup.Scope[B]

// CallSite is the bookkeeping record for one functional call site.
type CallSite[B tensor.Backend] = warmup.CallSite[B]

// Forward is a user-supplied forward computation over a scope.
type Forward[B tensor.Backend] = warmup.Forward[B]

// State is the warm-up life-cycle state of a scope.
type State = warmup.State

// Life-cycle states. Warmed is terminal.
const (
	Idle    State = warmup.Idle
	Tracing State = warmup.Tracing
	Warmed  State = warmup.Warmed
)

// Variant identifies the concrete backend operation chosen for a
// shape-polymorphic operation family at an observed rank.
type Variant = warmup.Variant

// Concrete operation variants.
const (
	VariantConv1D Variant = warmup.VariantConv1D
	VariantConv2D Variant = warmup.VariantConv2D
	VariantConv3D Variant = warmup.VariantConv3D

	VariantLinear Variant = warmup.VariantLinear

	VariantBatchNorm1D Variant = warmup.VariantBatchNorm1D
	VariantBatchNorm2D Variant = warmup.VariantBatchNorm2D
	VariantBatchNorm3D Variant = warmup.VariantBatchNorm3D
)

// NewScope creates an idle scope around a container.
func NewScope[B tensor.Backend](container *nn.Container[B], backend B) *Scope[B] {
	return warmup.NewScope(container, backend)
}

// WarmUp traces forward once against placeholder inputs built from the
// given specs and attaches the materialized modules to the container.
// Returns the scope used for the trace; run later forward passes through
// its Apply method.
//
// Each spec is either a concrete tensor (used as the placeholder
// directly), a tensor.Shape, or a []int; shapes must be all-positive,
// with the leading entry read as the batch size. Multi-input containers
// pass one spec per forward argument, in positional order.
//
// Warm-up is once per container: tracing an already-warmed container
// fails with AlreadyWarmedError.
func WarmUp[B tensor.Backend](
	container *nn.Container[B],
	backend B,
	forward Forward[B],
	specs ...any,
) (*Scope[B], error) {
	return warmup.WarmUp(container, backend, forward, specs...)
}

// Errors

// Sentinel errors for misuse of the trace life cycle.
var (
	// ErrOutsideTrace is returned when a functional call runs on a scope
	// that is neither tracing nor warmed.
	ErrOutsideTrace = warmup.ErrOutsideTrace

	// ErrTraceInProgress is returned when WarmUp re-enters a scope that
	// is already tracing.
	ErrTraceInProgress = warmup.ErrTraceInProgress

	// ErrNotWarmed is returned by Apply before a successful warm-up.
	ErrNotWarmed = warmup.ErrNotWarmed
)

// AlreadyWarmedError reports a second warm-up of an already-warmed
// container.
type AlreadyWarmedError = warmup.AlreadyWarmedError

// InvalidInputSpecError reports a malformed warm-up input specification.
type InvalidInputSpecError = warmup.InvalidInputSpecError

// NameCollisionError reports two distinct call sites resolving to the
// same full name within one container.
type NameCollisionError = warmup.NameCollisionError

// UnsupportedArgumentError reports a configuration option the target
// operation rejects.
type UnsupportedArgumentError = warmup.UnsupportedArgumentError

// UnsupportedRankError reports an operation family with no variant for
// the observed tensor rank.
type UnsupportedRankError = warmup.UnsupportedRankError

// ShapeInferenceError reports a call site whose required shape
// information could not be derived during tracing.
type ShapeInferenceError = warmup.ShapeInferenceError
