// Package warmup implements the trace-based shape inference engine of
// the Ember framework.
//
// A container built with the functional API declares no per-layer sizes
// up front. WarmUp runs the user's forward computation exactly once with
// placeholder input; every functional call site encountered during that
// single dry run infers its missing dimensions from the observed tensor
// shapes, materializes its parameter tensors, and is registered on the
// container under a deterministic name. Subsequent forward passes replay
// the bound modules directly and perform no further inference.
//
//	net := nn.NewContainer[*cpu.CPUBackend]()
//	forward := func(s *warmup.Scope[*cpu.CPUBackend], xs ...*tensor.Tensor[float32, *cpu.CPUBackend]) (*tensor.Tensor[float32, *cpu.CPUBackend], error) {
//	    h, err := fn.Conv(s, xs[0], 16, 3, fn.WithActivation("relu"))
//	    if err != nil {
//	        return nil, err
//	    }
//	    return fn.Conv(s, h, 32, 3)
//	}
//	scope, err := warmup.WarmUp(net, cpu.New(), forward, tensor.Shape{2, 3, 28, 28})
//
// After warm-up the container owns modules "conv_1" and "conv_2" with
// weight shapes [16, 3, 3, 3] and [32, 16, 3, 3].
package warmup

import (
	"fmt"

	"github.com/ember-ml/ember/internal/nn"
	"github.com/ember-ml/ember/internal/tensor"
)

// Forward is a user-supplied forward computation over a scope. During
// warm-up it receives placeholder tensors; afterwards, real inputs.
type Forward[B tensor.Backend] func(s *Scope[B], inputs ...*tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error)

// WarmUp traces forward once against placeholder inputs built from the
// given specs and attaches the materialized modules to the container.
// Returns the scope used for the trace; run later forward passes through
// its Apply method.
//
// Each spec is either a concrete tensor (used as the placeholder
// directly), a tensor.Shape, or a []int; shapes must be all-positive,
// with the leading entry read as the batch size. Multi-input containers
// pass one spec per forward argument, in positional order.
func WarmUp[B tensor.Backend](
	container *nn.Container[B],
	backend B,
	forward Forward[B],
	specs ...any,
) (*Scope[B], error) {
	scope := NewScope(container, backend)
	if err := scope.WarmUp(forward, specs...); err != nil {
		return nil, err
	}
	return scope, nil
}

// WarmUp performs the one-shot trace on this scope. See the package-level
// WarmUp for the input spec forms. Warm-up is terminal per container: a
// second call fails with AlreadyWarmedError no matter which scope carries
// it, so re-tracing an already-populated container cannot happen.
func (s *Scope[B]) WarmUp(forward Forward[B], specs ...any) error {
	if s.state == Tracing {
		return ErrTraceInProgress
	}
	if s.container.Warmed() {
		return &AlreadyWarmedError{Modules: s.container.Len()}
	}

	placeholders, err := s.placeholders(specs)
	if err != nil {
		return err
	}

	s.state = Tracing
	s.reg.beginPass()

	// The traced forward's return value is discarded; only the modules it
	// leaves on the container matter.
	if _, err := forward(s, placeholders...); err != nil {
		// Unwind sites materialized before the failure so a retry starts
		// from an empty container and re-infers every shape.
		s.rollback()
		s.state = Idle
		return err
	}

	s.state = Warmed
	s.container.MarkWarmed()
	return nil
}

// Apply runs one real forward pass over a warmed scope, replaying the
// call sites bound during the trace.
func (s *Scope[B]) Apply(forward Forward[B], inputs ...*tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	if s.state != Warmed {
		return nil, ErrNotWarmed
	}
	s.reg.beginPass()
	return forward(s, inputs...)
}

// placeholders normalizes input specs into placeholder tensors.
func (s *Scope[B]) placeholders(specs []any) ([]*tensor.Tensor[float32, B], error) {
	if len(specs) == 0 {
		return nil, &InvalidInputSpecError{Index: 0, Reason: "no input specs given"}
	}

	out := make([]*tensor.Tensor[float32, B], 0, len(specs))
	for i, spec := range specs {
		switch v := spec.(type) {
		case *tensor.Tensor[float32, B]:
			out = append(out, v)
		case tensor.Shape:
			t, err := s.placeholderFromShape(v, i)
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		case []int:
			t, err := s.placeholderFromShape(tensor.Shape(v), i)
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		default:
			return nil, &InvalidInputSpecError{Index: i,
				Reason: fmt.Sprintf("unsupported spec type %T (want tensor, tensor.Shape, or []int)", spec)}
		}
	}
	return out, nil
}

func (s *Scope[B]) placeholderFromShape(shape tensor.Shape, index int) (*tensor.Tensor[float32, B], error) {
	if len(shape) == 0 {
		return nil, &InvalidInputSpecError{Index: index, Reason: "empty shape"}
	}
	for i, dim := range shape {
		if dim <= 0 {
			return nil, &InvalidInputSpecError{Index: index,
				Reason: fmt.Sprintf("non-positive dimension %d at axis %d", dim, i)}
		}
	}
	return tensor.Zeros[float32](shape, s.backend), nil
}
