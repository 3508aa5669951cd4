package warmup

import (
	"fmt"

	"github.com/ember-ml/ember/internal/layout"
	"github.com/ember-ml/ember/internal/nn"
	"github.com/ember-ml/ember/internal/tensor"
)

// State is the warm-up life-cycle state of a scope.
type State int

// Life-cycle states. Warmed is terminal.
const (
	Idle State = iota
	Tracing
	Warmed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Tracing:
		return "tracing"
	case Warmed:
		return "warmed"
	default:
		return "unknown"
	}
}

// Scope carries one container through tracing and the forward passes
// after it: the call-site registry, the life-cycle state, and the
// backend. It is the explicit stand-in for hidden per-object trace state;
// the container itself holds only its children and the warmed marker.
//
// A Scope must not be shared between goroutines during WarmUp or Apply:
// the registry's counters and name table are mutated without locking to
// keep the replay path allocation-free.
type Scope[B tensor.Backend] struct {
	container *nn.Container[B]
	backend   B
	reg       *registry[B]
	state     State
}

// NewScope creates an idle scope around a container.
func NewScope[B tensor.Backend](container *nn.Container[B], backend B) *Scope[B] {
	return &Scope[B]{
		container: container,
		backend:   backend,
		reg:       newRegistry[B](),
	}
}

// State returns the current life-cycle state.
func (s *Scope[B]) State() State {
	return s.state
}

// Container returns the container this scope traces into.
func (s *Scope[B]) Container() *nn.Container[B] {
	return s.container
}

// Backend returns the scope's compute backend.
func (s *Scope[B]) Backend() B {
	return s.backend
}

// Site returns the call site bound under fullName, if any.
func (s *Scope[B]) Site(fullName string) (*CallSite[B], bool) {
	return s.reg.site(fullName)
}

// Call is the single entry point for functional layer calls. During
// tracing it resolves the call site, materializes its module on first
// encounter, registers it on the container, and executes it on the
// placeholder input; after warm-up it replays, reusing the bound module
// with no further inference.
func (s *Scope[B]) Call(
	kind string,
	x *tensor.Tensor[float32, B],
	sizes []int,
	opts []Option,
) (out *tensor.Tensor[float32, B], err error) {
	if s.state == Idle {
		return nil, ErrOutsideTrace
	}

	cfg := newConfig(opts)
	base := cfg.BaseName
	if base == "" {
		base = kind
	}

	rank := len(x.Shape())
	variant, err := SelectVariant(kind, rank)
	if err != nil {
		return nil, err
	}

	site, fresh, err := s.reg.resolve(cfg.Name, base, kind, s.state == Tracing)
	if err != nil {
		return nil, err
	}

	// Backend kernels panic on programmer errors; attribute them to the
	// call site instead of unwinding through user code.
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = &ShapeInferenceError{Site: site.FullName, Err: fmt.Errorf("%v", r)}
		}
	}()

	// Bring the input into canonical [batch, channel, dims...] order.
	xc, err := s.toCanonical(x, cfg.InLayout, site.FullName)
	if err != nil {
		return nil, err
	}

	if fresh {
		inChannels, cerr := layout.ExtractChannel(x.Shape(), cfg.InLayout)
		if cerr != nil {
			return nil, &ShapeInferenceError{Site: site.FullName, Err: cerr}
		}
		site.Variant = variant

		mat, merr := materialize(kind, variant, ShapeInfo{
			InChannels:  inChannels,
			SpatialDims: rank - 2,
		}, sizes, cfg, s.backend)
		if merr != nil {
			if ua, ok := merr.(*UnsupportedArgumentError); ok {
				ua.Site = site.FullName
			}
			return nil, merr
		}
		mat.name = site.FullName

		if rerr := s.container.Register(site.FullName, mat); rerr != nil {
			return nil, &NameCollisionError{Name: site.FullName, Kind: kind}
		}
		s.reg.bind(site, mat)
	}

	yc := site.Module().Forward(xc)
	return s.fromCanonical(yc, cfg.OutLayout, site.FullName)
}

// rollback unwinds a failed trace: every module bound during the pass is
// detached from the container and the registry is reset, restoring the
// untraced state.
func (s *Scope[B]) rollback() {
	for _, name := range s.reg.boundNames() {
		s.container.Unregister(name)
	}
	s.reg = newRegistry[B]()
}

// toCanonical permutes x from the given layout into canonical order.
func (s *Scope[B]) toCanonical(x *tensor.Tensor[float32, B], l, siteName string) (*tensor.Tensor[float32, B], error) {
	rank := len(x.Shape())
	identity, err := layout.IsIdentity(l, rank)
	if err != nil {
		return nil, err
	}
	if identity {
		return x, nil
	}
	perm, err := layout.Permutation(l, rank)
	if err != nil {
		return nil, &ShapeInferenceError{Site: siteName, Err: err}
	}
	return x.Transpose(perm...), nil
}

// fromCanonical permutes a canonical result into the requested layout.
func (s *Scope[B]) fromCanonical(y *tensor.Tensor[float32, B], l, siteName string) (*tensor.Tensor[float32, B], error) {
	rank := len(y.Shape())
	identity, err := layout.IsIdentity(l, rank)
	if err != nil {
		return nil, err
	}
	if identity {
		return y, nil
	}
	perm, err := layout.Permutation(l, rank)
	if err != nil {
		return nil, &ShapeInferenceError{Site: siteName, Err: err}
	}
	// perm maps layout axes to canonical axes; invert it to go the other
	// way.
	inv := make([]int, len(perm))
	for i, ax := range perm {
		inv[ax] = i
	}
	return y.Transpose(inv...), nil
}
