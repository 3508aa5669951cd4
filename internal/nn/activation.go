package nn

import (
	"fmt"
	"sort"

	"github.com/ember-ml/ember/internal/tensor"
)

// ReLUBackend is an interface for backends that support ReLU activation.
type ReLUBackend interface {
	ReLU(*tensor.RawTensor) *tensor.RawTensor
}

// SigmoidBackend is an interface for backends that support Sigmoid activation.
type SigmoidBackend interface {
	Sigmoid(*tensor.RawTensor) *tensor.RawTensor
}

// TanhBackend is an interface for backends that support Tanh activation.
type TanhBackend interface {
	Tanh(*tensor.RawTensor) *tensor.RawTensor
}

// ActivationFunc applies an element-wise activation through the backend.
// It is backend-agnostic so a single registry serves every backend type
// parameter; implementations discover backend support via interface
// assertion, the same pattern the activation modules use.
type ActivationFunc func(x *tensor.RawTensor, b tensor.Backend) (*tensor.RawTensor, error)

// activations is the fixed name registry, populated at package init.
var activations = map[string]ActivationFunc{}

// RegisterActivation adds a named activation to the registry.
// Registration of a duplicate name is a programmer error.
func RegisterActivation(name string, fn ActivationFunc) {
	if _, exists := activations[name]; exists {
		panic(fmt.Sprintf("nn: activation %q registered twice", name))
	}
	activations[name] = fn
}

// LookupActivation resolves a registered activation by name.
func LookupActivation(name string) (ActivationFunc, bool) {
	fn, ok := activations[name]
	return fn, ok
}

// ActivationNames returns the registered names, sorted.
func ActivationNames() []string {
	names := make([]string, 0, len(activations))
	for name := range activations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	RegisterActivation("relu", func(x *tensor.RawTensor, b tensor.Backend) (*tensor.RawTensor, error) {
		rb, ok := b.(ReLUBackend)
		if !ok {
			return nil, fmt.Errorf("backend %s does not support relu", b.Name())
		}
		return rb.ReLU(x), nil
	})
	RegisterActivation("sigmoid", func(x *tensor.RawTensor, b tensor.Backend) (*tensor.RawTensor, error) {
		sb, ok := b.(SigmoidBackend)
		if !ok {
			return nil, fmt.Errorf("backend %s does not support sigmoid", b.Name())
		}
		return sb.Sigmoid(x), nil
	})
	RegisterActivation("tanh", func(x *tensor.RawTensor, b tensor.Backend) (*tensor.RawTensor, error) {
		tb, ok := b.(TanhBackend)
		if !ok {
			return nil, fmt.Errorf("backend %s does not support tanh", b.Name())
		}
		return tb.Tanh(x), nil
	})
}

// ReLU is a Rectified Linear Unit activation module: f(x) = max(0, x).
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a new ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return &ReLU[B]{}
}

// Forward applies ReLU activation.
func (r *ReLU[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	if rb, ok := any(backend).(ReLUBackend); ok {
		return tensor.New[float32, B](rb.ReLU(input.Raw()), backend)
	}
	panic("ReLU: backend must implement the ReLU operation")
}

// Parameters returns an empty slice (ReLU has no trainable parameters).
func (r *ReLU[B]) Parameters() []*Parameter[B] {
	return nil
}

// Sigmoid is a sigmoid activation module: f(x) = 1 / (1 + exp(-x)).
type Sigmoid[B tensor.Backend] struct{}

// NewSigmoid creates a new Sigmoid activation module.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] {
	return &Sigmoid[B]{}
}

// Forward applies Sigmoid activation.
func (s *Sigmoid[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	if sb, ok := any(backend).(SigmoidBackend); ok {
		return tensor.New[float32, B](sb.Sigmoid(input.Raw()), backend)
	}
	panic("Sigmoid: backend must implement the Sigmoid operation")
}

// Parameters returns an empty slice (Sigmoid has no trainable parameters).
func (s *Sigmoid[B]) Parameters() []*Parameter[B] {
	return nil
}

// Tanh is a hyperbolic tangent activation module.
type Tanh[B tensor.Backend] struct{}

// NewTanh creates a new Tanh activation module.
func NewTanh[B tensor.Backend]() *Tanh[B] {
	return &Tanh[B]{}
}

// Forward applies Tanh activation.
func (t *Tanh[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	if tb, ok := any(backend).(TanhBackend); ok {
		return tensor.New[float32, B](tb.Tanh(input.Raw()), backend)
	}
	panic("Tanh: backend must implement the Tanh operation")
}

// Parameters returns an empty slice (Tanh has no trainable parameters).
func (t *Tanh[B]) Parameters() []*Parameter[B] {
	return nil
}
