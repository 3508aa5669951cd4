package nn

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/ember-ml/ember/internal/tensor"
)

// Initializer fills a parameter buffer in place. fanIn and fanOut carry
// the layer's connectivity so scaled schemes (Xavier, He) can size their
// distributions.
type Initializer func(data []float32, fanIn, fanOut int)

// InitSpec pairs an initializer with a gain multiplier, mirroring the
// (callable, kwargs) form of initializer configuration. Either Name or Fn
// identifies the initializer; Fn wins when both are set. A zero Gain
// means 1.
type InitSpec struct {
	Name string
	Fn   Initializer
	Gain float32
}

// initializers is the fixed name registry, populated at package init.
var initializers = map[string]Initializer{}

// RegisterInitializer adds a named initializer to the registry.
// Registration of a duplicate name is a programmer error.
func RegisterInitializer(name string, fn Initializer) {
	if _, exists := initializers[name]; exists {
		panic(fmt.Sprintf("nn: initializer %q registered twice", name))
	}
	initializers[name] = fn
}

// LookupInitializer resolves a registered initializer by name.
func LookupInitializer(name string) (Initializer, bool) {
	fn, ok := initializers[name]
	return fn, ok
}

// InitializerNames returns the registered names, sorted.
func InitializerNames() []string {
	names := make([]string, 0, len(initializers))
	for name := range initializers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	RegisterInitializer("zeros", func(data []float32, _, _ int) {
		for i := range data {
			data[i] = 0
		}
	})
	RegisterInitializer("ones", func(data []float32, _, _ int) {
		for i := range data {
			data[i] = 1
		}
	})
	RegisterInitializer("uniform", func(data []float32, _, _ int) {
		for i := range data {
			//nolint:gosec // math/rand is fine for weight initialization
			data[i] = rand.Float32()*2 - 1
		}
	})
	RegisterInitializer("normal", func(data []float32, _, _ int) {
		for i := range data {
			//nolint:gosec // math/rand is fine for weight initialization
			data[i] = float32(rand.NormFloat64())
		}
	})
	RegisterInitializer("xavier_uniform", xavierUniform)
	RegisterInitializer("glorot_uniform", xavierUniform)
	RegisterInitializer("xavier_normal", func(data []float32, fanIn, fanOut int) {
		std := math.Sqrt(2.0 / float64(fanIn+fanOut))
		for i := range data {
			//nolint:gosec // math/rand is fine for weight initialization
			data[i] = float32(rand.NormFloat64() * std)
		}
	})
	RegisterInitializer("he_uniform", func(data []float32, fanIn, _ int) {
		bound := math.Sqrt(6.0 / float64(fanIn))
		for i := range data {
			//nolint:gosec // math/rand is fine for weight initialization
			data[i] = float32((rand.Float64()*2 - 1) * bound)
		}
	})
	RegisterInitializer("he_normal", heNormal)
	RegisterInitializer("kaiming_normal", heNormal)
}

// xavierUniform draws from U(-sqrt(6/(fanIn+fanOut)), +sqrt(...)).
// This keeps activation variance roughly constant across layers.
func xavierUniform(data []float32, fanIn, fanOut int) {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	for i := range data {
		//nolint:gosec // math/rand is fine for weight initialization
		data[i] = float32((rand.Float64()*2 - 1) * bound)
	}
}

// heNormal draws from N(0, sqrt(2/fanIn)), the standard choice ahead of
// ReLU activations.
func heNormal(data []float32, fanIn, _ int) {
	std := math.Sqrt(2.0 / float64(fanIn))
	for i := range data {
		//nolint:gosec // math/rand is fine for weight initialization
		data[i] = float32(rand.NormFloat64() * std)
	}
}

// Xavier creates a tensor initialized with Xavier/Glorot uniform values.
// Used as the default weight initialization by the layer constructors.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	t := tensor.Zeros[float32](shape, backend)
	xavierUniform(t.Data(), fanIn, fanOut)
	return t
}

// Zeros creates a zero-filled tensor. Commonly used for bias
// initialization.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Zeros[float32](shape, backend)
}

// Ones creates a tensor filled with ones.
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Ones[float32](shape, backend)
}
