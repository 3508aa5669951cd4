package warmup

import (
	"fmt"

	"github.com/ember-ml/ember/internal/nn"
	"github.com/ember-ml/ember/internal/tensor"
)

// Materialized is the concrete, shaped, parameter-bearing unit created
// once a call site's shapes are known. It owns the underlying layer and
// the optional activation composed after it; both are fixed at
// materialization and never re-resolved.
type Materialized[B tensor.Backend] struct {
	name       string
	kind       string
	variant    Variant
	layer      nn.Module[B]
	activation nn.ActivationFunc
}

// Forward runs the layer, then the composed activation if present.
func (m *Materialized[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	output := m.layer.Forward(input)
	if m.activation != nil {
		raw, err := m.activation(output.Raw(), output.Backend())
		if err != nil {
			panic(fmt.Sprintf("%s: activation failed: %v", m.name, err))
		}
		output = tensor.New[float32, B](raw, output.Backend())
	}
	return output
}

// Parameters returns the underlying layer's parameters.
func (m *Materialized[B]) Parameters() []*nn.Parameter[B] {
	return m.layer.Parameters()
}

// Name returns the module's resolved full name.
func (m *Materialized[B]) Name() string {
	return m.name
}

// Kind returns the operation family that produced this module.
func (m *Materialized[B]) Kind() string {
	return m.kind
}

// Variant returns the concrete operation variant chosen by rank dispatch.
func (m *Materialized[B]) Variant() Variant {
	return m.variant
}

// Layer returns the underlying layer module.
func (m *Materialized[B]) Layer() nn.Module[B] {
	return m.layer
}

// ShapeInfo carries the shape facts inferred at a call site.
type ShapeInfo struct {
	InChannels  int // size of the canonical channel axis
	SpatialDims int // rank minus batch and channel axes
}

// materialize constructs the concrete layer for one call site from the
// inferred shape info, the explicit size arguments, and the call
// configuration. Runs at most once per call site.
func materialize[B tensor.Backend](
	kind string,
	variant Variant,
	info ShapeInfo,
	sizes []int,
	cfg *Config,
	backend B,
) (*Materialized[B], error) {
	extra := newExtraBag(cfg.Extra)

	var layer nn.Module[B]
	var fanIn, fanOut int
	var weight, bias *nn.Parameter[B]

	switch kind {
	case "conv":
		if len(sizes) != 2 {
			return nil, fmt.Errorf("conv: want size args (out_channels, kernel_size), got %d args", len(sizes))
		}
		outChannels, kernelSize := sizes[0], sizes[1]
		stride, err := extra.popInt("stride", 1)
		if err != nil {
			return nil, err
		}
		padding, err := extra.popInt("padding", 0)
		if err != nil {
			return nil, err
		}
		useBias, err := extra.popBool("bias", true)
		if err != nil {
			return nil, err
		}

		var conv *nn.Conv[B]
		switch variant {
		case VariantConv1D:
			conv = nn.NewConv1D(info.InChannels, outChannels, kernelSize, stride, padding, useBias, backend)
		case VariantConv2D:
			conv = nn.NewConv2D(info.InChannels, outChannels, kernelSize, stride, padding, useBias, backend)
		case VariantConv3D:
			conv = nn.NewConv3D(info.InChannels, outChannels, kernelSize, stride, padding, useBias, backend)
		default:
			return nil, fmt.Errorf("conv: unexpected variant %q", variant)
		}

		kernelVolume := 1
		for i := 0; i < info.SpatialDims; i++ {
			kernelVolume *= kernelSize
		}
		fanIn = info.InChannels * kernelVolume
		fanOut = outChannels * kernelVolume
		weight, bias = conv.Weight(), conv.Bias()
		layer = conv

	case "linear":
		if len(sizes) != 1 {
			return nil, fmt.Errorf("linear: want size arg (out_features), got %d args", len(sizes))
		}
		outFeatures := sizes[0]
		useBias, err := extra.popBool("bias", true)
		if err != nil {
			return nil, err
		}

		lin := nn.NewLinear(info.InChannels, outFeatures, useBias, backend)
		fanIn, fanOut = info.InChannels, outFeatures
		weight, bias = lin.Weight(), lin.Bias()
		layer = lin

	case "batchnorm":
		if len(sizes) != 0 {
			return nil, fmt.Errorf("batchnorm: takes no size args, got %d", len(sizes))
		}
		eps, err := extra.popFloat32("eps", 1e-5)
		if err != nil {
			return nil, err
		}
		affine, err := extra.popBool("affine", true)
		if err != nil {
			return nil, err
		}

		bn := nn.NewBatchNorm(info.InChannels, eps, affine, backend)
		fanIn, fanOut = info.InChannels, info.InChannels
		weight, bias = bn.Gamma(), bn.Beta()
		layer = bn

	default:
		return nil, fmt.Errorf("unknown operation kind %q", kind)
	}

	// The passdown contract: anything left in the bag was not recognized
	// by this operation's constructor.
	if key := extra.leftover(); key != "" {
		return nil, &UnsupportedArgumentError{Key: key, Reason: fmt.Sprintf("not accepted by %s", kind)}
	}

	if err := applyInit(cfg.InitWeight, "init_weight", weight, fanIn, fanOut); err != nil {
		return nil, err
	}
	if err := applyInit(cfg.InitBias, "init_bias", bias, fanIn, fanOut); err != nil {
		return nil, err
	}

	activation, err := resolveActivation(cfg.Activation)
	if err != nil {
		return nil, err
	}

	return &Materialized[B]{
		kind:       kind,
		variant:    variant,
		layer:      layer,
		activation: activation,
	}, nil
}

// applyInit resolves an initializer option and applies it in place to the
// parameter tensor, exactly once. A nil parameter (e.g. bias disabled)
// with an explicit initializer is an argument error.
func applyInit[B tensor.Backend](v any, key string, p *nn.Parameter[B], fanIn, fanOut int) error {
	init, gain, err := resolveInitializer(v, key)
	if err != nil {
		return err
	}
	if init == nil {
		return nil
	}
	if p == nil {
		return &UnsupportedArgumentError{Key: key, Reason: "layer has no such parameter"}
	}

	data := p.Tensor().Data()
	init(data, fanIn, fanOut)
	if gain != 1 {
		for i := range data {
			data[i] *= gain
		}
	}
	return nil
}

// resolveInitializer accepts the three configuration forms: a registry
// name, an nn.Initializer, or an nn.InitSpec. Returns a nil initializer
// when the option is absent or "none".
func resolveInitializer(v any, key string) (nn.Initializer, float32, error) {
	switch spec := v.(type) {
	case nil:
		return nil, 1, nil
	case string:
		if spec == "" || spec == "none" {
			return nil, 1, nil
		}
		fn, ok := nn.LookupInitializer(spec)
		if !ok {
			return nil, 1, &UnsupportedArgumentError{Key: key,
				Reason: fmt.Sprintf("unknown initializer %q (known: %v)", spec, nn.InitializerNames())}
		}
		return fn, 1, nil
	case nn.Initializer:
		return spec, 1, nil
	case func(data []float32, fanIn, fanOut int):
		return spec, 1, nil
	case nn.InitSpec:
		gain := spec.Gain
		if gain == 0 {
			gain = 1
		}
		if spec.Fn != nil {
			return spec.Fn, gain, nil
		}
		fn, _, err := resolveInitializer(spec.Name, key)
		return fn, gain, err
	default:
		return nil, 1, &UnsupportedArgumentError{Key: key,
			Reason: fmt.Sprintf("unsupported initializer form %T", v)}
	}
}

// resolveActivation accepts a registry name or an nn.ActivationFunc.
func resolveActivation(v any) (nn.ActivationFunc, error) {
	switch act := v.(type) {
	case nil:
		return nil, nil
	case string:
		if act == "" || act == "none" {
			return nil, nil
		}
		fn, ok := nn.LookupActivation(act)
		if !ok {
			return nil, &UnsupportedArgumentError{Key: "activation",
				Reason: fmt.Sprintf("unknown activation %q (known: %v)", act, nn.ActivationNames())}
		}
		return fn, nil
	case nn.ActivationFunc:
		return act, nil
	case func(x *tensor.RawTensor, b tensor.Backend) (*tensor.RawTensor, error):
		return act, nil
	default:
		return nil, &UnsupportedArgumentError{Key: "activation",
			Reason: fmt.Sprintf("unsupported activation form %T", v)}
	}
}

// extraBag consumes the passthrough option map key by key so anything
// unrecognized is detectable afterwards.
type extraBag struct {
	values map[string]any
}

func newExtraBag(extra map[string]any) *extraBag {
	bag := &extraBag{values: make(map[string]any, len(extra))}
	for k, v := range extra {
		bag.values[k] = v
	}
	return bag
}

func (b *extraBag) popInt(key string, def int) (int, error) {
	v, ok := b.values[key]
	if !ok {
		return def, nil
	}
	delete(b.values, key)
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	default:
		return 0, &UnsupportedArgumentError{Key: key, Reason: fmt.Sprintf("want int, got %T", v)}
	}
}

func (b *extraBag) popBool(key string, def bool) (bool, error) {
	v, ok := b.values[key]
	if !ok {
		return def, nil
	}
	delete(b.values, key)
	bv, ok := v.(bool)
	if !ok {
		return false, &UnsupportedArgumentError{Key: key, Reason: fmt.Sprintf("want bool, got %T", v)}
	}
	return bv, nil
}

func (b *extraBag) popFloat32(key string, def float32) (float32, error) {
	v, ok := b.values[key]
	if !ok {
		return def, nil
	}
	delete(b.values, key)
	switch f := v.(type) {
	case float32:
		return f, nil
	case float64:
		return float32(f), nil
	case int:
		return float32(f), nil
	default:
		return 0, &UnsupportedArgumentError{Key: key, Reason: fmt.Sprintf("want float, got %T", v)}
	}
}

// leftover returns one remaining (unconsumed) key, or "".
func (b *extraBag) leftover() string {
	for k := range b.values {
		return k
	}
	return ""
}
