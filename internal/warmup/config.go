package warmup

import (
	"github.com/ember-ml/ember/internal/layout"
)

// Config is the per-call configuration of a functional layer call: the
// closed set of first-class options, plus the Extra bag of passthrough
// keys that is validated only at the layer construction boundary.
type Config struct {
	// Name, when set, is used verbatim as the module's full name.
	Name string
	// BaseName overrides the operation kind as the stem for generated
	// names. Ignored when Name is set.
	BaseName string

	// InLayout and OutLayout describe the axis order of the call's input
	// and output tensors. Both default to the canonical "BCD".
	InLayout  string
	OutLayout string

	// Activation is composed after the layer on every forward call.
	// Accepts a registry name (string) or an nn.ActivationFunc; empty or
	// "none" disables it.
	Activation any

	// InitWeight and InitBias override the layer's default parameter
	// initialization. Each accepts a registry name (string), an
	// nn.Initializer, or an nn.InitSpec; empty or "none" keeps the
	// default.
	InitWeight any
	InitBias   any

	// Extra holds passthrough options handed unmodified to the layer
	// constructor. Keys the constructor does not recognize fail with
	// UnsupportedArgumentError.
	Extra map[string]any
}

// Option mutates a Config.
type Option func(*Config)

// newConfig builds the configuration for one functional call.
func newConfig(opts []Option) *Config {
	cfg := &Config{
		InLayout:  layout.Canonical,
		OutLayout: layout.Canonical,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithName sets an explicit module name, bypassing ordinal generation.
func WithName(name string) Option {
	return func(c *Config) { c.Name = name }
}

// WithBaseName sets the stem used for generated names.
func WithBaseName(base string) Option {
	return func(c *Config) { c.BaseName = base }
}

// WithInLayout sets the input axis layout (default "BCD").
func WithInLayout(l string) Option {
	return func(c *Config) { c.InLayout = l }
}

// WithOutLayout sets the output axis layout (default "BCD").
func WithOutLayout(l string) Option {
	return func(c *Config) { c.OutLayout = l }
}

// WithActivation composes an activation after the layer. Accepts a
// registry name or an nn.ActivationFunc.
func WithActivation(v any) Option {
	return func(c *Config) { c.Activation = v }
}

// WithInitWeight overrides weight initialization. Accepts a registry
// name, an nn.Initializer, or an nn.InitSpec.
func WithInitWeight(v any) Option {
	return func(c *Config) { c.InitWeight = v }
}

// WithInitBias overrides bias initialization. Accepts the same forms as
// WithInitWeight.
func WithInitBias(v any) Option {
	return func(c *Config) { c.InitBias = v }
}

// With adds one passthrough option to the Extra bag.
func With(key string, value any) Option {
	return func(c *Config) {
		if c.Extra == nil {
			c.Extra = make(map[string]any)
		}
		c.Extra[key] = value
	}
}
