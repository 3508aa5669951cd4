package warmup

import (
	"errors"
	"testing"

	"github.com/ember-ml/ember/internal/backend/cpu"
	"github.com/ember-ml/ember/internal/nn"
	"github.com/ember-ml/ember/internal/tensor"
)

func TestMaterializeConv(t *testing.T) {
	backend := cpu.New()
	cfg := &Config{Extra: map[string]any{"stride": 2, "padding": 1}}

	m, err := materialize("conv", VariantConv2D, ShapeInfo{InChannels: 3, SpatialDims: 2},
		[]int{16, 3}, cfg, backend)
	if err != nil {
		t.Fatal(err)
	}

	conv, ok := m.Layer().(*nn.Conv[*cpu.CPUBackend])
	if !ok {
		t.Fatalf("layer is %T, want *nn.Conv", m.Layer())
	}
	if conv.InChannels() != 3 || conv.OutChannels() != 16 || conv.KernelSize() != 3 {
		t.Errorf("conv got in=%d out=%d k=%d", conv.InChannels(), conv.OutChannels(), conv.KernelSize())
	}
	wantWeight := tensor.Shape{16, 3, 3, 3}
	if !conv.Weight().Tensor().Shape().Equal(wantWeight) {
		t.Errorf("weight shape %v, want %v", conv.Weight().Tensor().Shape(), wantWeight)
	}
}

func TestMaterializeSizeArgValidation(t *testing.T) {
	backend := cpu.New()
	tests := []struct {
		kind    string
		variant Variant
		sizes   []int
	}{
		{"conv", VariantConv2D, []int{16}},
		{"linear", VariantLinear, nil},
		{"batchnorm", VariantBatchNorm1D, []int{4}},
	}

	for _, tt := range tests {
		_, err := materialize(tt.kind, tt.variant, ShapeInfo{InChannels: 3, SpatialDims: 1},
			tt.sizes, &Config{}, backend)
		if err == nil {
			t.Errorf("%s with sizes %v: expected error", tt.kind, tt.sizes)
		}
	}
}

func TestMaterializeWrongOptionType(t *testing.T) {
	backend := cpu.New()
	cfg := &Config{Extra: map[string]any{"stride": "two"}}

	_, err := materialize("conv", VariantConv2D, ShapeInfo{InChannels: 3, SpatialDims: 2},
		[]int{16, 3}, cfg, backend)
	var arg *UnsupportedArgumentError
	if !errors.As(err, &arg) {
		t.Fatalf("want UnsupportedArgumentError, got %T (%v)", err, err)
	}
	if arg.Key != "stride" {
		t.Errorf("error key %q, want stride", arg.Key)
	}
}

// An explicit bias initializer on a bias-less layer is an argument
// error, not a silent no-op.
func TestMaterializeInitWithoutParameter(t *testing.T) {
	backend := cpu.New()
	cfg := &Config{
		InitBias: "ones",
		Extra:    map[string]any{"bias": false},
	}

	_, err := materialize("linear", VariantLinear, ShapeInfo{InChannels: 3},
		[]int{4}, cfg, backend)
	var arg *UnsupportedArgumentError
	if !errors.As(err, &arg) {
		t.Fatalf("want UnsupportedArgumentError, got %T (%v)", err, err)
	}
	if arg.Key != "init_bias" {
		t.Errorf("error key %q, want init_bias", arg.Key)
	}
}

func TestResolveInitializerForms(t *testing.T) {
	for _, v := range []any{nil, "", "none"} {
		init, _, err := resolveInitializer(v, "init_weight")
		if err != nil || init != nil {
			t.Errorf("form %v: want nil initializer, got %v (%v)", v, init, err)
		}
	}

	init, gain, err := resolveInitializer("ones", "init_weight")
	if err != nil || init == nil || gain != 1 {
		t.Fatalf("named form: init=%v gain=%v err=%v", init, gain, err)
	}

	init, gain, err = resolveInitializer(nn.InitSpec{Name: "ones", Gain: 3}, "init_weight")
	if err != nil || init == nil || gain != 3 {
		t.Fatalf("spec form: init=%v gain=%v err=%v", init, gain, err)
	}

	// Fn wins over Name inside a spec.
	called := false
	spec := nn.InitSpec{
		Name: "does_not_exist",
		Fn:   func(data []float32, _, _ int) { called = true },
	}
	init, _, err = resolveInitializer(spec, "init_weight")
	if err != nil {
		t.Fatal(err)
	}
	init(nil, 0, 0)
	if !called {
		t.Error("spec Fn was not used")
	}
}

func TestResolveActivationForms(t *testing.T) {
	for _, v := range []any{nil, "", "none"} {
		act, err := resolveActivation(v)
		if err != nil || act != nil {
			t.Errorf("form %v: want nil activation, got %v (%v)", v, act, err)
		}
	}

	act, err := resolveActivation("relu")
	if err != nil || act == nil {
		t.Fatalf("named form: act=%v err=%v", act, err)
	}

	custom := func(x *tensor.RawTensor, b tensor.Backend) (*tensor.RawTensor, error) {
		return x, nil
	}
	act, err = resolveActivation(nn.ActivationFunc(custom))
	if err != nil || act == nil {
		t.Fatalf("func form: act=%v err=%v", act, err)
	}

	if _, err := resolveActivation(7); err == nil {
		t.Error("numeric activation form: expected error")
	}
}

func TestExtraBagLeftover(t *testing.T) {
	bag := newExtraBag(map[string]any{"stride": 1, "dilation": 2})

	if _, err := bag.popInt("stride", 1); err != nil {
		t.Fatal(err)
	}
	if key := bag.leftover(); key != "dilation" {
		t.Errorf("leftover = %q, want dilation", key)
	}

	bag = newExtraBag(nil)
	if key := bag.leftover(); key != "" {
		t.Errorf("empty bag leftover = %q", key)
	}
}
