package nn

import (
	"testing"

	"github.com/ember-ml/ember/internal/backend/cpu"
	"github.com/ember-ml/ember/internal/tensor"
)

func TestLinearForward(t *testing.T) {
	backend := cpu.New()
	layer := NewLinear(3, 2, true, backend)

	// Fixed weights: W = [[1,2,3],[4,5,6]], b = [10, 20].
	copy(layer.Weight().Tensor().Data(), []float32{1, 2, 3, 4, 5, 6})
	copy(layer.Bias().Tensor().Data(), []float32{10, 20})

	x, err := tensor.FromSlice([]float32{1, 1, 1, 2, 0, 1}, tensor.Shape{2, 3}, backend)
	if err != nil {
		t.Fatal(err)
	}

	out := layer.Forward(x)
	if !out.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("output shape %v, want [2 2]", out.Shape())
	}

	want := []float32{16, 35, 15, 34}
	for i, v := range out.Data() {
		if v != want[i] {
			t.Errorf("out[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestLinearNoBias(t *testing.T) {
	backend := cpu.New()
	layer := NewLinear(4, 2, false, backend)

	if layer.Bias() != nil {
		t.Fatal("expected nil bias")
	}
	if got := len(layer.Parameters()); got != 1 {
		t.Fatalf("got %d parameters, want 1", got)
	}
}

func TestLinearShapeMismatchPanics(t *testing.T) {
	backend := cpu.New()
	layer := NewLinear(3, 2, true, backend)
	x := tensor.Zeros[float32](tensor.Shape{2, 5}, backend)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on feature mismatch")
		}
	}()
	layer.Forward(x)
}
