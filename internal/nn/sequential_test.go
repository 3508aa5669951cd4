package nn

import (
	"testing"

	"github.com/ember-ml/ember/internal/backend/cpu"
	"github.com/ember-ml/ember/internal/tensor"
)

func TestSequentialForward(t *testing.T) {
	backend := cpu.New()
	layer := NewLinear(3, 2, true, backend)

	// Fixed weights: W = [[1,2,3],[-4,-5,-6]], b = [0.5, 0.5].
	copy(layer.Weight().Tensor().Data(), []float32{1, 2, 3, -4, -5, -6})
	copy(layer.Bias().Tensor().Data(), []float32{0.5, 0.5})

	seq := NewSequential[*cpu.CPUBackend](layer, NewReLU[*cpu.CPUBackend]())

	x, err := tensor.FromSlice([]float32{1, 1, 1}, tensor.Shape{1, 3}, backend)
	if err != nil {
		t.Fatal(err)
	}

	// Linear gives [6.5, -14.5]; relu clamps the negative lane.
	out := seq.Forward(x)
	want := []float32{6.5, 0}
	for i, v := range out.Data() {
		if v != want[i] {
			t.Errorf("out[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestSequentialParameters(t *testing.T) {
	backend := cpu.New()
	seq := NewSequential[*cpu.CPUBackend](
		NewLinear(4, 3, true, backend),
		NewReLU[*cpu.CPUBackend](),
		NewLinear(3, 2, false, backend),
	)

	if got := seq.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}
	// weight+bias from the first linear, weight only from the second.
	if got := len(seq.Parameters()); got != 3 {
		t.Errorf("got %d parameters, want 3", got)
	}
}

func TestSequentialAdd(t *testing.T) {
	backend := cpu.New()
	seq := NewSequential[*cpu.CPUBackend]()
	seq.Add(NewLinear(2, 2, false, backend))
	seq.Add(NewTanh[*cpu.CPUBackend]())

	if got := seq.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}
