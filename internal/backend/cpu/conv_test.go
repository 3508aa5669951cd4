package cpu

import (
	"testing"

	"github.com/ember-ml/ember/internal/tensor"
)

func TestConv2DKnownValues(t *testing.T) {
	// Single channel, identity-corner kernel: picks the top-left element
	// of each 2x2 window.
	input := fromSlice(t, []float32{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	}, tensor.Shape{1, 1, 3, 3})
	kernel := fromSlice(t, []float32{1, 0, 0, 0}, tensor.Shape{1, 1, 2, 2})

	out := input.Conv2D(kernel, 1, 0)
	if !out.Shape().Equal(tensor.Shape{1, 1, 2, 2}) {
		t.Fatalf("shape %v, want [1 1 2 2]", out.Shape())
	}
	assertClose(t, out.Data(), []float32{1, 2, 4, 5}, 1e-6)
}

func TestConv2DMultiChannel(t *testing.T) {
	// Two input channels summed by an all-ones kernel into one output
	// channel.
	input := fromSlice(t, []float32{
		1, 2, 3, 4, // channel 0
		10, 20, 30, 40, // channel 1
	}, tensor.Shape{1, 2, 2, 2})
	kernel := fromSlice(t, []float32{1, 1, 1, 1, 1, 1, 1, 1}, tensor.Shape{1, 2, 2, 2})

	out := input.Conv2D(kernel, 1, 0)
	if !out.Shape().Equal(tensor.Shape{1, 1, 1, 1}) {
		t.Fatalf("shape %v, want [1 1 1 1]", out.Shape())
	}
	assertClose(t, out.Data(), []float32{110}, 1e-5)
}

func TestConv2DPadding(t *testing.T) {
	input := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 1, 2, 2})
	kernel := fromSlice(t, []float32{1}, tensor.Shape{1, 1, 1, 1})

	out := input.Conv2D(kernel, 1, 1)
	if !out.Shape().Equal(tensor.Shape{1, 1, 4, 4}) {
		t.Fatalf("shape %v, want [1 1 4 4]", out.Shape())
	}
	assertClose(t, out.Data(), []float32{
		0, 0, 0, 0,
		0, 1, 2, 0,
		0, 3, 4, 0,
		0, 0, 0, 0,
	}, 0)
}

func TestConv2DStride(t *testing.T) {
	input := fromSlice(t, []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}, tensor.Shape{1, 1, 4, 4})
	kernel := fromSlice(t, []float32{1, 0, 0, 0}, tensor.Shape{1, 1, 2, 2})

	out := input.Conv2D(kernel, 2, 0)
	if !out.Shape().Equal(tensor.Shape{1, 1, 2, 2}) {
		t.Fatalf("shape %v, want [1 1 2 2]", out.Shape())
	}
	assertClose(t, out.Data(), []float32{1, 3, 9, 11}, 1e-6)
}

func TestConv1DKnownValues(t *testing.T) {
	input := fromSlice(t, []float32{1, 2, 4, 8}, tensor.Shape{1, 1, 4})
	kernel := fromSlice(t, []float32{1, -1}, tensor.Shape{1, 1, 2})

	out := input.Conv1D(kernel, 1, 0)
	if !out.Shape().Equal(tensor.Shape{1, 1, 3}) {
		t.Fatalf("shape %v, want [1 1 3]", out.Shape())
	}
	assertClose(t, out.Data(), []float32{-1, -2, -4}, 1e-6)
}

func TestConv3DKnownValues(t *testing.T) {
	// 2x2x2 volume of ones; all-ones 2x2x2 kernel sums the full volume.
	input := fromSlice(t, []float32{1, 1, 1, 1, 1, 1, 1, 1}, tensor.Shape{1, 1, 2, 2, 2})
	kernel := fromSlice(t, []float32{1, 1, 1, 1, 1, 1, 1, 1}, tensor.Shape{1, 1, 2, 2, 2})

	out := input.Conv3D(kernel, 1, 0)
	if !out.Shape().Equal(tensor.Shape{1, 1, 1, 1, 1}) {
		t.Fatalf("shape %v, want [1 1 1 1 1]", out.Shape())
	}
	assertClose(t, out.Data(), []float32{8}, 1e-6)
}

func TestConvChannelMismatchPanics(t *testing.T) {
	input := fromSlice(t, make([]float32, 2*3*4*4), tensor.Shape{2, 3, 4, 4})
	kernel := fromSlice(t, make([]float32, 8*4*2*2), tensor.Shape{8, 4, 2, 2})

	defer func() {
		if recover() == nil {
			t.Error("expected panic on channel mismatch")
		}
	}()
	input.Conv2D(kernel, 1, 0)
}

func TestBatchNormKernel(t *testing.T) {
	backend := New()
	x := fromSlice(t, []float32{2, 4, 6, 8}, tensor.Shape{4, 1})

	out := backend.BatchNorm(x.Raw(), nil, nil, 1e-5)
	data := out.AsFloat32()

	// mean 5, variance 5: x standardizes to (x-5)/sqrt(5).
	assertClose(t, data, []float32{-1.3416, -0.4472, 0.4472, 1.3416}, 1e-3)
}
