package cpu

import (
	"math"
	"testing"

	"github.com/ember-ml/ember/internal/tensor"
)

func fromSlice(t *testing.T, data []float32, shape tensor.Shape) *tensor.Tensor[float32, *CPUBackend] {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, New())
	if err != nil {
		t.Fatal(err)
	}
	return x
}

func assertClose(t *testing.T, got, want []float32, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length %d, want %d", len(got), len(want))
	}
	for i := range got {
		if math.Abs(float64(got[i]-want[i])) > tol {
			t.Errorf("element %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestElementwise(t *testing.T) {
	a := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := fromSlice(t, []float32{4, 3, 2, 1}, tensor.Shape{2, 2})

	assertClose(t, a.Add(b).Data(), []float32{5, 5, 5, 5}, 0)
	assertClose(t, a.Sub(b).Data(), []float32{-3, -1, 1, 3}, 0)
	assertClose(t, a.Mul(b).Data(), []float32{4, 6, 6, 4}, 0)
	assertClose(t, a.Div(b).Data(), []float32{0.25, 2.0 / 3.0, 1.5, 4}, 1e-6)
}

// Binary ops broadcast a trailing [1, n] operand over the batch, the
// pattern the layers use for bias addition.
func TestBroadcastAdd(t *testing.T) {
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	bias := fromSlice(t, []float32{10, 20, 30}, tensor.Shape{1, 3})

	out := x.Add(bias)
	if !out.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("shape %v, want [2 3]", out.Shape())
	}
	assertClose(t, out.Data(), []float32{11, 22, 33, 14, 25, 36}, 0)
}

func TestBroadcastChannelAxis(t *testing.T) {
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, tensor.Shape{1, 2, 2, 2})
	bias := fromSlice(t, []float32{100, 200}, tensor.Shape{1, 2, 1, 1})

	out := x.Add(bias)
	assertClose(t, out.Data(), []float32{101, 102, 103, 104, 205, 206, 207, 208}, 0)
}

func TestMatMul(t *testing.T) {
	a := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := fromSlice(t, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

	out := a.MatMul(b)
	if !out.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("shape %v, want [2 2]", out.Shape())
	}
	assertClose(t, out.Data(), []float32{58, 64, 139, 154}, 1e-5)
}

func TestMatMulShapeMismatchPanics(t *testing.T) {
	a := fromSlice(t, make([]float32, 6), tensor.Shape{2, 3})
	b := fromSlice(t, make([]float32, 8), tensor.Shape{4, 2})

	defer func() {
		if recover() == nil {
			t.Error("expected panic on inner dimension mismatch")
		}
	}()
	a.MatMul(b)
}

func TestTranspose(t *testing.T) {
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	out := x.T()
	if !out.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("shape %v, want [3 2]", out.Shape())
	}
	assertClose(t, out.Data(), []float32{1, 4, 2, 5, 3, 6}, 0)

	// Arbitrary axis permutation on a rank-3 tensor.
	y := fromSlice(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, tensor.Shape{2, 2, 2})
	perm := y.Transpose(2, 0, 1)
	if !perm.Shape().Equal(tensor.Shape{2, 2, 2}) {
		t.Fatalf("shape %v", perm.Shape())
	}
	assertClose(t, perm.Data(), []float32{1, 3, 5, 7, 2, 4, 6, 8}, 0)
}

func TestReshape(t *testing.T) {
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	out := x.Reshape(3, 2)
	if !out.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("shape %v, want [3 2]", out.Shape())
	}
	assertClose(t, out.Data(), x.Data(), 0)
}

func TestReductions(t *testing.T) {
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	sum := x.SumDim(1, false)
	if !sum.Shape().Equal(tensor.Shape{2}) {
		t.Fatalf("sum shape %v, want [2]", sum.Shape())
	}
	assertClose(t, sum.Data(), []float32{6, 15}, 1e-6)

	mean := x.MeanDim(0, true)
	if !mean.Shape().Equal(tensor.Shape{1, 3}) {
		t.Fatalf("mean shape %v, want [1 3]", mean.Shape())
	}
	assertClose(t, mean.Data(), []float32{2.5, 3.5, 4.5}, 1e-6)
}

func TestScalarOps(t *testing.T) {
	x := fromSlice(t, []float32{1, 2, 3}, tensor.Shape{1, 3})

	assertClose(t, x.MulScalar(2).Data(), []float32{2, 4, 6}, 0)
	assertClose(t, x.AddScalar(-1).Data(), []float32{0, 1, 2}, 0)
	assertClose(t, x.Sqrt().Data(), []float32{1, float32(math.Sqrt2), float32(math.Sqrt(3))}, 1e-6)

	e := x.Exp()
	assertClose(t, e.Data(), []float32{
		float32(math.E), float32(math.Exp(2)), float32(math.Exp(3)),
	}, 1e-4)
}
