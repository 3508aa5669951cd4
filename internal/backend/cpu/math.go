package cpu

import (
	"fmt"
	"math"

	"github.com/ember-ml/ember/internal/tensor"
)

// MulScalar multiplies every element by a scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp("mul_scalar", x, scalar,
		func(v, s float32) float32 { return v * s },
		func(v, s float64) float64 { return v * s })
}

// AddScalar adds a scalar to every element.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp("add_scalar", x, scalar,
		func(v, s float32) float32 { return v + s },
		func(v, s float64) float64 { return v + s })
}

func (cpu *CPUBackend) scalarOp(
	op string,
	x *tensor.RawTensor,
	scalar any,
	f32 func(v, s float32) float32,
	f64 func(v, s float64) float64,
) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", op, err))
	}

	switch x.DType() {
	case tensor.Float32:
		s, ok := toFloat64(scalar)
		if !ok {
			panic(fmt.Sprintf("%s: unsupported scalar type %T", op, scalar))
		}
		in, out := x.AsFloat32(), result.AsFloat32()
		for i := range in {
			out[i] = f32(in[i], float32(s))
		}
	case tensor.Float64:
		s, ok := toFloat64(scalar)
		if !ok {
			panic(fmt.Sprintf("%s: unsupported scalar type %T", op, scalar))
		}
		in, out := x.AsFloat64(), result.AsFloat64()
		for i := range in {
			out[i] = f64(in[i], s)
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, x.DType()))
	}

	return result
}

func toFloat64(scalar any) (float64, bool) {
	switch s := scalar.(type) {
	case float32:
		return float64(s), true
	case float64:
		return s, true
	case int:
		return float64(s), true
	case int32:
		return float64(s), true
	case int64:
		return float64(s), true
	default:
		return 0, false
	}
}

// Exp applies the element-wise exponential.
func (cpu *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("exp", x,
		func(v float32) float32 { return float32(math.Exp(float64(v))) },
		math.Exp)
}

// Sqrt applies the element-wise square root.
func (cpu *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("sqrt", x,
		func(v float32) float32 { return float32(math.Sqrt(float64(v))) },
		math.Sqrt)
}

func (cpu *CPUBackend) unary(
	op string,
	x *tensor.RawTensor,
	f32 func(v float32) float32,
	f64 func(v float64) float64,
) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", op, err))
	}

	switch x.DType() {
	case tensor.Float32:
		in, out := x.AsFloat32(), result.AsFloat32()
		for i := range in {
			out[i] = f32(in[i])
		}
	case tensor.Float64:
		in, out := x.AsFloat64(), result.AsFloat64()
		for i := range in {
			out[i] = f64(in[i])
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, x.DType()))
	}

	return result
}

// Reshape returns a view of the tensor under a new shape.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	result, err := t.WithShape(newShape)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	return result
}

// Transpose permutes the tensor's axes. With no axes given, the order is
// reversed.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	rank := len(shape)

	if len(axes) == 0 {
		axes = make([]int, rank)
		for i := range axes {
			axes[i] = rank - 1 - i
		}
	}
	if len(axes) != rank {
		panic(fmt.Sprintf("transpose: expected %d axes for shape %v, got %d", rank, shape, len(axes)))
	}
	seen := make([]bool, rank)
	for _, ax := range axes {
		if ax < 0 || ax >= rank || seen[ax] {
			panic(fmt.Sprintf("transpose: invalid axis permutation %v for rank %d", axes, rank))
		}
		seen[ax] = true
	}

	outShape := make(tensor.Shape, rank)
	for i, ax := range axes {
		outShape[i] = shape[ax]
	}

	result, err := tensor.NewRaw(outShape, t.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("transpose: failed to create result tensor: %v", err))
	}

	inStrides := shape.ComputeStrides()
	outStrides := outShape.ComputeStrides()
	elemSize := t.DType().Size()
	in, out := t.Data(), result.Data()

	n := t.NumElements()
	coords := make([]int, rank)
	for flat := 0; flat < n; flat++ {
		rem := flat
		for i, stride := range outStrides {
			coords[i] = rem / stride
			rem -= coords[i] * stride
		}
		src := 0
		for i, ax := range axes {
			src += coords[i] * inStrides[ax]
		}
		copy(out[flat*elemSize:(flat+1)*elemSize], in[src*elemSize:(src+1)*elemSize])
	}

	return result
}

// SumDim sums along a dimension. Negative dims count from the end.
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduce("sum_dim", x, dim, keepDim, false)
}

// MeanDim averages along a dimension. Negative dims count from the end.
func (cpu *CPUBackend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduce("mean_dim", x, dim, keepDim, true)
}

func (cpu *CPUBackend) reduce(op string, x *tensor.RawTensor, dim int, keepDim, mean bool) *tensor.RawTensor {
	shape := x.Shape()
	rank := len(shape)
	if dim < 0 {
		dim += rank
	}
	if dim < 0 || dim >= rank {
		panic(fmt.Sprintf("%s: dimension %d out of range for shape %v", op, dim, shape))
	}

	outShape := make(tensor.Shape, 0, rank)
	for i, d := range shape {
		switch {
		case i != dim:
			outShape = append(outShape, d)
		case keepDim:
			outShape = append(outShape, 1)
		}
	}
	if len(outShape) == 0 {
		outShape = tensor.Shape{1}
	}

	result, err := tensor.NewRaw(outShape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", op, err))
	}

	outer := 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	size := shape[dim]
	inner := 1
	for i := dim + 1; i < rank; i++ {
		inner *= shape[i]
	}

	switch x.DType() {
	case tensor.Float32:
		in, out := x.AsFloat32(), result.AsFloat32()
		for o := 0; o < outer; o++ {
			for i := 0; i < inner; i++ {
				var sum float32
				for d := 0; d < size; d++ {
					sum += in[(o*size+d)*inner+i]
				}
				if mean {
					sum /= float32(size)
				}
				out[o*inner+i] = sum
			}
		}
	case tensor.Float64:
		in, out := x.AsFloat64(), result.AsFloat64()
		for o := 0; o < outer; o++ {
			for i := 0; i < inner; i++ {
				var sum float64
				for d := 0; d < size; d++ {
					sum += in[(o*size+d)*inner+i]
				}
				if mean {
					sum /= float64(size)
				}
				out[o*inner+i] = sum
			}
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, x.DType()))
	}

	return result
}
