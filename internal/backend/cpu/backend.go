// Package cpu implements the Ember CPU backend. GEMM goes through
// gonum's BLAS implementation; convolution and normalization kernels are
// plain Go loops parallelized across batch and filter dimensions.
package cpu

import (
	"fmt"

	"github.com/ember-ml/ember/internal/parallel"
	"github.com/ember-ml/ember/internal/tensor"
)

// CPUBackend implements tensor operations on CPU.
type CPUBackend struct {
	device tensor.Device
	pcfg   parallel.Config
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
		pcfg:   parallel.DefaultConfig(),
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("add", a, b,
		func(x, y float32) float32 { return x + y },
		func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("sub", a, b,
		func(x, y float32) float32 { return x - y },
		func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("mul", a, b,
		func(x, y float32) float32 { return x * y },
		func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("div", a, b,
		func(x, y float32) float32 { return x / y },
		func(x, y float64) float64 { return x / y })
}

// binary applies an element-wise binary op with broadcasting.
func (cpu *CPUBackend) binary(
	op string,
	a, b *tensor.RawTensor,
	f32 func(x, y float32) float32,
	f64 func(x, y float64) float64,
) *tensor.RawTensor {
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch %s vs %s", op, a.DType(), b.DType()))
	}

	result, err := tensor.NewRaw(outShape, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", op, err))
	}

	switch a.DType() {
	case tensor.Float32:
		out, av, bv := result.AsFloat32(), a.AsFloat32(), b.AsFloat32()
		if !needsBroadcast {
			for i := range out {
				out[i] = f32(av[i], bv[i])
			}
			return result
		}
		ai := newBroadcastIndexer(a.Shape(), outShape)
		bi := newBroadcastIndexer(b.Shape(), outShape)
		for i := range out {
			out[i] = f32(av[ai.index(i)], bv[bi.index(i)])
		}
	case tensor.Float64:
		out, av, bv := result.AsFloat64(), a.AsFloat64(), b.AsFloat64()
		if !needsBroadcast {
			for i := range out {
				out[i] = f64(av[i], bv[i])
			}
			return result
		}
		ai := newBroadcastIndexer(a.Shape(), outShape)
		bi := newBroadcastIndexer(b.Shape(), outShape)
		for i := range out {
			out[i] = f64(av[ai.index(i)], bv[bi.index(i)])
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, a.DType()))
	}

	return result
}

// broadcastIndexer maps a flat index into the output shape back to the
// flat index of a (possibly smaller) operand shape.
type broadcastIndexer struct {
	outStrides []int
	srcStrides []int // 0 where the source dimension is stretched
}

func newBroadcastIndexer(src, out tensor.Shape) *broadcastIndexer {
	outStrides := out.ComputeStrides()
	srcStrides := make([]int, len(out))
	realStrides := src.ComputeStrides()
	offset := len(out) - len(src)
	for i := range out {
		if i < offset {
			continue // implicit leading 1, stride 0
		}
		if src[i-offset] == 1 && out[i] != 1 {
			continue // stretched, stride 0
		}
		srcStrides[i] = realStrides[i-offset]
	}
	return &broadcastIndexer{outStrides: outStrides, srcStrides: srcStrides}
}

func (bi *broadcastIndexer) index(flat int) int {
	src := 0
	for i, stride := range bi.outStrides {
		coord := flat / stride
		flat -= coord * stride
		src += coord * bi.srcStrides[i]
	}
	return src
}
