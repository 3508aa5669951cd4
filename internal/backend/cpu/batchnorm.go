package cpu

import (
	"fmt"
	"math"

	"github.com/ember-ml/ember/internal/tensor"
)

// BatchNorm normalizes each channel of a canonical [N, C, spatial...]
// tensor using batch statistics:
//
//	y = gamma * (x - mean_c) / sqrt(var_c + eps) + beta
//
// gamma and beta have shape [C]; either may be nil, in which case the
// affine step is skipped for that term. Mean and variance are computed
// over the batch and all spatial positions per channel.
func (cpu *CPUBackend) BatchNorm(x, gamma, beta *tensor.RawTensor, eps float32) *tensor.RawTensor {
	shape := x.Shape()
	if len(shape) < 2 {
		panic(fmt.Sprintf("batch_norm: input must be at least 2D [N, C, ...], got shape %v", shape))
	}
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("batch_norm: only float32 is supported, got %s", x.DType()))
	}

	n, c := shape[0], shape[1]
	inner := 1
	for _, d := range shape[2:] {
		inner *= d
	}

	if gamma != nil && gamma.NumElements() != c {
		panic(fmt.Sprintf("batch_norm: gamma has %d elements, want %d", gamma.NumElements(), c))
	}
	if beta != nil && beta.NumElements() != c {
		panic(fmt.Sprintf("batch_norm: beta has %d elements, want %d", beta.NumElements(), c))
	}

	result, err := tensor.NewRaw(shape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("batch_norm: failed to create result tensor: %v", err))
	}

	in, out := x.AsFloat32(), result.AsFloat32()
	count := float64(n * inner)

	for ch := 0; ch < c; ch++ {
		var sum, sumSq float64
		for b := 0; b < n; b++ {
			base := (b*c + ch) * inner
			for i := 0; i < inner; i++ {
				v := float64(in[base+i])
				sum += v
				sumSq += v * v
			}
		}
		mean := sum / count
		variance := sumSq/count - mean*mean
		invStd := float32(1 / math.Sqrt(variance+float64(eps)))

		scale, shift := invStd, float32(-mean)*invStd
		if gamma != nil {
			g := gamma.AsFloat32()[ch]
			scale *= g
			shift *= g
		}
		if beta != nil {
			shift += beta.AsFloat32()[ch]
		}

		for b := 0; b < n; b++ {
			base := (b*c + ch) * inner
			for i := 0; i < inner; i++ {
				out[base+i] = in[base+i]*scale + shift
			}
		}
	}

	return result
}
