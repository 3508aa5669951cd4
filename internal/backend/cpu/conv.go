package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/ember-ml/ember/internal/parallel"
	"github.com/ember-ml/ember/internal/tensor"
)

// Conv1D performs 1D convolution with direct loops.
//
// Input shape:  [N, C_in, L]
// Kernel shape: [C_out, C_in, K]
// Output shape: [N, C_out, (L + 2*padding - K)/stride + 1]
func (cpu *CPUBackend) Conv1D(input, kernel *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	inShape, kShape := convCheck("conv1d", input, kernel, 3)

	n, cIn, l := inShape[0], inShape[1], inShape[2]
	cOut, k := kShape[0], kShape[2]
	outL := convOutSize(l, k, stride, padding)
	if outL <= 0 {
		panic(fmt.Sprintf("conv1d: kernel size %d (stride %d, padding %d) too large for input length %d", k, stride, padding, l))
	}

	result, err := tensor.NewRaw(tensor.Shape{n, cOut, outL}, input.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("conv1d: failed to create result tensor: %v", err))
	}

	in, w, out := input.AsFloat32(), kernel.AsFloat32(), result.AsFloat32()
	parallel.ForBatch(n, cOut, func(b, f int) {
		for ol := 0; ol < outL; ol++ {
			var sum float32
			for c := 0; c < cIn; c++ {
				for ki := 0; ki < k; ki++ {
					il := ol*stride - padding + ki
					if il < 0 || il >= l {
						continue
					}
					sum += in[(b*cIn+c)*l+il] * w[(f*cIn+c)*k+ki]
				}
			}
			out[(b*cOut+f)*outL+ol] = sum
		}
	}, cpu.pcfg)

	return result
}

// Conv2D performs 2D convolution using the im2col algorithm: input
// patches are unrolled into a [C_in*KH*KW, outH*outW] matrix per batch
// element and the convolution becomes one SGEMM against the reshaped
// kernel.
//
// Input shape:  [N, C_in, H, W]
// Kernel shape: [C_out, C_in, KH, KW]
// Output shape: [N, C_out, outH, outW]
func (cpu *CPUBackend) Conv2D(input, kernel *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	inShape, kShape := convCheck("conv2d", input, kernel, 4)

	n, cIn, h, w := inShape[0], inShape[1], inShape[2], inShape[3]
	cOut, kh, kw := kShape[0], kShape[2], kShape[3]
	outH := convOutSize(h, kh, stride, padding)
	outW := convOutSize(w, kw, stride, padding)
	if outH <= 0 || outW <= 0 {
		panic(fmt.Sprintf("conv2d: kernel %dx%d (stride %d, padding %d) too large for input %dx%d", kh, kw, stride, padding, h, w))
	}

	result, err := tensor.NewRaw(tensor.Shape{n, cOut, outH, outW}, input.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("conv2d: failed to create result tensor: %v", err))
	}

	in, wData, out := input.AsFloat32(), kernel.AsFloat32(), result.AsFloat32()
	patchLen := cIn * kh * kw
	outArea := outH * outW

	wm := blas32.General{Rows: cOut, Cols: patchLen, Stride: patchLen, Data: wData}

	parallel.For(n, func(b int) {
		cols := make([]float32, patchLen*outArea)
		for c := 0; c < cIn; c++ {
			for ki := 0; ki < kh; ki++ {
				for kj := 0; kj < kw; kj++ {
					row := (c*kh+ki)*kw + kj
					for oi := 0; oi < outH; oi++ {
						ih := oi*stride - padding + ki
						if ih < 0 || ih >= h {
							continue
						}
						for oj := 0; oj < outW; oj++ {
							iw := oj*stride - padding + kj
							if iw < 0 || iw >= w {
								continue
							}
							cols[row*outArea+oi*outW+oj] = in[((b*cIn+c)*h+ih)*w+iw]
						}
					}
				}
			}
		}
		cm := blas32.General{Rows: patchLen, Cols: outArea, Stride: outArea, Data: cols}
		om := blas32.General{Rows: cOut, Cols: outArea, Stride: outArea, Data: out[b*cOut*outArea : (b+1)*cOut*outArea]}
		blas32.Gemm(blas.NoTrans, blas.NoTrans, 1, wm, cm, 0, om)
	}, parallel.Config{Enabled: cpu.pcfg.Enabled, NumWorkers: cpu.pcfg.NumWorkers, MinChunkSize: 1})

	return result
}

// Conv3D performs 3D convolution with direct loops.
//
// Input shape:  [N, C_in, D, H, W]
// Kernel shape: [C_out, C_in, KD, KH, KW]
// Output shape: [N, C_out, outD, outH, outW]
func (cpu *CPUBackend) Conv3D(input, kernel *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	inShape, kShape := convCheck("conv3d", input, kernel, 5)

	n, cIn := inShape[0], inShape[1]
	d, h, w := inShape[2], inShape[3], inShape[4]
	cOut := kShape[0]
	kd, kh, kw := kShape[2], kShape[3], kShape[4]
	outD := convOutSize(d, kd, stride, padding)
	outH := convOutSize(h, kh, stride, padding)
	outW := convOutSize(w, kw, stride, padding)
	if outD <= 0 || outH <= 0 || outW <= 0 {
		panic(fmt.Sprintf("conv3d: kernel %dx%dx%d (stride %d, padding %d) too large for input %dx%dx%d",
			kd, kh, kw, stride, padding, d, h, w))
	}

	result, err := tensor.NewRaw(tensor.Shape{n, cOut, outD, outH, outW}, input.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("conv3d: failed to create result tensor: %v", err))
	}

	in, wData, out := input.AsFloat32(), kernel.AsFloat32(), result.AsFloat32()
	parallel.ForBatch(n, cOut, func(b, f int) {
		for od := 0; od < outD; od++ {
			for oi := 0; oi < outH; oi++ {
				for oj := 0; oj < outW; oj++ {
					var sum float32
					for c := 0; c < cIn; c++ {
						for zi := 0; zi < kd; zi++ {
							id := od*stride - padding + zi
							if id < 0 || id >= d {
								continue
							}
							for ki := 0; ki < kh; ki++ {
								ih := oi*stride - padding + ki
								if ih < 0 || ih >= h {
									continue
								}
								for kj := 0; kj < kw; kj++ {
									iw := oj*stride - padding + kj
									if iw < 0 || iw >= w {
										continue
									}
									sum += in[(((b*cIn+c)*d+id)*h+ih)*w+iw] *
										wData[(((f*cIn+c)*kd+zi)*kh+ki)*kw+kj]
								}
							}
						}
					}
					out[(((b*cOut+f)*outD+od)*outH+oi)*outW+oj] = sum
				}
			}
		}
	}, cpu.pcfg)

	return result
}

// convCheck validates common convolution preconditions and returns the
// operand shapes.
func convCheck(op string, input, kernel *tensor.RawTensor, rank int) (tensor.Shape, tensor.Shape) {
	inShape := input.Shape()
	kShape := kernel.Shape()

	if len(inShape) != rank {
		panic(fmt.Sprintf("%s: input must be %dD, got %dD", op, rank, len(inShape)))
	}
	if len(kShape) != rank {
		panic(fmt.Sprintf("%s: kernel must be %dD, got %dD", op, rank, len(kShape)))
	}
	if inShape[1] != kShape[1] {
		panic(fmt.Sprintf("%s: input channels %d != kernel channels %d", op, inShape[1], kShape[1]))
	}
	if input.DType() != tensor.Float32 || kernel.DType() != tensor.Float32 {
		panic(fmt.Sprintf("%s: only float32 is supported, got %s/%s", op, input.DType(), kernel.DType()))
	}
	return inShape, kShape
}

func convOutSize(in, kernel, stride, padding int) int {
	return (in+2*padding-kernel)/stride + 1
}
