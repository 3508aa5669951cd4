package nn

import (
	"fmt"

	"github.com/ember-ml/ember/internal/tensor"
)

// Conv is an N-dimensional convolutional layer (N = 1, 2, or 3) over
// canonical [batch, channel, spatial...] inputs.
//
// Weight shape: [out_channels, in_channels, kernel^N]
// Bias shape:   [out_channels]
//
// Weights default to Xavier/Glorot initialization with
// fanIn = in_channels * kernel^N and fanOut = out_channels * kernel^N;
// biases default to zeros.
type Conv[B tensor.Backend] struct {
	spatial     int // 1, 2, or 3
	inChannels  int
	outChannels int
	kernelSize  int
	stride      int
	padding     int

	weight *Parameter[B]
	bias   *Parameter[B] // nil when the layer has no bias

	backend B
}

// NewConv1D creates a 1D convolution over [batch, channel, length] inputs.
func NewConv1D[B tensor.Backend](inChannels, outChannels, kernelSize, stride, padding int, useBias bool, backend B) *Conv[B] {
	return newConv(1, inChannels, outChannels, kernelSize, stride, padding, useBias, backend)
}

// NewConv2D creates a 2D convolution over [batch, channel, height, width] inputs.
func NewConv2D[B tensor.Backend](inChannels, outChannels, kernelSize, stride, padding int, useBias bool, backend B) *Conv[B] {
	return newConv(2, inChannels, outChannels, kernelSize, stride, padding, useBias, backend)
}

// NewConv3D creates a 3D convolution over [batch, channel, depth, height, width] inputs.
func NewConv3D[B tensor.Backend](inChannels, outChannels, kernelSize, stride, padding int, useBias bool, backend B) *Conv[B] {
	return newConv(3, inChannels, outChannels, kernelSize, stride, padding, useBias, backend)
}

func newConv[B tensor.Backend](spatial, inChannels, outChannels, kernelSize, stride, padding int, useBias bool, backend B) *Conv[B] {
	if inChannels <= 0 || outChannels <= 0 {
		panic(fmt.Sprintf("conv%dd: invalid channels in=%d, out=%d", spatial, inChannels, outChannels))
	}
	if kernelSize <= 0 {
		panic(fmt.Sprintf("conv%dd: invalid kernel size %d", spatial, kernelSize))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("conv%dd: invalid stride %d", spatial, stride))
	}
	if padding < 0 {
		panic(fmt.Sprintf("conv%dd: invalid padding %d", spatial, padding))
	}

	weightShape := tensor.Shape{outChannels, inChannels}
	kernelVolume := 1
	for i := 0; i < spatial; i++ {
		weightShape = append(weightShape, kernelSize)
		kernelVolume *= kernelSize
	}

	fanIn := inChannels * kernelVolume
	fanOut := outChannels * kernelVolume
	weight := NewParameter("weight", Xavier(fanIn, fanOut, weightShape, backend))

	var bias *Parameter[B]
	if useBias {
		bias = NewParameter("bias", Zeros(tensor.Shape{outChannels}, backend))
	}

	return &Conv[B]{
		spatial:     spatial,
		inChannels:  inChannels,
		outChannels: outChannels,
		kernelSize:  kernelSize,
		stride:      stride,
		padding:     padding,
		weight:      weight,
		bias:        bias,
		backend:     backend,
	}
}

// Forward convolves the input with the layer's kernel and adds the bias.
//
// Input shape: [batch, in_channels, spatial...]
// Output shape: [batch, out_channels, out_spatial...]
func (c *Conv[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	inShape := input.Shape()
	wantRank := 2 + c.spatial
	if len(inShape) != wantRank {
		panic(fmt.Sprintf("Conv%dD.Forward: expected %dD input, got shape %v", c.spatial, wantRank, inShape))
	}
	if inShape[1] != c.inChannels {
		panic(fmt.Sprintf("Conv%dD.Forward: expected %d input channels, got %d", c.spatial, c.inChannels, inShape[1]))
	}

	var output *tensor.Tensor[float32, B]
	switch c.spatial {
	case 1:
		output = input.Conv1D(c.weight.Tensor(), c.stride, c.padding)
	case 2:
		output = input.Conv2D(c.weight.Tensor(), c.stride, c.padding)
	case 3:
		output = input.Conv3D(c.weight.Tensor(), c.stride, c.padding)
	default:
		panic(fmt.Sprintf("Conv.Forward: unsupported spatial dims %d", c.spatial))
	}

	if c.bias != nil {
		// Reshape bias to [1, out_channels, 1...] for broadcasting.
		biasShape := make([]int, wantRank)
		for i := range biasShape {
			biasShape[i] = 1
		}
		biasShape[1] = c.outChannels
		output = output.Add(c.bias.Tensor().Reshape(biasShape...))
	}

	return output
}

// Parameters returns [weight, bias] if bias is present, otherwise [weight].
func (c *Conv[B]) Parameters() []*Parameter[B] {
	if c.bias != nil {
		return []*Parameter[B]{c.weight, c.bias}
	}
	return []*Parameter[B]{c.weight}
}

// SpatialDims returns the number of spatial dimensions (1, 2, or 3).
func (c *Conv[B]) SpatialDims() int {
	return c.spatial
}

// InChannels returns the input channel count.
func (c *Conv[B]) InChannels() int {
	return c.inChannels
}

// OutChannels returns the output channel count.
func (c *Conv[B]) OutChannels() int {
	return c.outChannels
}

// KernelSize returns the kernel size per spatial dimension.
func (c *Conv[B]) KernelSize() int {
	return c.kernelSize
}

// Weight returns the weight parameter.
func (c *Conv[B]) Weight() *Parameter[B] {
	return c.weight
}

// Bias returns the bias parameter, or nil when the layer has no bias.
func (c *Conv[B]) Bias() *Parameter[B] {
	return c.bias
}
