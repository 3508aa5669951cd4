package nn

import (
	"fmt"

	"github.com/ember-ml/ember/internal/tensor"
)

// BatchNormBackend is an interface for backends with a fused batch
// normalization kernel.
type BatchNormBackend interface {
	BatchNorm(x, gamma, beta *tensor.RawTensor, eps float32) *tensor.RawTensor
}

// BatchNorm normalizes each channel of a canonical [batch, channel,
// spatial...] tensor using batch statistics:
//
//	y = gamma * (x - mean_c) / sqrt(var_c + eps) + beta
//
// gamma defaults to ones and beta to zeros. With affine disabled the
// layer has no trainable parameters and performs plain standardization.
type BatchNorm[B tensor.Backend] struct {
	numFeatures int
	eps         float32
	affine      bool

	gamma *Parameter[B] // [num_features] or nil
	beta  *Parameter[B] // [num_features] or nil

	backend B
}

// NewBatchNorm creates a batch normalization layer over numFeatures
// channels.
func NewBatchNorm[B tensor.Backend](numFeatures int, eps float32, affine bool, backend B) *BatchNorm[B] {
	if numFeatures <= 0 {
		panic(fmt.Sprintf("batchnorm: invalid feature count %d", numFeatures))
	}
	if eps <= 0 {
		panic(fmt.Sprintf("batchnorm: invalid epsilon %g", eps))
	}

	bn := &BatchNorm[B]{
		numFeatures: numFeatures,
		eps:         eps,
		affine:      affine,
		backend:     backend,
	}
	if affine {
		bn.gamma = NewParameter("gamma", Ones(tensor.Shape{numFeatures}, backend))
		bn.beta = NewParameter("beta", Zeros(tensor.Shape{numFeatures}, backend))
	}
	return bn
}

// Forward normalizes the input per channel.
//
// Input shape: [batch, num_features, spatial...]
// Output shape: same as input.
func (bn *BatchNorm[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	inShape := input.Shape()
	if len(inShape) < 2 {
		panic(fmt.Sprintf("BatchNorm.Forward: expected at least 2D input, got shape %v", inShape))
	}
	if inShape[1] != bn.numFeatures {
		panic(fmt.Sprintf("BatchNorm.Forward: expected %d channels, got %d", bn.numFeatures, inShape[1]))
	}

	backend := input.Backend()
	bnb, ok := any(backend).(BatchNormBackend)
	if !ok {
		panic("BatchNorm: backend must implement the BatchNorm operation")
	}

	var gammaRaw, betaRaw *tensor.RawTensor
	if bn.affine {
		gammaRaw = bn.gamma.Tensor().Raw()
		betaRaw = bn.beta.Tensor().Raw()
	}
	return tensor.New[float32, B](bnb.BatchNorm(input.Raw(), gammaRaw, betaRaw, bn.eps), backend)
}

// Parameters returns [gamma, beta] when affine, otherwise nothing.
func (bn *BatchNorm[B]) Parameters() []*Parameter[B] {
	if bn.affine {
		return []*Parameter[B]{bn.gamma, bn.beta}
	}
	return nil
}

// NumFeatures returns the channel count the layer normalizes over.
func (bn *BatchNorm[B]) NumFeatures() int {
	return bn.numFeatures
}

// Eps returns the numerical stability constant.
func (bn *BatchNorm[B]) Eps() float32 {
	return bn.eps
}

// Gamma returns the scale parameter, or nil when affine is disabled.
func (bn *BatchNorm[B]) Gamma() *Parameter[B] {
	return bn.gamma
}

// Beta returns the shift parameter, or nil when affine is disabled.
func (bn *BatchNorm[B]) Beta() *Parameter[B] {
	return bn.beta
}
