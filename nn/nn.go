// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/ember-ml/ember/internal/nn"
	"github.com/ember-ml/ember/internal/tensor"
)

// Module interface defines the common interface for all neural network modules.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter represents a trainable parameter in a neural network.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Container is an ordered table of named child modules. It is the model
// object the warm-up trace attaches materialized layers to.
type Container[B tensor.Backend] = nn.Container[B]

// NewContainer creates an empty container.
//
// Example:
//
//	net := nn.NewContainer[*cpu.Backend]()
//	scope, err := warmup.WarmUp(net, cpu.New(), forward, tensor.Shape{2, 3, 28, 28})
func NewContainer[B tensor.Backend]() *Container[B] {
	return nn.NewContainer[B]()
}

// Layers

// Linear represents a fully connected (dense) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a new linear layer with Xavier initialization.
//
// Example:
//
//	backend := cpu.New()
//	layer := nn.NewLinear(784, 128, true, backend)
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, useBias bool, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, useBias, backend)
}

// Conv represents an N-dimensional convolutional layer (N = 1, 2, or 3).
type Conv[B tensor.Backend] = nn.Conv[B]

// NewConv1D creates a 1D convolution over [batch, channel, length] inputs.
func NewConv1D[B tensor.Backend](inChannels, outChannels, kernelSize, stride, padding int, useBias bool, backend B) *Conv[B] {
	return nn.NewConv1D(inChannels, outChannels, kernelSize, stride, padding, useBias, backend)
}

// NewConv2D creates a 2D convolution over [batch, channel, height, width] inputs.
//
// Example:
//
//	backend := cpu.New()
//	conv := nn.NewConv2D(1, 32, 3, 1, 1, true, backend)  // in=1, out=32, kernel=3, stride=1, padding=1
func NewConv2D[B tensor.Backend](inChannels, outChannels, kernelSize, stride, padding int, useBias bool, backend B) *Conv[B] {
	return nn.NewConv2D(inChannels, outChannels, kernelSize, stride, padding, useBias, backend)
}

// NewConv3D creates a 3D convolution over [batch, channel, depth, height, width] inputs.
func NewConv3D[B tensor.Backend](inChannels, outChannels, kernelSize, stride, padding int, useBias bool, backend B) *Conv[B] {
	return nn.NewConv3D(inChannels, outChannels, kernelSize, stride, padding, useBias, backend)
}

// BatchNorm normalizes each channel using batch statistics.
type BatchNorm[B tensor.Backend] = nn.BatchNorm[B]

// NewBatchNorm creates a batch normalization layer over numFeatures channels.
//
// Example:
//
//	backend := cpu.New()
//	norm := nn.NewBatchNorm(32, 1e-5, true, backend)
func NewBatchNorm[B tensor.Backend](numFeatures int, eps float32, affine bool, backend B) *BatchNorm[B] {
	return nn.NewBatchNorm(numFeatures, eps, affine, backend)
}

// Sequential chains modules, feeding each output into the next module.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a sequential module chain.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// Activations

// ReLU represents the Rectified Linear Unit activation function.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a new ReLU activation layer.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// Sigmoid represents the sigmoid activation function.
type Sigmoid[B tensor.Backend] = nn.Sigmoid[B]

// NewSigmoid creates a new Sigmoid activation layer.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] {
	return nn.NewSigmoid[B]()
}

// Tanh represents the hyperbolic tangent activation function.
type Tanh[B tensor.Backend] = nn.Tanh[B]

// NewTanh creates a new Tanh activation layer.
func NewTanh[B tensor.Backend]() *Tanh[B] {
	return nn.NewTanh[B]()
}

// Registries

// Initializer fills a parameter buffer in place given the layer's fan-in
// and fan-out.
type Initializer = nn.Initializer

// InitSpec pairs an initializer with a gain multiplier.
type InitSpec = nn.InitSpec

// RegisterInitializer adds a named initializer to the registry.
func RegisterInitializer(name string, fn Initializer) {
	nn.RegisterInitializer(name, fn)
}

// LookupInitializer resolves a registered initializer by name.
func LookupInitializer(name string) (Initializer, bool) {
	return nn.LookupInitializer(name)
}

// InitializerNames returns the registered initializer names, sorted.
func InitializerNames() []string {
	return nn.InitializerNames()
}

// ActivationFunc applies an element-wise activation through the backend.
type ActivationFunc = nn.ActivationFunc

// RegisterActivation adds a named activation to the registry.
func RegisterActivation(name string, fn ActivationFunc) {
	nn.RegisterActivation(name, fn)
}

// LookupActivation resolves a registered activation by name.
func LookupActivation(name string) (ActivationFunc, bool) {
	return nn.LookupActivation(name)
}

// ActivationNames returns the registered activation names, sorted.
func ActivationNames() []string {
	return nn.ActivationNames()
}
