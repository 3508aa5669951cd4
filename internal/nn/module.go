// Package nn implements the neural network building blocks of the Ember
// framework: the Module interface, trainable Parameters, the named-child
// Container the warm-up trace attaches materialized layers to, the layer
// catalog (Linear, Conv1D/2D/3D, BatchNorm, activations), and the
// initializer and activation registries.
package nn

import (
	"github.com/ember-ml/ember/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Every NN module must implement:
//   - Forward: Compute output from input
//   - Parameters: Return all trainable parameters
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	//
	// The input tensor should have the appropriate canonical shape for
	// this module. For example, Linear expects [batch, in_features].
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters of this module.
	//
	// Returns an empty slice for modules without trainable parameters
	// (e.g., activation functions).
	Parameters() []*Parameter[B]
}
