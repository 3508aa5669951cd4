package tensor

import "math/rand"

// Zeros creates a tensor filled with zeros.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy), b.Device())
	if err != nil {
		panic(err)
	}
	// NewRaw zero-initializes.
	return New[T, B](raw, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return Full(shape, T(1), b)
}

// Full creates a tensor filled with the given value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Randn creates a float tensor with values drawn from N(0, 1).
// Only float32 and float64 element types are supported.
func Randn[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	var dummy T
	switch any(dummy).(type) {
	case float32:
		f := any(data).([]float32)
		for i := range f {
			//nolint:gosec // math/rand is fine for weight initialization
			f[i] = float32(rand.NormFloat64())
		}
	case float64:
		f := any(data).([]float64)
		for i := range f {
			//nolint:gosec // math/rand is fine for weight initialization
			f[i] = rand.NormFloat64()
		}
	default:
		panic("Randn: only float32 and float64 are supported")
	}
	return t
}

// Rand creates a float tensor with values drawn uniformly from [0, 1).
// Only float32 and float64 element types are supported.
func Rand[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	var dummy T
	switch any(dummy).(type) {
	case float32:
		f := any(data).([]float32)
		for i := range f {
			//nolint:gosec // math/rand is fine for weight initialization
			f[i] = rand.Float32()
		}
	case float64:
		f := any(data).([]float64)
		for i := range f {
			//nolint:gosec // math/rand is fine for weight initialization
			f[i] = rand.Float64()
		}
	default:
		panic("Rand: only float32 and float64 are supported")
	}
	return t
}
