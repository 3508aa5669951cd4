// Package tensor provides the core tensor types for the Ember framework.
package tensor

// DType is the constraint for tensor element types. The layer catalog
// computes in float32; float64 is carried for double-precision work.
type DType interface {
	~float32 | ~float64
}

// DataType is the runtime tag for a tensor's element type.
type DataType int

// Element types the backends operate on.
const (
	Float32 DataType = iota
	Float64
)

// Size returns the element width in bytes.
func (dt DataType) Size() int {
	switch dt {
	case Float32:
		return 4
	case Float64:
		return 8
	default:
		panic("unknown data type")
	}
}

// String returns the Go name of the element type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

// inferDataType maps a type parameter to its runtime tag.
func inferDataType[T DType](dummy T) DataType {
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	default:
		panic("unsupported type")
	}
}
