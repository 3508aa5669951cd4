package warmup

// Variant identifies the concrete backend operation chosen for a
// shape-polymorphic operation family at an observed rank.
type Variant string

// Concrete operation variants.
const (
	VariantConv1D Variant = "conv1d"
	VariantConv2D Variant = "conv2d"
	VariantConv3D Variant = "conv3d"

	VariantLinear Variant = "linear"

	VariantBatchNorm1D Variant = "batchnorm1d"
	VariantBatchNorm2D Variant = "batchnorm2d"
	VariantBatchNorm3D Variant = "batchnorm3d"
)

// families maps operation family -> spatial dimension count -> variant.
// Spatial dims = observed rank minus the fixed batch and channel axes.
var families = map[string]map[int]Variant{
	"conv": {
		1: VariantConv1D,
		2: VariantConv2D,
		3: VariantConv3D,
	},
	"linear": {
		0: VariantLinear,
	},
	"batchnorm": {
		1: VariantBatchNorm1D,
		2: VariantBatchNorm2D,
		3: VariantBatchNorm3D,
	},
}

// SelectVariant picks the concrete operation for an operation family
// given the observed input rank. Returns UnsupportedRankError when the
// family has no variant for that rank (including unknown families).
func SelectVariant(family string, rank int) (Variant, error) {
	variants, ok := families[family]
	if !ok {
		return "", &UnsupportedRankError{Family: family, Rank: rank}
	}
	spatial := rank - 2
	if spatial < 0 {
		return "", &UnsupportedRankError{Family: family, Rank: rank}
	}
	v, ok := variants[spatial]
	if !ok {
		return "", &UnsupportedRankError{Family: family, Rank: rank}
	}
	return v, nil
}
