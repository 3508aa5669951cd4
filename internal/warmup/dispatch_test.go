package warmup

import (
	"errors"
	"testing"
)

func TestSelectVariant(t *testing.T) {
	tests := []struct {
		family string
		rank   int
		want   Variant
	}{
		{"conv", 3, VariantConv1D},
		{"conv", 4, VariantConv2D},
		{"conv", 5, VariantConv3D},
		{"linear", 2, VariantLinear},
		{"batchnorm", 3, VariantBatchNorm1D},
		{"batchnorm", 4, VariantBatchNorm2D},
		{"batchnorm", 5, VariantBatchNorm3D},
	}

	for _, tt := range tests {
		got, err := SelectVariant(tt.family, tt.rank)
		if err != nil {
			t.Fatalf("SelectVariant(%q, %d): %v", tt.family, tt.rank, err)
		}
		if got != tt.want {
			t.Errorf("SelectVariant(%q, %d) = %q, want %q", tt.family, tt.rank, got, tt.want)
		}
	}
}

func TestSelectVariantUnsupported(t *testing.T) {
	tests := []struct {
		family string
		rank   int
	}{
		{"conv", 2},
		{"conv", 6},
		{"conv", 1},
		{"linear", 3},
		{"batchnorm", 2},
		{"pool", 4},
	}

	for _, tt := range tests {
		_, err := SelectVariant(tt.family, tt.rank)
		if err == nil {
			t.Fatalf("SelectVariant(%q, %d): expected error", tt.family, tt.rank)
		}
		var rankErr *UnsupportedRankError
		if !errors.As(err, &rankErr) {
			t.Fatalf("SelectVariant(%q, %d): want UnsupportedRankError, got %T", tt.family, tt.rank, err)
		}
		if rankErr.Family != tt.family || rankErr.Rank != tt.rank {
			t.Errorf("error carries family=%q rank=%d, want %q/%d",
				rankErr.Family, rankErr.Rank, tt.family, tt.rank)
		}
	}
}
