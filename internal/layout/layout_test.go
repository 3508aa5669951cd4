package layout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		name   string
		layout string
		rank   int
		want   []Role
	}{
		{"canonical rank 4", "BCD", 4, []Role{Batch, Channel, Dim, Dim}},
		{"canonical rank 2", "BCD", 2, []Role{Batch, Channel}},
		{"canonical rank 3", "BCD", 3, []Role{Batch, Channel, Dim}},
		{"spaced layout", "BCD D", 4, []Role{Batch, Channel, Dim, Dim}},
		{"dims first", "DBC", 5, []Role{Dim, Dim, Dim, Batch, Channel}},
		{"channels last", "BDC", 4, []Role{Batch, Dim, Dim, Channel}},
		{"no dims", "BC", 2, []Role{Batch, Channel}},
		{"split dims", "DBDC", 5, []Role{Dim, Batch, Dim, Dim, Channel}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roles, err := Expand(tt.layout, tt.rank)
			require.NoError(t, err)
			assert.Equal(t, tt.want, roles)
		})
	}
}

func TestExpandErrors(t *testing.T) {
	tests := []struct {
		name   string
		layout string
		rank   int
	}{
		{"empty", "", 3},
		{"missing channel", "BD", 3},
		{"two channels", "BCC", 3},
		{"two batches", "BBC", 3},
		{"unknown symbol", "BCX", 3},
		{"rank below 2", "BC", 1},
		{"no D to absorb extra axes", "BC", 3},
		{"longer than rank", "BDDC", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Expand(tt.layout, tt.rank)
			require.Error(t, err)

			var layoutErr *InvalidLayoutError
			assert.True(t, errors.As(err, &layoutErr), "want InvalidLayoutError, got %T", err)
		})
	}
}

func TestToCanonical(t *testing.T) {
	desc, err := ToCanonical([]int{2, 3, 8, 9}, "BCD")
	require.NoError(t, err)
	assert.Equal(t, 2, desc.Batch)
	assert.Equal(t, 3, desc.Channel)
	assert.Equal(t, []int{8, 9}, desc.Dims)

	desc, err = ToCanonical([]int{8, 9, 2, 3}, "DBC")
	require.NoError(t, err)
	assert.Equal(t, 2, desc.Batch)
	assert.Equal(t, 3, desc.Channel)
	assert.Equal(t, []int{8, 9}, desc.Dims)
}

func TestFromCanonical(t *testing.T) {
	desc := Descriptor{Batch: 2, Channel: 3, Dims: []int{8, 9}}

	shape, err := FromCanonical(desc, "BCD")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 8, 9}, shape)

	shape, err = FromCanonical(desc, "DBC")
	require.NoError(t, err)
	assert.Equal(t, []int{8, 9, 2, 3}, shape)

	shape, err = FromCanonical(desc, "BDC")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 8, 9, 3}, shape)
}

// Converting through any pair of layouts and back to canonical must be
// the identity on the descriptor.
func TestLayoutRoundTrip(t *testing.T) {
	layouts := []string{"BCD", "BDC", "DBC", "DCB", "CBD", "CDB", "DBDC"}
	desc := Descriptor{Batch: 2, Channel: 5, Dims: []int{7, 11, 13}}

	for _, l1 := range layouts {
		for _, l2 := range layouts {
			s1, err := FromCanonical(desc, l1)
			require.NoError(t, err, "layout %s", l1)

			d1, err := ToCanonical(s1, l1)
			require.NoError(t, err)
			assert.Equal(t, desc, d1, "%s round trip", l1)

			s2, err := FromCanonical(d1, l2)
			require.NoError(t, err)
			d2, err := ToCanonical(s2, l2)
			require.NoError(t, err)
			assert.Equal(t, desc, d2, "%s -> %s round trip", l1, l2)
		}
	}
}

func TestExtractChannel(t *testing.T) {
	ch, err := ExtractChannel([]int{2, 3, 8, 8}, "BCD D")
	require.NoError(t, err)
	assert.Equal(t, 3, ch)

	ch, err = ExtractChannel([]int{4, 10}, "BC")
	require.NoError(t, err)
	assert.Equal(t, 10, ch)

	ch, err = ExtractChannel([]int{8, 8, 2, 3}, "DBC")
	require.NoError(t, err)
	assert.Equal(t, 3, ch)

	_, err = ExtractChannel([]int{2, 3, 8}, "BC")
	require.Error(t, err)
}

func TestIsIdentity(t *testing.T) {
	id, err := IsIdentity("BCD", 4)
	require.NoError(t, err)
	assert.True(t, id)

	id, err = IsIdentity("DBC", 4)
	require.NoError(t, err)
	assert.False(t, id)
}
