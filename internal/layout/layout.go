// Package layout describes the role of each tensor axis — Batch, Channel,
// or an extra spatial Dimension — and converts between a user-chosen axis
// order and the canonical [B, C, D...] order the layer kernels expect.
//
// A layout string is a permutation pattern over the role alphabet:
//
//	B — the batch axis (exactly one)
//	C — the channel/feature axis (exactly one)
//	D — an extra dimension (zero or more)
//
// Layouts are rank-polymorphic: the final D of a pattern absorbs as many
// trailing extra axes as the tensor rank requires, possibly none. "BCD"
// therefore reads a rank-2 tensor as [batch, channel], a rank-4 tensor as
// [batch, channel, height, width], and so on.
package layout

import (
	"fmt"
	"strings"
)

// Role tags a single tensor axis.
type Role byte

// Axis roles.
const (
	Batch   Role = 'B'
	Channel Role = 'C'
	Dim     Role = 'D'
)

// Canonical is the canonical layout pattern: batch, channel, then all
// extra dimensions.
const Canonical = "BCD"

// InvalidLayoutError reports a malformed layout string or a layout that
// cannot describe a tensor of the observed rank.
type InvalidLayoutError struct {
	Layout string
	Rank   int // -1 when the layout is malformed independent of rank
	Reason string
}

// Error implements the error interface.
func (e *InvalidLayoutError) Error() string {
	if e.Rank >= 0 {
		return fmt.Sprintf("invalid layout %q for rank %d: %s", e.Layout, e.Rank, e.Reason)
	}
	return fmt.Sprintf("invalid layout %q: %s", e.Layout, e.Reason)
}

// Descriptor is the canonical representation of a shape: the batch size,
// the channel count, and the extra dimensions in canonical order.
type Descriptor struct {
	Batch   int
	Channel int
	Dims    []int
}

// Rank returns the total tensor rank the descriptor covers.
func (d Descriptor) Rank() int {
	return 2 + len(d.Dims)
}

// Shape returns the canonical concrete shape [B, C, D...].
func (d Descriptor) Shape() []int {
	shape := make([]int, 0, d.Rank())
	shape = append(shape, d.Batch, d.Channel)
	return append(shape, d.Dims...)
}

// normalize strips whitespace so "BCD D" and "BCDD" read the same.
func normalize(layout string) string {
	return strings.ReplaceAll(layout, " ", "")
}

// parse validates a layout string: exactly one B, exactly one C, any
// number of Ds, nothing else. Spaces are ignored.
func parse(layout string) error {
	if layout == "" {
		return &InvalidLayoutError{Layout: layout, Rank: -1, Reason: "empty layout"}
	}
	var batches, channels int
	for i := 0; i < len(layout); i++ {
		switch Role(layout[i]) {
		case Batch:
			batches++
		case Channel:
			channels++
		case Dim:
		default:
			return &InvalidLayoutError{Layout: layout, Rank: -1,
				Reason: fmt.Sprintf("unrecognized symbol %q (want B, C, or D)", layout[i])}
		}
	}
	if batches != 1 {
		return &InvalidLayoutError{Layout: layout, Rank: -1,
			Reason: fmt.Sprintf("want exactly one B, got %d", batches)}
	}
	if channels != 1 {
		return &InvalidLayoutError{Layout: layout, Rank: -1,
			Reason: fmt.Sprintf("want exactly one C, got %d", channels)}
	}
	return nil
}

// Expand resolves a layout pattern against a concrete rank, returning one
// role per axis. The final D absorbs rank-len(layout)+1 axes (possibly
// zero); every other symbol binds exactly one axis.
func Expand(layout string, rank int) ([]Role, error) {
	layout = normalize(layout)
	if err := parse(layout); err != nil {
		return nil, err
	}
	if rank < 2 {
		return nil, &InvalidLayoutError{Layout: layout, Rank: rank,
			Reason: "rank must be at least 2 (batch and channel axes)"}
	}

	lastD := strings.LastIndexByte(layout, byte(Dim))
	extra := rank - len(layout) // axes beyond a one-symbol-per-axis reading

	if lastD < 0 {
		if extra != 0 {
			return nil, &InvalidLayoutError{Layout: layout, Rank: rank,
				Reason: "layout has no D to absorb extra axes"}
		}
	} else if extra < -1 {
		return nil, &InvalidLayoutError{Layout: layout, Rank: rank,
			Reason: "layout is longer than the tensor rank"}
	}

	roles := make([]Role, 0, rank)
	for i := 0; i < len(layout); i++ {
		r := Role(layout[i])
		if i == lastD {
			// The final D expands to extra+1 axes, which may be zero.
			for k := 0; k < extra+1; k++ {
				roles = append(roles, Dim)
			}
			continue
		}
		roles = append(roles, r)
	}
	if len(roles) != rank {
		return nil, &InvalidLayoutError{Layout: layout, Rank: rank,
			Reason: "layout is longer than the tensor rank"}
	}
	return roles, nil
}

// Permutation returns, for a layout resolved at the given rank, the axis
// permutation perm such that shape[perm[i]] is the i-th canonical axis.
// Canonical order is batch, channel, then the layout's Ds left to right.
func Permutation(layout string, rank int) ([]int, error) {
	roles, err := Expand(layout, rank)
	if err != nil {
		return nil, err
	}

	perm := make([]int, 0, rank)
	batchAt, channelAt := -1, -1
	for i, r := range roles {
		switch r {
		case Batch:
			batchAt = i
		case Channel:
			channelAt = i
		}
	}
	perm = append(perm, batchAt, channelAt)
	for i, r := range roles {
		if r == Dim {
			perm = append(perm, i)
		}
	}
	return perm, nil
}

// ToCanonical interprets a concrete shape under a layout and returns its
// canonical descriptor. Pure function.
func ToCanonical(shape []int, layout string) (Descriptor, error) {
	perm, err := Permutation(layout, len(shape))
	if err != nil {
		return Descriptor{}, err
	}

	desc := Descriptor{
		Batch:   shape[perm[0]],
		Channel: shape[perm[1]],
	}
	for _, ax := range perm[2:] {
		desc.Dims = append(desc.Dims, shape[ax])
	}
	return desc, nil
}

// FromCanonical lays a canonical descriptor back out under the given
// layout, returning the concrete shape. Pure function.
func FromCanonical(desc Descriptor, layout string) ([]int, error) {
	perm, err := Permutation(layout, desc.Rank())
	if err != nil {
		return nil, err
	}

	canonical := desc.Shape()
	shape := make([]int, desc.Rank())
	for i, ax := range perm {
		shape[ax] = canonical[i]
	}
	return shape, nil
}

// ExtractChannel returns the size along the Channel axis of a shape
// interpreted under the given layout.
func ExtractChannel(shape []int, layout string) (int, error) {
	desc, err := ToCanonical(shape, layout)
	if err != nil {
		return 0, err
	}
	return desc.Channel, nil
}

// IsIdentity reports whether converting from this layout to canonical is
// a no-op at the given rank.
func IsIdentity(layout string, rank int) (bool, error) {
	perm, err := Permutation(layout, rank)
	if err != nil {
		return false, err
	}
	for i, ax := range perm {
		if i != ax {
			return false, nil
		}
	}
	return true, nil
}
