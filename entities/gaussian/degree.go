//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2025 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package gaussian

import "github.com/pkg/errors"

// MaxShDegree is the highest spherical harmonics degree the supported
// formats carry.
const MaxShDegree = 3

// ShDegree is a validated spherical harmonics degree in [0, 3].
type ShDegree uint8

// NewShDegree validates deg and fails with ErrDegreeOutOfRange for anything
// outside [0, 3].
func NewShDegree(deg uint8) (ShDegree, error) {
	if deg > MaxShDegree {
		return 0, errors.Wrapf(ErrDegreeOutOfRange, "degree %d", deg)
	}
	return ShDegree(deg), nil
}

// RestCoefficients returns the number of view-dependent SH scalars beyond
// the DC term: 3 * ((deg+1)^2 - 1), i.e. 0, 9, 24 or 45.
func (d ShDegree) RestCoefficients() int {
	n := int(d) + 1
	return 3 * (n*n - 1)
}

// RestTriplets returns the number of RGB coefficient triplets beyond the DC
// term: 0, 3, 8 or 15.
func (d ShDegree) RestTriplets() int {
	return d.RestCoefficients() / 3
}

// DegreeForRestCoefficients maps a declared per-point SH scalar count back
// to its degree. Counts that do not correspond to a whole degree fail with
// ErrDegreeOutOfRange.
func DegreeForRestCoefficients(count int) (ShDegree, error) {
	for d := ShDegree(0); d <= MaxShDegree; d++ {
		if d.RestCoefficients() == count {
			return d, nil
		}
	}
	return 0, errors.Wrapf(ErrDegreeOutOfRange, "%d rest coefficients", count)
}
