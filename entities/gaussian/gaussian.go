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

// Package gaussian holds the canonical in-memory representation of a 3D
// Gaussian splat. Every on-disk format supported by this module converts to
// and from this layout.
package gaussian

import "math"

// MaxShTriplets is the number of view-dependent spherical harmonics triplets
// at degree 3, the highest degree the supported formats carry.
const MaxShTriplets = 15

// Gaussian is one splat of the point cloud. SH always holds the full
// degree-3 block; coefficients beyond the declared degree of the source are
// zero.
type Gaussian struct {
	Position [3]float32
	Rotation [4]float32 // unit quaternion, x y z w
	Scale    [3]float32 // linear per-axis scale
	Color    [4]uint8   // RGBA, alpha already sigmoid-activated
	SH       [MaxShTriplets][3]float32
}

// PackedColor returns the RGBA color packed little-endian into one 32-bit
// word, the layout the GPU-facing byte serialization uses.
func (g *Gaussian) PackedColor() uint32 {
	return uint32(g.Color[0]) |
		uint32(g.Color[1])<<8 |
		uint32(g.Color[2])<<16 |
		uint32(g.Color[3])<<24
}

// SetPackedColor is the inverse of PackedColor.
func (g *Gaussian) SetPackedColor(c uint32) {
	g.Color[0] = uint8(c)
	g.Color[1] = uint8(c >> 8)
	g.Color[2] = uint8(c >> 16)
	g.Color[3] = uint8(c >> 24)
}

// NormalizeRotation scales the quaternion to unit length. A zero quaternion
// is replaced by the identity rotation.
func (g *Gaussian) NormalizeRotation() {
	x := float64(g.Rotation[0])
	y := float64(g.Rotation[1])
	z := float64(g.Rotation[2])
	w := float64(g.Rotation[3])

	n := math.Sqrt(x*x + y*y + z*z + w*w)
	if n == 0 {
		g.Rotation = [4]float32{0, 0, 0, 1}
		return
	}

	g.Rotation[0] = float32(x / n)
	g.Rotation[1] = float32(y / n)
	g.Rotation[2] = float32(z / n)
	g.Rotation[3] = float32(w / n)
}
