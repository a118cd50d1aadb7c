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

// Package transform computes model transformation matrices from position,
// rotation and scale.
//
// The same computation exists twice: here for the CPU, and in
// model_transform.wgsl for the GPU. Both sides must evaluate the identical
// scalar formula in the identical operation order so that results match
// bit-for-bit. Change one only together with the other; the tests
// cross-check against an independent float64 reference.
package transform

import (
	_ "embed"

	"github.com/pkg/errors"
	"github.com/weaviate/gsplat/entities/gaussian"
)

// ShaderSource is the WGSL side of the shared transform formula. The
// GPU-facing collaborator compiles it; this module only guarantees the CPU
// results below match it.
//
//go:embed model_transform.wgsl
var ShaderSource string

// ScaleRotation returns the column-major 3x3 matrix M = R * S where R is the
// rotation matrix of the unit quaternion rot (x y z w) and S the diagonal
// scale matrix. The quaternion expansion is the single documented formula
// shared with the shader:
//
//	| 1-2(yy+zz)  2(xy-zw)    2(xz+yw)   |
//	| 2(xy+zw)    1-2(xx+zz)  2(yz-xw)   |
//	| 2(xz-yw)    2(yz+xw)    1-2(xx+yy) |
//
// with column j scaled by scale[j].
func ScaleRotation(rot [4]float32, scale [3]float32) [9]float32 {
	x, y, z, w := rot[0], rot[1], rot[2], rot[3]

	xx := x * x
	yy := y * y
	zz := z * z
	xy := x * y
	xz := x * z
	yz := y * z
	xw := x * w
	yw := y * w
	zw := z * w

	return [9]float32{
		(1 - 2*(yy+zz)) * scale[0],
		(2 * (xy + zw)) * scale[0],
		(2 * (xz - yw)) * scale[0],

		(2 * (xy - zw)) * scale[1],
		(1 - 2*(xx+zz)) * scale[1],
		(2 * (yz + xw)) * scale[1],

		(2 * (xz + yw)) * scale[2],
		(2 * (yz - xw)) * scale[2],
		(1 - 2*(xx+yy)) * scale[2],
	}
}

// ModelMatrix returns the column-major 4x4 model matrix: the ScaleRotation
// block, translation in the last column, bottom row (0, 0, 0, 1).
func ModelMatrix(pos [3]float32, rot [4]float32, scale [3]float32) [16]float32 {
	m := ScaleRotation(rot, scale)

	return [16]float32{
		m[0], m[1], m[2], 0,
		m[3], m[4], m[5], 0,
		m[6], m[7], m[8], 0,
		pos[0], pos[1], pos[2], 1,
	}
}

// InverseScaleRotation returns the rotation block with each column divided
// by its scale component, as the shader applies it when undoing the model
// scale-rotation. Any zero scale component fails with ErrScaleIsZero.
func InverseScaleRotation(rot [4]float32, scale [3]float32) ([9]float32, error) {
	for i, s := range scale {
		if s == 0 {
			return [9]float32{}, errors.Wrapf(gaussian.ErrScaleIsZero, "component %d", i)
		}
	}

	inv := [3]float32{1 / scale[0], 1 / scale[1], 1 / scale[2]}
	return ScaleRotation(rot, inv), nil
}
