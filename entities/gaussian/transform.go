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

import (
	"encoding/binary"
	"math"
)

// DisplayMode selects how a splat is rasterized.
type DisplayMode uint8

const (
	DisplayModeSplat DisplayMode = iota
	DisplayModeEllipse
	DisplayModePoint
)

func (m DisplayMode) String() string {
	switch m {
	case DisplayModeSplat:
		return "splat"
	case DisplayModeEllipse:
		return "ellipse"
	case DisplayModePoint:
		return "point"
	default:
		return "unknown"
	}
}

// Transform carries the per-cloud display parameters consumed by the
// GPU-facing collaborator as a uniform.
type Transform struct {
	Size   float32
	Mode   DisplayMode
	Degree ShDegree // degree to render, not the degree of the data
	NoSh0  bool     // exclude the DC term
}

// DefaultTransform renders full-size splats at the highest degree.
func DefaultTransform() Transform {
	return Transform{Size: 1, Mode: DisplayModeSplat, Degree: MaxShDegree}
}

// TransformSize is the serialized size of a Transform in bytes.
const TransformSize = 8

// Bytes serializes the transform as {size:f32, flags:u32} with the flags
// word byte-packed as [display_mode, sh_degree, no_sh0, reserved],
// little-endian.
func (t Transform) Bytes() [TransformSize]byte {
	var noSh0 uint32
	if t.NoSh0 {
		noSh0 = 1
	}
	flags := uint32(t.Mode) | uint32(t.Degree)<<8 | noSh0<<16

	var out [TransformSize]byte
	binary.LittleEndian.PutUint32(out[0:4], math.Float32bits(t.Size))
	binary.LittleEndian.PutUint32(out[4:8], flags)
	return out
}
