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

// Package spz reads and writes the compressed, quantized splat container:
// a plain little-endian header followed by one gzip stream of per-attribute
// quantized planes. The quantization steps are a fixed external contract;
// decoding is lossy against full precision but deterministic, and a
// decode-encode-decode round trip through this format is stable.
package spz

import (
	"math"

	"github.com/pkg/errors"
)

const (
	// Magic is "NGSP" little-endian.
	Magic uint32 = 0x5053474e

	// Version is the newest container version this package writes and the
	// newest it will read.
	Version uint32 = 2

	minVersion uint32 = 1

	// headerSize is [magic:4][version:u32][count:u32][shDegree:u8].
	headerSize = 13
)

var (
	// ErrMagicMismatch indicates the leading bytes are not the container
	// magic.
	ErrMagicMismatch = errors.New("spz magic mismatch")

	// ErrUnsupportedVersion indicates a container version outside the
	// supported range; newer versions are rejected, never best-effort
	// decoded.
	ErrUnsupportedVersion = errors.New("unsupported spz version")

	// ErrUnexpectedEOF indicates a payload shorter than the header
	// promised.
	ErrUnexpectedEOF = errors.New("unexpected end of spz data")
)

// Plane quantization parameters, fixed by the format.
const (
	// positionFractionalBits is the fixed-point precision of the 24-bit
	// position components.
	positionFractionalBits = 12
	positionScale          = 1 << positionFractionalBits
	positionMax            = 1<<23 - 1

	// scaleOffset and scaleSteps quantize the log-space axis scale into a
	// byte: q = (ln s + scaleOffset) * scaleSteps.
	scaleOffset = 10
	scaleSteps  = 16

	// shSteps quantizes an SH coefficient into a byte centered at 128.
	shSteps = 128
)

func quantizePosition(v float32) uint32 {
	q := math.Round(float64(v) * positionScale)
	if q > positionMax {
		q = positionMax
	} else if q < -positionMax {
		q = -positionMax
	}
	return uint32(int32(q)) & 0xffffff
}

func dequantizePosition(q uint32) float32 {
	// sign-extend the 24-bit two's complement value
	v := int32(q<<8) >> 8
	return float32(v) / positionScale
}

func quantizeScale(s float32) uint8 {
	q := math.Round((math.Log(float64(s)) + scaleOffset) * scaleSteps)
	return clampByte(q)
}

func dequantizeScale(q uint8) float32 {
	return float32(math.Exp(float64(q)/scaleSteps - scaleOffset))
}

func quantizeSh(v float32) uint8 {
	return clampByte(math.Round(float64(v)*shSteps) + shSteps)
}

func dequantizeSh(q uint8) float32 {
	return float32(int(q)-shSteps) / shSteps
}

// quantizeRotation maps a quaternion component in [-1, 1] to a byte; the w
// component is not stored, its sign is canonicalized non-negative before
// encoding.
func quantizeRotation(c float32) uint8 {
	return clampByte(math.Round(float64(c)*127.5 + 127.5))
}

func dequantizeRotation(q uint8) float32 {
	return (float32(q) - 127.5) / 127.5
}

func clampByte(q float64) uint8 {
	if q < 0 {
		return 0
	}
	if q > 255 {
		return 255
	}
	return uint8(q)
}
