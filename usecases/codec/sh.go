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

// Package codec quantizes per-splat spherical harmonics and covariance
// blocks for GPU consumption. Schemes form a closed set; every switch over
// them is exhaustive and an unknown scheme is a caller error, never a silent
// fallthrough.
package codec

import (
	"math"

	"github.com/pkg/errors"
	"github.com/weaviate/gsplat/entities/gaussian"
	"github.com/weaviate/gsplat/usecases/byteops"
)

// ErrInvalidEncodingInput indicates a degree/scheme pairing that is
// structurally inconsistent, e.g. a quantized SH block with zero
// coefficients or decoding a scheme that cannot be inverted.
var ErrInvalidEncodingInput = errors.New("invalid encoding input")

// ShScheme selects how the view-dependent SH coefficients are stored.
type ShScheme uint8

const (
	// ShSingle stores plain little-endian float32 values, lossless.
	ShSingle ShScheme = iota
	// ShHalf packs two half-precision scalars per 32-bit word. Scalars are
	// packed consecutively across triplet boundaries: scalar s occupies the
	// low (s even) or high (s odd) half of word s/2.
	ShHalf
	// ShNorm8 stores the per-splat min and max as two half floats followed
	// by one 8-bit normalized delta per scalar.
	ShNorm8
	// ShNone drops the coefficients entirely. Encode emits nothing, decode
	// is a contract violation.
	ShNone
)

func (s ShScheme) String() string {
	switch s {
	case ShSingle:
		return "sh_single"
	case ShHalf:
		return "sh_half"
	case ShNorm8:
		return "sh_norm8"
	case ShNone:
		return "sh_none"
	default:
		return "unknown"
	}
}

// ShBlockSize returns the encoded block size in bytes for one splat,
// 4-byte aligned.
func ShBlockSize(scheme ShScheme, deg gaussian.ShDegree) (int, error) {
	n := deg.RestCoefficients()
	switch scheme {
	case ShSingle:
		return 4 * n, nil
	case ShHalf:
		return align4(2 * n), nil
	case ShNorm8:
		return 4 + align4(n), nil
	case ShNone:
		return 0, nil
	default:
		return 0, errors.Wrapf(ErrInvalidEncodingInput, "sh scheme %d", scheme)
	}
}

// EncodeSh encodes the first deg.RestTriplets() triplets of sh into a fresh
// block. Quantized schemes with zero coefficients (degree 0) fail with
// ErrInvalidEncodingInput.
func EncodeSh(scheme ShScheme, deg gaussian.ShDegree, sh *[gaussian.MaxShTriplets][3]float32) ([]byte, error) {
	size, err := ShBlockSize(scheme, deg)
	if err != nil {
		return nil, err
	}

	n := deg.RestCoefficients()
	buf := byteops.New(size)

	switch scheme {
	case ShSingle:
		for s := 0; s < n; s++ {
			buf.WriteFloat32(sh[s/3][s%3])
		}

	case ShHalf:
		if n == 0 {
			return nil, errors.Wrap(ErrInvalidEncodingInput, "sh_half with zero coefficients")
		}
		for s := 0; s < n; s++ {
			buf.WriteFloat16(sh[s/3][s%3])
		}

	case ShNorm8:
		if n == 0 {
			return nil, errors.Wrap(ErrInvalidEncodingInput, "sh_norm8 with zero coefficients")
		}
		encodeShNorm8(buf, n, sh)

	case ShNone:

	default:
		return nil, errors.Wrapf(ErrInvalidEncodingInput, "sh scheme %d", scheme)
	}

	return buf.Data, nil
}

func encodeShNorm8(buf *byteops.Buffer, n int, sh *[gaussian.MaxShTriplets][3]float32) {
	min := float32(math.MaxFloat32)
	max := float32(-math.MaxFloat32)
	for s := 0; s < n; s++ {
		v := sh[s/3][s%3]
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	buf.WriteFloat16(min)
	buf.WriteFloat16(max)

	// Quantize against the half-rounded bounds actually stored, so the
	// error bound holds against what decode will reconstruct.
	min = byteops.Float16Round(min)
	max = byteops.Float16Round(max)
	scale := max - min

	for s := 0; s < n; s++ {
		if scale == 0 {
			buf.WriteUint8(0)
			continue
		}
		q := math.Round(float64((sh[s/3][s%3] - min) / scale * 255))
		if q < 0 {
			q = 0
		} else if q > 255 {
			q = 255
		}
		buf.WriteUint8(uint8(q))
	}
}

// DecodeShCoefficient decodes the coefficient triplet at index i from an
// encoded block.
func DecodeShCoefficient(scheme ShScheme, deg gaussian.ShDegree, block []byte, i int) ([3]float32, error) {
	if i < 0 || i >= deg.RestTriplets() {
		return [3]float32{}, errors.Wrapf(ErrInvalidEncodingInput, "triplet %d of %d", i, deg.RestTriplets())
	}

	var out [3]float32
	switch scheme {
	case ShSingle:
		buf := byteops.Wrap(block)
		buf.Position = 12 * i
		out[0] = buf.ReadFloat32()
		out[1] = buf.ReadFloat32()
		out[2] = buf.ReadFloat32()

	case ShHalf:
		// Scalar s sits at byte 2s: word s/2, low half for even s, high
		// half for odd s, regardless of which triplet the word started in.
		buf := byteops.Wrap(block)
		for c := 0; c < 3; c++ {
			s := 3*i + c
			buf.Position = 2 * s
			out[c] = buf.ReadFloat16()
		}

	case ShNorm8:
		buf := byteops.Wrap(block)
		min := buf.ReadFloat16()
		max := buf.ReadFloat16()
		scale := max - min
		for c := 0; c < 3; c++ {
			buf.Position = 4 + 3*i + c
			out[c] = min + float32(buf.ReadUint8())/255*scale
		}

	case ShNone:
		return [3]float32{}, errors.Wrap(ErrInvalidEncodingInput, "sh_none cannot be decoded")

	default:
		return [3]float32{}, errors.Wrapf(ErrInvalidEncodingInput, "sh scheme %d", scheme)
	}

	return out, nil
}

// DecodeSh decodes a whole block into the canonical SH array. Triplets
// beyond the degree are zero.
func DecodeSh(scheme ShScheme, deg gaussian.ShDegree, block []byte) ([gaussian.MaxShTriplets][3]float32, error) {
	var out [gaussian.MaxShTriplets][3]float32
	for i := 0; i < deg.RestTriplets(); i++ {
		triplet, err := DecodeShCoefficient(scheme, deg, block, i)
		if err != nil {
			return out, err
		}
		out[i] = triplet
	}
	return out, nil
}

func align4(n int) int {
	return (n + 3) &^ 3
}
