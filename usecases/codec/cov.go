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

package codec

import (
	"github.com/pkg/errors"
	"github.com/weaviate/gsplat/usecases/byteops"
	"github.com/weaviate/gsplat/usecases/transform"
)

// CovScheme selects how the 3D covariance is stored.
type CovScheme uint8

const (
	// CovRotScale stores the raw quaternion (x y z w) and scale, 7 floats.
	// The covariance is recomputed on every decode; rotation and scale
	// remain recoverable.
	CovRotScale CovScheme = iota
	// CovSingle stores the 6 upper-triangle covariance values as float32.
	CovSingle
	// CovHalf stores the 6 upper-triangle values as half floats in 3 words.
	CovHalf
)

func (s CovScheme) String() string {
	switch s {
	case CovRotScale:
		return "cov3d_rot_scale"
	case CovSingle:
		return "cov3d_single"
	case CovHalf:
		return "cov3d_half"
	default:
		return "unknown"
	}
}

// CovBlockSize returns the encoded block size in bytes for one splat.
func CovBlockSize(scheme CovScheme) (int, error) {
	switch scheme {
	case CovRotScale:
		return 28, nil
	case CovSingle:
		return 24, nil
	case CovHalf:
		return 12, nil
	default:
		return 0, errors.Wrapf(ErrInvalidEncodingInput, "cov scheme %d", scheme)
	}
}

// Covariance returns the upper triangle (xx xy xz yy yz zz) of
// Sigma = M * M^T where M is the scale-rotation matrix of rot and scale.
func Covariance(rot [4]float32, scale [3]float32) [6]float32 {
	m := transform.ScaleRotation(rot, scale)

	// Sigma[r][c] = sum over k of M[r][k] * M[c][k], column-major m.
	at := func(r, c int) float32 {
		return m[0+r]*m[0+c] + m[3+r]*m[3+c] + m[6+r]*m[6+c]
	}

	return [6]float32{at(0, 0), at(0, 1), at(0, 2), at(1, 1), at(1, 2), at(2, 2)}
}

// EncodeCov encodes rotation and scale under the given scheme.
func EncodeCov(scheme CovScheme, rot [4]float32, scale [3]float32) ([]byte, error) {
	size, err := CovBlockSize(scheme)
	if err != nil {
		return nil, err
	}
	buf := byteops.New(size)

	switch scheme {
	case CovRotScale:
		for _, v := range rot {
			buf.WriteFloat32(v)
		}
		for _, v := range scale {
			buf.WriteFloat32(v)
		}

	case CovSingle:
		for _, v := range Covariance(rot, scale) {
			buf.WriteFloat32(v)
		}

	case CovHalf:
		for _, v := range Covariance(rot, scale) {
			buf.WriteFloat16(v)
		}
	}

	return buf.Data, nil
}

// DecodeCov returns the covariance upper triangle from an encoded block.
// For CovRotScale the matrix is recomputed from the stored rotation and
// scale on every call; the raw values are the stored truth, the covariance
// is derived.
func DecodeCov(scheme CovScheme, block []byte) ([6]float32, error) {
	switch scheme {
	case CovRotScale:
		rot, scale, err := DecodeRotScale(scheme, block)
		if err != nil {
			return [6]float32{}, err
		}
		return Covariance(rot, scale), nil

	case CovSingle:
		buf := byteops.Wrap(block)
		var out [6]float32
		for i := range out {
			out[i] = buf.ReadFloat32()
		}
		return out, nil

	case CovHalf:
		buf := byteops.Wrap(block)
		var out [6]float32
		for i := range out {
			out[i] = buf.ReadFloat16()
		}
		return out, nil

	default:
		return [6]float32{}, errors.Wrapf(ErrInvalidEncodingInput, "cov scheme %d", scheme)
	}
}

// DecodeRotScale recovers the stored rotation and scale. Only CovRotScale
// keeps them; the other schemes are lossy and fail with
// ErrInvalidEncodingInput.
func DecodeRotScale(scheme CovScheme, block []byte) ([4]float32, [3]float32, error) {
	if scheme != CovRotScale {
		return [4]float32{}, [3]float32{}, errors.Wrapf(
			ErrInvalidEncodingInput, "%s cannot be inverted to rotation and scale", scheme)
	}

	buf := byteops.Wrap(block)
	var rot [4]float32
	var scale [3]float32
	for i := range rot {
		rot[i] = buf.ReadFloat32()
	}
	for i := range scale {
		scale[i] = buf.ReadFloat32()
	}
	return rot, scale, nil
}
