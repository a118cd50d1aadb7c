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
	"github.com/weaviate/gsplat/entities/gaussian"
	"github.com/weaviate/gsplat/usecases/byteops"
)

// Layout is one GPU storage layout for a splat: position and packed color,
// then the SH block, then the covariance block, padded to 16 bytes. The SH
// block always carries the full degree-3 coefficient set; the degree to
// render is a uniform, not a per-splat property.
type Layout struct {
	Sh  ShScheme
	Cov CovScheme
}

// Size returns the per-splat byte size, a multiple of 16.
func (l Layout) Size() (int, error) {
	shSize, err := ShBlockSize(l.Sh, gaussian.MaxShDegree)
	if err != nil {
		return 0, err
	}
	covSize, err := CovBlockSize(l.Cov)
	if err != nil {
		return 0, err
	}
	return align16(12 + 4 + shSize + covSize), nil
}

// Marshal appends the serialized splat to dst and returns the extended
// slice.
func (l Layout) Marshal(dst []byte, g *gaussian.Gaussian) ([]byte, error) {
	size, err := l.Size()
	if err != nil {
		return nil, err
	}

	shBlock, err := EncodeSh(l.Sh, gaussian.MaxShDegree, &g.SH)
	if err != nil {
		return nil, errors.Wrap(err, "encode sh block")
	}
	covBlock, err := EncodeCov(l.Cov, g.Rotation, g.Scale)
	if err != nil {
		return nil, errors.Wrap(err, "encode cov block")
	}

	buf := byteops.New(size)
	buf.WriteFloat32(g.Position[0])
	buf.WriteFloat32(g.Position[1])
	buf.WriteFloat32(g.Position[2])
	buf.WriteUint32(g.PackedColor())
	buf.WriteBytes(shBlock)
	buf.WriteBytes(covBlock)

	return append(dst, buf.Data...), nil
}

// MarshalAll serializes a whole cloud into one ready-to-copy buffer,
// preserving order.
func (l Layout) MarshalAll(gs []gaussian.Gaussian) ([]byte, error) {
	size, err := l.Size()
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, size*len(gs))
	for i := range gs {
		out, err = l.Marshal(out, &gs[i])
		if err != nil {
			return nil, errors.Wrapf(err, "splat %d", i)
		}
	}
	return out, nil
}

// Unmarshal reconstructs a canonical Gaussian from a serialized splat. Both
// schemes must be invertible: ShNone drops the coefficients and the direct
// covariance schemes lose rotation and scale, so those fail with
// ErrInvalidEncodingInput.
func (l Layout) Unmarshal(data []byte) (gaussian.Gaussian, error) {
	var g gaussian.Gaussian

	size, err := l.Size()
	if err != nil {
		return g, err
	}
	if len(data) < size {
		return g, errors.Wrapf(ErrInvalidEncodingInput, "%d bytes, layout needs %d", len(data), size)
	}

	shSize, _ := ShBlockSize(l.Sh, gaussian.MaxShDegree)

	buf := byteops.Wrap(data)
	g.Position[0] = buf.ReadFloat32()
	g.Position[1] = buf.ReadFloat32()
	g.Position[2] = buf.ReadFloat32()
	g.SetPackedColor(buf.ReadUint32())

	g.SH, err = DecodeSh(l.Sh, gaussian.MaxShDegree, buf.ReadBytes(shSize))
	if err != nil {
		return g, errors.Wrap(err, "decode sh block")
	}

	covSize, _ := CovBlockSize(l.Cov)
	g.Rotation, g.Scale, err = DecodeRotScale(l.Cov, buf.ReadBytes(covSize))
	if err != nil {
		return g, errors.Wrap(err, "decode cov block")
	}

	return g, nil
}

func align16(n int) int {
	return (n + 15) &^ 15
}
