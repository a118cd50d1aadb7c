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

package codec_test

import (
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"

	"github.com/weaviate/gsplat/entities/gaussian"
	"github.com/weaviate/gsplat/usecases/byteops"
	"github.com/weaviate/gsplat/usecases/codec"
)

func randomSh(rng *rand.Rand) [gaussian.MaxShTriplets][3]float32 {
	var sh [gaussian.MaxShTriplets][3]float32
	for i := range sh {
		for c := range sh[i] {
			sh[i][c] = rng.Float32()*2 - 1
		}
	}
	return sh
}

func TestShBlockSizes(t *testing.T) {
	cases := []struct {
		scheme codec.ShScheme
		degree gaussian.ShDegree
		size   int
	}{
		{codec.ShSingle, 0, 0},
		{codec.ShSingle, 1, 36},
		{codec.ShSingle, 2, 96},
		{codec.ShSingle, 3, 180},
		{codec.ShHalf, 1, 20},
		{codec.ShHalf, 2, 48},
		{codec.ShHalf, 3, 92},
		{codec.ShNorm8, 1, 16},
		{codec.ShNorm8, 2, 28},
		{codec.ShNorm8, 3, 52},
		{codec.ShNone, 3, 0},
	}

	for _, tc := range cases {
		size, err := codec.ShBlockSize(tc.scheme, tc.degree)
		require.NoError(t, err)
		assert.Equal(t, tc.size, size, "%s degree %d", tc.scheme, tc.degree)
		assert.Zero(t, size%4, "block must stay 4-byte aligned")
	}
}

func TestShSingleRoundTripExact(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	sh := randomSh(rng)

	for _, deg := range []gaussian.ShDegree{1, 2, 3} {
		block, err := codec.EncodeSh(codec.ShSingle, deg, &sh)
		require.NoError(t, err)

		decoded, err := codec.DecodeSh(codec.ShSingle, deg, block)
		require.NoError(t, err)

		for i := 0; i < deg.RestTriplets(); i++ {
			assert.Equal(t, sh[i], decoded[i], "triplet %d", i)
		}
		for i := deg.RestTriplets(); i < gaussian.MaxShTriplets; i++ {
			assert.Equal(t, [3]float32{}, decoded[i], "triplet %d beyond the degree stays zero", i)
		}
	}
}

func TestShHalfRoundTripWithinHalfRounding(t *testing.T) {
	rng := rand.New(rand.NewSource(2))

	for trial := 0; trial < 50; trial++ {
		sh := randomSh(rng)

		block, err := codec.EncodeSh(codec.ShHalf, 3, &sh)
		require.NoError(t, err)

		decoded, err := codec.DecodeSh(codec.ShHalf, 3, block)
		require.NoError(t, err)

		for i := range sh {
			for c := range sh[i] {
				assert.Equal(t, byteops.Float16Round(sh[i][c]), decoded[i][c],
					"triplet %d channel %d decodes to the half-rounded value", i, c)
			}
		}
	}
}

// TestShHalfPackingCrossesTripletBoundaries pins the wire layout: scalar s
// occupies the 16-bit half at byte offset 2s, so the second scalar of a
// word can belong to the next triplet.
func TestShHalfPackingCrossesTripletBoundaries(t *testing.T) {
	var sh [gaussian.MaxShTriplets][3]float32
	for i := 0; i < 3; i++ {
		for c := 0; c < 3; c++ {
			sh[i][c] = float32(3*i+c) + 0.5
		}
	}

	deg := gaussian.ShDegree(1) // 9 scalars, odd: triplets share words
	block, err := codec.EncodeSh(codec.ShHalf, deg, &sh)
	require.NoError(t, err)
	require.Len(t, block, 20)

	for s := 0; s < 9; s++ {
		bits := binary.LittleEndian.Uint16(block[2*s : 2*s+2])
		expected := float16.Fromfloat32(float32(s) + 0.5).Bits()
		assert.Equal(t, expected, bits, "scalar %d", s)
	}

	// triplet 1 starts in the high half of word 1
	triplet, err := codec.DecodeShCoefficient(codec.ShHalf, deg, block, 1)
	require.NoError(t, err)
	assert.Equal(t, [3]float32{3.5, 4.5, 5.5}, triplet)
}

func TestShNorm8RoundTripWithinBound(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for trial := 0; trial < 50; trial++ {
		sh := randomSh(rng)

		block, err := codec.EncodeSh(codec.ShNorm8, 3, &sh)
		require.NoError(t, err)

		decoded, err := codec.DecodeSh(codec.ShNorm8, 3, block)
		require.NoError(t, err)

		min := byteops.Float16Round(minSh(&sh))
		max := byteops.Float16Round(maxSh(&sh))
		bound := float64(max-min)/510 + 1e-6

		for i := range sh {
			for c := range sh[i] {
				assert.InDelta(t, sh[i][c], decoded[i][c], bound,
					"trial %d triplet %d channel %d", trial, i, c)
			}
		}
	}
}

func TestShNorm8ConstantCoefficients(t *testing.T) {
	var sh [gaussian.MaxShTriplets][3]float32
	for i := range sh {
		for c := range sh[i] {
			sh[i][c] = 0.25
		}
	}

	block, err := codec.EncodeSh(codec.ShNorm8, 3, &sh)
	require.NoError(t, err)

	// max == min: all deltas are zero and decode returns min
	for _, b := range block[4 : 4+45] {
		assert.Equal(t, uint8(0), b)
	}

	decoded, err := codec.DecodeSh(codec.ShNorm8, 3, block)
	require.NoError(t, err)
	for i := range decoded {
		assert.Equal(t, [3]float32{0.25, 0.25, 0.25}, decoded[i])
	}
}

func TestShEncodeContractViolations(t *testing.T) {
	var sh [gaussian.MaxShTriplets][3]float32

	_, err := codec.EncodeSh(codec.ShNorm8, 0, &sh)
	assert.True(t, errors.Is(err, codec.ErrInvalidEncodingInput), "norm8 with zero coefficients")

	_, err = codec.EncodeSh(codec.ShHalf, 0, &sh)
	assert.True(t, errors.Is(err, codec.ErrInvalidEncodingInput), "half with zero coefficients")

	_, err = codec.EncodeSh(codec.ShScheme(99), 3, &sh)
	assert.True(t, errors.Is(err, codec.ErrInvalidEncodingInput), "unknown scheme")

	_, err = codec.DecodeShCoefficient(codec.ShNone, 3, nil, 0)
	assert.True(t, errors.Is(err, codec.ErrInvalidEncodingInput), "sh_none cannot be decoded")

	block, err := codec.EncodeSh(codec.ShSingle, 1, &sh)
	require.NoError(t, err)
	_, err = codec.DecodeShCoefficient(codec.ShSingle, 1, block, 3)
	assert.True(t, errors.Is(err, codec.ErrInvalidEncodingInput), "triplet index out of degree")
}

func TestShNoneEncodesNothing(t *testing.T) {
	var sh [gaussian.MaxShTriplets][3]float32
	block, err := codec.EncodeSh(codec.ShNone, 3, &sh)
	require.NoError(t, err)
	assert.Empty(t, block)
}

func minSh(sh *[gaussian.MaxShTriplets][3]float32) float32 {
	min := sh[0][0]
	for i := range sh {
		for _, v := range sh[i] {
			if v < min {
				min = v
			}
		}
	}
	return min
}

func maxSh(sh *[gaussian.MaxShTriplets][3]float32) float32 {
	max := sh[0][0]
	for i := range sh {
		for _, v := range sh[i] {
			if v > max {
				max = v
			}
		}
	}
	return max
}
