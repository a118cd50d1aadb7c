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

package ply_test

import (
	"bytes"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaviate/gsplat/adapters/ply"
	"github.com/weaviate/gsplat/entities/gaussian"
)

func randomGaussian(rng *rand.Rand) gaussian.Gaussian {
	var g gaussian.Gaussian

	n := 0.0
	for i := range g.Rotation {
		g.Rotation[i] = float32(rng.NormFloat64())
		n += float64(g.Rotation[i]) * float64(g.Rotation[i])
	}
	n = math.Sqrt(n)
	for i := range g.Rotation {
		g.Rotation[i] = float32(float64(g.Rotation[i]) / n)
	}

	for i := 0; i < 3; i++ {
		g.Position[i] = rng.Float32()*20 - 10
		g.Scale[i] = 0.01 + 2*rng.Float32()
	}
	for i := range g.Color {
		// stay clear of the saturated ends where the logit blows up
		g.Color[i] = uint8(10 + rng.Intn(236))
	}
	for i := range g.SH {
		for c := range g.SH[i] {
			g.SH[i][c] = rng.Float32()*2 - 1
		}
	}
	return g
}

func writeGaussians(t *testing.T, gs []gaussian.Gaussian, deg gaussian.ShDegree, format ply.Format) []byte {
	t.Helper()

	var buf bytes.Buffer
	w, err := ply.NewWriter(&buf, len(gs), &ply.WriterOptions{Format: format, Degree: deg})
	require.NoError(t, err)
	for i := range gs {
		require.NoError(t, w.WriteGaussian(&gs[i], deg))
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func readGaussians(t *testing.T, data []byte) ([]gaussian.Gaussian, gaussian.ShDegree) {
	t.Helper()

	r, err := ply.NewReader(bytes.NewReader(data), nil)
	require.NoError(t, err)

	gs := make([]gaussian.Gaussian, 0, r.Count())
	for r.Next() {
		gs = append(gs, r.At().Gaussian(r.ShDegree()))
	}
	require.NoError(t, r.Err())
	require.Len(t, gs, r.Count())
	return gs, r.ShDegree()
}

func assertGaussiansClose(t *testing.T, want, got []gaussian.Gaussian) {
	t.Helper()
	require.Equal(t, len(want), len(got))

	for i := range want {
		assert.Equal(t, want[i].Position, got[i].Position, "position %d survives untouched", i)
		assert.Equal(t, want[i].SH, got[i].SH, "sh %d survives untouched", i)

		// scale crosses log/exp, rotation is renormalized, color and alpha
		// cross the DC and sigmoid transforms
		for c := 0; c < 3; c++ {
			assert.InDelta(t, want[i].Scale[c], got[i].Scale[c], 1e-5*float64(want[i].Scale[c])+1e-7)
		}
		for c := 0; c < 4; c++ {
			assert.InDelta(t, want[i].Rotation[c], got[i].Rotation[c], 1e-6)
			assert.InDelta(t, int(want[i].Color[c]), int(got[i].Color[c]), 1)
		}
	}
}

func TestRoundTripBinary(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	gs := make([]gaussian.Gaussian, 32)
	for i := range gs {
		gs[i] = randomGaussian(rng)
	}

	data := writeGaussians(t, gs, 3, ply.FormatBinary)
	got, deg := readGaussians(t, data)

	assert.Equal(t, gaussian.ShDegree(3), deg)
	assertGaussiansClose(t, gs, got)
}

func TestRoundTripASCII(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	gs := make([]gaussian.Gaussian, 8)
	for i := range gs {
		gs[i] = randomGaussian(rng)
	}

	data := writeGaussians(t, gs, 2, ply.FormatASCII)
	got, deg := readGaussians(t, data)

	assert.Equal(t, gaussian.ShDegree(2), deg)
	// degree 2 drops triplets 8..14 on write
	for i := range gs {
		for tr := 8; tr < gaussian.MaxShTriplets; tr++ {
			gs[i].SH[tr] = [3]float32{}
		}
	}
	assertGaussiansClose(t, gs, got)
}

// TestShChannelMajorOrder pins the file scalar order: all R coefficients of
// the degree, then all G, then all B.
func TestShChannelMajorOrder(t *testing.T) {
	body := make([]string, 0, 26)
	body = append(body, "1", "2", "3") // x y z
	body = append(body, "0", "0", "0") // nx ny nz
	body = append(body, "0", "0", "0") // f_dc
	for i := 0; i < 9; i++ {
		body = append(body, []string{"10", "11", "12", "20", "21", "22", "30", "31", "32"}[i])
	}
	body = append(body, "0")             // opacity
	body = append(body, "0", "0", "0")   // scale (log): decodes to 1
	body = append(body, "1", "0", "0", "0") // rot w x y z

	src := inriaHeader("ascii", 1, 9) + strings.Join(body, " ") + "\n"

	got, deg := readGaussians(t, []byte(src))
	require.Equal(t, gaussian.ShDegree(1), deg)
	require.Len(t, got, 1)

	assert.Equal(t, [3]float32{10, 20, 30}, got[0].SH[0])
	assert.Equal(t, [3]float32{11, 21, 31}, got[0].SH[1])
	assert.Equal(t, [3]float32{12, 22, 32}, got[0].SH[2])
	assert.Equal(t, [3]float32{1, 1, 1}, got[0].Scale)
	assert.Equal(t, [4]float32{0, 0, 0, 1}, got[0].Rotation)
	// dc 0 maps to mid gray, opacity logit 0 to mid alpha
	assert.Equal(t, [4]uint8{127, 127, 127, 127}, got[0].Color)
}

func TestExtrasSurviveWriteBack(t *testing.T) {
	src := inriaHeader("ascii", 1, 0, "property float confidence") +
		"1 2 3 0 0 0 0 0 0 0 0 0 0 1 0 0 0 0.75\n"

	r, err := ply.NewReader(strings.NewReader(src), nil)
	require.NoError(t, err)

	var out bytes.Buffer
	w, err := ply.NewWriterForHeader(&out, r.Header(), nil)
	require.NoError(t, err)

	for r.Next() {
		require.Equal(t, []float32{0.75}, r.At().Extras)
		require.NoError(t, w.WriteRecord(r.At()))
	}
	require.NoError(t, r.Err())
	require.NoError(t, w.Close())

	// the written file declares and carries the unrecognized property
	r2, err := ply.NewReader(bytes.NewReader(out.Bytes()), nil)
	require.NoError(t, err)
	require.True(t, r2.Next())
	assert.Equal(t, []float32{0.75}, r2.At().Extras)
}

func TestTruncatedBody(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	gs := []gaussian.Gaussian{randomGaussian(rng), randomGaussian(rng)}

	data := writeGaussians(t, gs, 1, ply.FormatBinary)
	truncated := data[:len(data)-10]

	r, err := ply.NewReader(bytes.NewReader(truncated), nil)
	require.NoError(t, err)

	assert.True(t, r.Next())
	assert.False(t, r.Next())
	assert.True(t, errors.Is(r.Err(), ply.ErrUnexpectedEOF))

	// the scan never recovers past an error
	assert.False(t, r.Next())
}

func TestMalformedASCIIRecord(t *testing.T) {
	src := inriaHeader("ascii", 1, 0) +
		"1 2 3 0 0 0 0 0 0 0 0 0 0 not-a-number 0 0 0\n"

	r, err := ply.NewReader(strings.NewReader(src), nil)
	require.NoError(t, err)

	assert.False(t, r.Next())
	assert.True(t, errors.Is(r.Err(), ply.ErrMalformedRecord))
}

func TestWriterCountMismatch(t *testing.T) {
	rng := rand.New(rand.NewSource(14))
	g := randomGaussian(rng)

	t.Run("too few", func(t *testing.T) {
		var buf bytes.Buffer
		w, err := ply.NewWriter(&buf, 2, &ply.WriterOptions{Degree: 1})
		require.NoError(t, err)
		require.NoError(t, w.WriteGaussian(&g, 1))

		err = w.Close()
		assert.True(t, errors.Is(err, ply.ErrCountMismatch))
	})

	t.Run("too many", func(t *testing.T) {
		var buf bytes.Buffer
		w, err := ply.NewWriter(&buf, 1, &ply.WriterOptions{Degree: 1})
		require.NoError(t, err)
		require.NoError(t, w.WriteGaussian(&g, 1))

		err = w.WriteGaussian(&g, 1)
		assert.True(t, errors.Is(err, ply.ErrCountMismatch))
	})
}
