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

package spz

import (
	"math"

	"github.com/weaviate/gsplat/entities/gaussian"
)

// Cloud holds the decoded quantized planes of one container. Planes are
// struct-of-arrays; individual splats are dequantized on access, so holding
// a Cloud costs the quantized size, not the canonical one.
type Cloud struct {
	count  int
	degree gaussian.ShDegree

	positions []byte // count * 9, 24-bit fixed point x y z
	alphas    []byte // count
	colors    []byte // count * 3
	scales    []byte // count * 3
	rotations []byte // count * 3, quaternion x y z, w recovered
	sh        []byte // count * RestCoefficients, triplet-major
}

// Count returns the number of splats.
func (c *Cloud) Count() int {
	return c.count
}

// ShDegree returns the degree carried by the container.
func (c *Cloud) ShDegree() gaussian.ShDegree {
	return c.degree
}

// At dequantizes the splat at index i into the canonical representation.
func (c *Cloud) At(i int) gaussian.Gaussian {
	var g gaussian.Gaussian

	for j := 0; j < 3; j++ {
		p := c.positions[i*9+j*3:]
		g.Position[j] = dequantizePosition(uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16)
		g.Scale[j] = dequantizeScale(c.scales[i*3+j])
		g.Color[j] = c.colors[i*3+j]
	}
	g.Color[3] = c.alphas[i]

	x := dequantizeRotation(c.rotations[i*3])
	y := dequantizeRotation(c.rotations[i*3+1])
	z := dequantizeRotation(c.rotations[i*3+2])
	ww := 1 - float64(x)*float64(x) - float64(y)*float64(y) - float64(z)*float64(z)
	if ww < 0 {
		ww = 0
	}
	g.Rotation = [4]float32{x, y, z, float32(math.Sqrt(ww))}

	n := c.degree.RestCoefficients()
	for s := 0; s < n; s++ {
		g.SH[s/3][s%3] = dequantizeSh(c.sh[i*n+s])
	}

	return g
}

// FromGaussians quantizes a canonical cloud, preserving order.
func FromGaussians(gs []gaussian.Gaussian, degree gaussian.ShDegree) *Cloud {
	n := degree.RestCoefficients()
	c := &Cloud{
		count:     len(gs),
		degree:    degree,
		positions: make([]byte, len(gs)*9),
		alphas:    make([]byte, len(gs)),
		colors:    make([]byte, len(gs)*3),
		scales:    make([]byte, len(gs)*3),
		rotations: make([]byte, len(gs)*3),
		sh:        make([]byte, len(gs)*n),
	}

	for i := range gs {
		g := &gs[i]

		for j := 0; j < 3; j++ {
			q := quantizePosition(g.Position[j])
			p := c.positions[i*9+j*3:]
			p[0] = byte(q)
			p[1] = byte(q >> 8)
			p[2] = byte(q >> 16)

			c.scales[i*3+j] = quantizeScale(g.Scale[j])
			c.colors[i*3+j] = g.Color[j]
		}
		c.alphas[i] = g.Color[3]

		rot := g.Rotation
		if rot[3] < 0 {
			for j := range rot {
				rot[j] = -rot[j]
			}
		}
		c.rotations[i*3] = quantizeRotation(rot[0])
		c.rotations[i*3+1] = quantizeRotation(rot[1])
		c.rotations[i*3+2] = quantizeRotation(rot[2])

		for s := 0; s < n; s++ {
			c.sh[i*n+s] = quantizeSh(g.SH[s/3][s%3])
		}
	}

	return c
}
