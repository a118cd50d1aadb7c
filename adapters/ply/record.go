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

package ply

import (
	"math"

	"github.com/weaviate/gsplat/entities/gaussian"
)

// shC0 is the degree-0 spherical harmonics basis constant relating the DC
// coefficient to linear color.
const shC0 = 0.2820948

// Record mirrors one on-disk vertex. Scale is log-space, opacity is the
// pre-sigmoid logit, rotation is stored w-first, and SH holds the file
// scalar order: channel-major within the declared degree (all R
// coefficients, then G, then B). Extras carries unrecognized properties in
// declaration order.
type Record struct {
	Pos     [3]float32
	Normal  [3]float32
	DC      [3]float32
	SH      [45]float32
	Opacity float32
	Scale   [3]float32
	Rot     [4]float32 // w x y z
	Extras  []float32
}

func (r *Record) set(slot Slot, v float32) {
	switch slot.Kind {
	case SlotPos:
		r.Pos[slot.Index] = v
	case SlotNormal:
		r.Normal[slot.Index] = v
	case SlotDC:
		r.DC[slot.Index] = v
	case SlotSh:
		r.SH[slot.Index] = v
	case SlotOpacity:
		r.Opacity = v
	case SlotScale:
		r.Scale[slot.Index] = v
	case SlotRot:
		r.Rot[slot.Index] = v
	case SlotExtra:
		r.Extras[slot.Index] = v
	}
}

func (r *Record) get(slot Slot) float32 {
	switch slot.Kind {
	case SlotPos:
		return r.Pos[slot.Index]
	case SlotNormal:
		return r.Normal[slot.Index]
	case SlotDC:
		return r.DC[slot.Index]
	case SlotSh:
		return r.SH[slot.Index]
	case SlotOpacity:
		return r.Opacity
	case SlotScale:
		return r.Scale[slot.Index]
	case SlotRot:
		return r.Rot[slot.Index]
	case SlotExtra:
		return r.Extras[slot.Index]
	default:
		return 0
	}
}

// Gaussian converts the record to the canonical representation: scales are
// exponentiated, the DC coefficient becomes 8-bit color, opacity passes
// through a sigmoid, the quaternion is reordered to x y z w and normalized,
// and the channel-major SH scalars regroup into RGB triplets.
func (r *Record) Gaussian(deg gaussian.ShDegree) gaussian.Gaussian {
	var g gaussian.Gaussian

	g.Position = r.Pos

	g.Rotation = [4]float32{r.Rot[1], r.Rot[2], r.Rot[3], r.Rot[0]}
	g.NormalizeRotation()

	for i := 0; i < 3; i++ {
		g.Scale[i] = float32(math.Exp(float64(r.Scale[i])))
		g.Color[i] = quantizeColor((0.5 + r.DC[i]*shC0) * 255)
	}
	g.Color[3] = quantizeColor(float32(1/(1+math.Exp(-float64(r.Opacity)))) * 255)

	t := deg.RestTriplets()
	for i := 0; i < t; i++ {
		g.SH[i] = [3]float32{r.SH[i], r.SH[t+i], r.SH[2*t+i]}
	}

	return g
}

// RecordFromGaussian is the inverse mapping back to on-disk values.
func RecordFromGaussian(g *gaussian.Gaussian, deg gaussian.ShDegree) Record {
	var r Record

	r.Pos = g.Position
	r.Normal = [3]float32{0, 0, 1}
	r.Rot = [4]float32{g.Rotation[3], g.Rotation[0], g.Rotation[1], g.Rotation[2]}

	for i := 0; i < 3; i++ {
		r.Scale[i] = float32(math.Log(float64(g.Scale[i])))
		r.DC[i] = float32(g.Color[i])/255/shC0 - 0.5/shC0
	}
	alpha := float64(g.Color[3]) / 255
	r.Opacity = float32(-math.Log(1/alpha - 1))

	t := deg.RestTriplets()
	for i := 0; i < t; i++ {
		r.SH[i] = g.SH[i][0]
		r.SH[t+i] = g.SH[i][1]
		r.SH[2*t+i] = g.SH[i][2]
	}

	return r
}

func quantizeColor(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
