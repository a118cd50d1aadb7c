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
	"fmt"

	"github.com/pkg/errors"
	"github.com/weaviate/gsplat/entities/gaussian"
)

// SlotKind identifies the canonical record field a property maps to.
type SlotKind uint8

const (
	SlotPos SlotKind = iota
	SlotNormal
	SlotDC
	SlotSh
	SlotOpacity
	SlotScale
	SlotRot
	// SlotExtra preserves a declared but unrecognized property as opaque
	// data so write-back is lossless.
	SlotExtra
)

// Slot is one canonical field position: a kind plus an index within it.
type Slot struct {
	Kind  SlotKind
	Index int
}

// Schema is one recognized property-naming convention. Schemas are plain
// data: an explicit table, not a heuristic.
type Schema struct {
	Name string
	// Fields maps a property name to its canonical slot.
	Fields map[string]Slot
	// Required lists the property names that must all be declared for the
	// schema to match a header.
	Required []string
}

// Matches reports whether every required property of the schema is declared
// in the header.
func (s Schema) Matches(h *Header) bool {
	declared := make(map[string]struct{}, len(h.Properties))
	for _, p := range h.Properties {
		declared[p.Name] = struct{}{}
	}
	for _, name := range s.Required {
		if _, ok := declared[name]; !ok {
			return false
		}
	}
	return true
}

// DefaultSchemas is the prioritized table of recognized naming conventions.
// The first schema whose required properties are all declared wins; there
// is no implicit fallback beyond this ordered list.
func DefaultSchemas() []Schema {
	return []Schema{inriaSchema(), legacyDotSchema()}
}

// inriaSchema is the naming used by the original Inria 3DGS training
// output: x/y/z, nx/ny/nz, f_dc_*, f_rest_*, opacity, scale_*, rot_*
// (rotation stored w first).
func inriaSchema() Schema {
	fields := map[string]Slot{
		"x": {SlotPos, 0}, "y": {SlotPos, 1}, "z": {SlotPos, 2},
		"nx": {SlotNormal, 0}, "ny": {SlotNormal, 1}, "nz": {SlotNormal, 2},
		"opacity": {SlotOpacity, 0},
	}
	for i := 0; i < 3; i++ {
		fields[fmt.Sprintf("f_dc_%d", i)] = Slot{SlotDC, i}
		fields[fmt.Sprintf("scale_%d", i)] = Slot{SlotScale, i}
	}
	for i := 0; i < 4; i++ {
		fields[fmt.Sprintf("rot_%d", i)] = Slot{SlotRot, i}
	}
	for i := 0; i < gaussian.ShDegree(gaussian.MaxShDegree).RestCoefficients(); i++ {
		fields[fmt.Sprintf("f_rest_%d", i)] = Slot{SlotSh, i}
	}

	return Schema{
		Name:   "inria",
		Fields: fields,
		Required: []string{
			"x", "y", "z",
			"f_dc_0", "f_dc_1", "f_dc_2",
			"opacity",
			"scale_0", "scale_1", "scale_2",
			"rot_0", "rot_1", "rot_2", "rot_3",
		},
	}
}

// legacyDotSchema covers exporters that use dotted component names for
// scale and rotation. It used to be an undocumented fallback; it is now an
// explicit table entry tried after the Inria naming.
func legacyDotSchema() Schema {
	fields := map[string]Slot{
		"x": {SlotPos, 0}, "y": {SlotPos, 1}, "z": {SlotPos, 2},
		"nx": {SlotNormal, 0}, "ny": {SlotNormal, 1}, "nz": {SlotNormal, 2},
		"opacity": {SlotOpacity, 0},
		"scale.x": {SlotScale, 0}, "scale.y": {SlotScale, 1}, "scale.z": {SlotScale, 2},
		"rot.w": {SlotRot, 0}, "rot.x": {SlotRot, 1}, "rot.y": {SlotRot, 2}, "rot.z": {SlotRot, 3},
	}
	for i := 0; i < 3; i++ {
		fields[fmt.Sprintf("f_dc_%d", i)] = Slot{SlotDC, i}
	}
	for i := 0; i < gaussian.ShDegree(gaussian.MaxShDegree).RestCoefficients(); i++ {
		fields[fmt.Sprintf("f_rest_%d", i)] = Slot{SlotSh, i}
	}

	return Schema{
		Name:   "legacy-dot",
		Fields: fields,
		Required: []string{
			"x", "y", "z",
			"f_dc_0", "f_dc_1", "f_dc_2",
			"opacity",
			"scale.x", "scale.y", "scale.z",
			"rot.w", "rot.x", "rot.y", "rot.z",
		},
	}
}

// resolveSlots selects the first matching schema and maps every declared
// property to a slot. Unrecognized properties become extras in declaration
// order. The number of SH properties must form a whole degree.
func resolveSlots(h *Header, schemas []Schema) (Schema, []Slot, gaussian.ShDegree, int, error) {
	var schema Schema
	matched := false
	for _, s := range schemas {
		if s.Matches(h) {
			schema = s
			matched = true
			break
		}
	}
	if !matched {
		return Schema{}, nil, 0, 0, errors.Wrap(ErrMalformedHeader, "no recognized property schema")
	}

	slots := make([]Slot, len(h.Properties))
	shCount := 0
	extraCount := 0
	for i, p := range h.Properties {
		if slot, ok := schema.Fields[p.Name]; ok {
			slots[i] = slot
			if slot.Kind == SlotSh {
				shCount++
			}
			continue
		}
		slots[i] = Slot{SlotExtra, extraCount}
		extraCount++
	}

	degree, err := gaussian.DegreeForRestCoefficients(shCount)
	if err != nil {
		return Schema{}, nil, 0, 0, errors.Wrapf(ErrMalformedHeader, "%d sh properties do not form a degree", shCount)
	}

	return schema, slots, degree, extraCount, nil
}
