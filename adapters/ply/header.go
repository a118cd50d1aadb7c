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

// Package ply reads and writes property-tagged point-cloud files holding
// Gaussian splats. The header declares named float properties for a single
// vertex element; the body is one fixed-layout record per element, either
// binary little-endian or ASCII. Property names are mapped to canonical
// fields through an explicit, ordered schema table.
package ply

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Format is the scalar serialization variant of the body. Property
// semantics are identical across variants.
type Format uint8

const (
	FormatBinary Format = iota // binary little-endian
	FormatASCII
)

func (f Format) String() string {
	switch f {
	case FormatBinary:
		return "binary_little_endian"
	case FormatASCII:
		return "ascii"
	default:
		return "unknown"
	}
}

// Property is one declared scalar property of the vertex element.
type Property struct {
	Name string
	Type string
}

// Header is the parsed PLY header. Count is exact and known before any
// record is decoded.
type Header struct {
	Format     Format
	Count      int
	Properties []Property
}

// ParseHeader reads and validates the header block up to and including
// end_header. Only a single "vertex" element with scalar float properties
// is accepted.
func ParseHeader(br *bufio.Reader) (*Header, error) {
	line, err := headerLine(br, 1)
	if err != nil {
		return nil, err
	}
	if line != "ply" {
		return nil, errors.Wrapf(ErrMalformedHeader, "line 1: expected %q, got %q", "ply", line)
	}

	h := &Header{Count: -1}
	sawFormat := false

	for lineNo := 2; ; lineNo++ {
		line, err := headerLine(br, lineNo)
		if err != nil {
			return nil, err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "comment", "obj_info":

		case "format":
			if len(fields) != 3 || fields[2] != "1.0" {
				return nil, errors.Wrapf(ErrMalformedHeader, "line %d: bad format line %q", lineNo, line)
			}
			switch fields[1] {
			case "binary_little_endian":
				h.Format = FormatBinary
			case "ascii":
				h.Format = FormatASCII
			default:
				return nil, errors.Wrapf(ErrMalformedHeader, "line %d: unsupported format %q", lineNo, fields[1])
			}
			sawFormat = true

		case "element":
			if len(fields) != 3 {
				return nil, errors.Wrapf(ErrMalformedHeader, "line %d: bad element line %q", lineNo, line)
			}
			if fields[1] != "vertex" {
				return nil, errors.Wrapf(ErrMalformedHeader, "line %d: unsupported element %q", lineNo, fields[1])
			}
			if h.Count >= 0 {
				return nil, errors.Wrapf(ErrMalformedHeader, "line %d: duplicate vertex element", lineNo)
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil || count < 0 {
				return nil, errors.Wrapf(ErrMalformedHeader, "line %d: bad vertex count %q", lineNo, fields[2])
			}
			h.Count = count

		case "property":
			if h.Count < 0 {
				return nil, errors.Wrapf(ErrMalformedHeader, "line %d: property before element", lineNo)
			}
			if len(fields) == 3 && fields[1] == "float" {
				h.Properties = append(h.Properties, Property{Name: fields[2], Type: fields[1]})
				continue
			}
			if len(fields) >= 2 && fields[1] == "list" {
				return nil, errors.Wrapf(ErrUnsupportedProperty, "line %d: list property %q", lineNo, line)
			}
			return nil, errors.Wrapf(ErrUnsupportedProperty, "line %d: non-float property %q", lineNo, line)

		case "end_header":
			if !sawFormat {
				return nil, errors.Wrap(ErrMalformedHeader, "missing format line")
			}
			if h.Count < 0 {
				return nil, errors.Wrap(ErrMalformedHeader, "missing vertex element")
			}
			return h, nil

		default:
			return nil, errors.Wrapf(ErrMalformedHeader, "line %d: unexpected keyword %q", lineNo, fields[0])
		}
	}
}

func headerLine(br *bufio.Reader, lineNo int) (string, error) {
	line, err := br.ReadString('\n')
	if err == io.EOF && line == "" {
		return "", errors.Wrapf(ErrMalformedHeader, "line %d: header truncated", lineNo)
	}
	if err != nil && err != io.EOF {
		return "", errors.Wrapf(err, "read header line %d", lineNo)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func writeHeader(w io.Writer, h *Header) error {
	var sb strings.Builder
	sb.WriteString("ply\n")
	fmt.Fprintf(&sb, "format %s 1.0\n", h.Format)
	fmt.Fprintf(&sb, "element vertex %d\n", h.Count)
	for _, p := range h.Properties {
		fmt.Fprintf(&sb, "property %s %s\n", p.Type, p.Name)
	}
	sb.WriteString("end_header\n")

	_, err := io.WriteString(w, sb.String())
	return errors.Wrap(err, "write ply header")
}
