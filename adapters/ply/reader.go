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
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/weaviate/gsplat/entities/gaussian"
)

// ReaderOptions configures header interpretation.
type ReaderOptions struct {
	// Schemas is the ordered property-naming table; nil means
	// DefaultSchemas().
	Schemas []Schema
	Logger  logrus.FieldLogger
}

func (o *ReaderOptions) schemas() []Schema {
	if o != nil && o.Schemas != nil {
		return o.Schemas
	}
	return DefaultSchemas()
}

func (o *ReaderOptions) logger() logrus.FieldLogger {
	if o != nil && o.Logger != nil {
		return o.Logger
	}
	return noopLogger()
}

// Reader decodes records in a strictly sequential forward scan. The element
// count is exact and available before the first record. One corrupt record
// invalidates the rest of the source; Next never recovers past an error.
type Reader struct {
	br     *bufio.Reader
	header *Header
	schema Schema
	slots  []Slot
	degree gaussian.ShDegree
	extras int

	rec    Record
	rowBuf []byte
	index  int
	err    error
}

// NewReader parses and validates the header and selects the property
// schema. The body is not touched until Next is called.
func NewReader(r io.Reader, opts *ReaderOptions) (*Reader, error) {
	br := bufio.NewReader(r)

	header, err := ParseHeader(br)
	if err != nil {
		return nil, err
	}

	schema, slots, degree, extras, err := resolveSlots(header, opts.schemas())
	if err != nil {
		return nil, err
	}

	opts.logger().WithFields(logrus.Fields{
		"action": "ply_read",
		"schema": schema.Name,
		"count":  header.Count,
		"degree": degree,
		"format": header.Format.String(),
	}).Debug("ply header accepted")

	return &Reader{
		br:     br,
		header: header,
		schema: schema,
		slots:  slots,
		degree: degree,
		extras: extras,
		rowBuf: make([]byte, 4*len(header.Properties)),
	}, nil
}

// Count returns the exact element count committed in the header.
func (r *Reader) Count() int {
	return r.header.Count
}

// ShDegree returns the SH degree declared by the property layout.
func (r *Reader) ShDegree() gaussian.ShDegree {
	return r.degree
}

// Header returns the parsed header, including unrecognized properties, for
// lossless write-back.
func (r *Reader) Header() *Header {
	return r.header
}

// Schema returns the naming schema that matched the header.
func (r *Reader) Schema() Schema {
	return r.schema
}

// Next advances to the next record. It returns false at the committed count
// or on the first error; Err distinguishes the two.
func (r *Reader) Next() bool {
	if r.err != nil || r.index >= r.header.Count {
		return false
	}

	r.rec = Record{Extras: make([]float32, r.extras)}

	var err error
	switch r.header.Format {
	case FormatBinary:
		err = r.readBinary()
	case FormatASCII:
		err = r.readASCII()
	}
	if err != nil {
		r.err = errors.Wrapf(err, "record %d", r.index)
		return false
	}

	r.index++
	return true
}

// At returns the current record. Valid until the next call to Next.
func (r *Reader) At() *Record {
	return &r.rec
}

// Err returns the error that terminated the scan, if any.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) readBinary() error {
	if _, err := io.ReadFull(r.br, r.rowBuf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return ErrUnexpectedEOF
		}
		return errors.Wrap(err, "read record")
	}

	for i, slot := range r.slots {
		bits := binary.LittleEndian.Uint32(r.rowBuf[4*i : 4*i+4])
		r.rec.set(slot, math.Float32frombits(bits))
	}
	return nil
}

func (r *Reader) readASCII() error {
	line, err := r.br.ReadString('\n')
	if err == io.EOF && line == "" {
		return ErrUnexpectedEOF
	}
	if err != nil && err != io.EOF {
		return errors.Wrap(err, "read record line")
	}

	fields := strings.Fields(line)
	if len(fields) < len(r.slots) {
		return errors.Wrapf(ErrUnexpectedEOF, "%d of %d values", len(fields), len(r.slots))
	}

	for i, slot := range r.slots {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return errors.Wrapf(ErrMalformedRecord, "value %d %q", i, fields[i])
		}
		r.rec.set(slot, float32(v))
	}
	return nil
}

func noopLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
