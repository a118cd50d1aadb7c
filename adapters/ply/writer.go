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
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/weaviate/gsplat/entities/gaussian"
)

// WriterOptions configures the emitted header.
type WriterOptions struct {
	// Format selects the body serialization; binary little-endian by
	// default.
	Format Format
	// Degree bounds the number of f_rest properties emitted.
	Degree gaussian.ShDegree
	Logger logrus.FieldLogger
}

// Writer streams records after committing the element count to the header.
// Close fails with ErrCountMismatch if the streamed record count disagrees
// with the committed one; a file whose header lies about its body is never
// produced silently.
type Writer struct {
	bw      *bufio.Writer
	header  *Header
	slots   []Slot
	count   int
	written int
	rowBuf  []byte
	logger  logrus.FieldLogger
}

// NewWriter commits count to an Inria-schema header for the given degree
// and returns a writer for exactly that many records.
func NewWriter(w io.Writer, count int, opts *WriterOptions) (*Writer, error) {
	var (
		format Format
		degree gaussian.ShDegree
		logger logrus.FieldLogger = noopLogger()
	)
	if opts != nil {
		format = opts.Format
		degree = opts.Degree
		if opts.Logger != nil {
			logger = opts.Logger
		}
	}

	header := &Header{Format: format, Count: count, Properties: inriaProperties(degree)}
	return NewWriterForHeader(w, header, logger)
}

// NewWriterForHeader commits an existing header verbatim, preserving
// unrecognized properties for lossless write-back of a previously read
// file. The header must resolve against the default schema table.
func NewWriterForHeader(w io.Writer, header *Header, logger logrus.FieldLogger) (*Writer, error) {
	_, slots, _, _, err := resolveSlots(header, DefaultSchemas())
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = noopLogger()
	}

	bw := bufio.NewWriter(w)
	if err := writeHeader(bw, header); err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"action": "ply_write",
		"count":  header.Count,
		"format": header.Format.String(),
	}).Debug("ply header committed")

	return &Writer{
		bw:     bw,
		header: header,
		slots:  slots,
		count:  header.Count,
		rowBuf: make([]byte, 4*len(header.Properties)),
		logger: logger,
	}, nil
}

// WriteRecord emits one record in declared property order.
func (w *Writer) WriteRecord(rec *Record) error {
	if w.written >= w.count {
		return errors.Wrapf(ErrCountMismatch, "more than %d records", w.count)
	}

	var err error
	switch w.header.Format {
	case FormatBinary:
		for i, slot := range w.slots {
			bits := math.Float32bits(rec.get(slot))
			binary.LittleEndian.PutUint32(w.rowBuf[4*i:4*i+4], bits)
		}
		_, err = w.bw.Write(w.rowBuf)
	case FormatASCII:
		err = w.writeASCII(rec)
	}
	if err != nil {
		return errors.Wrapf(err, "write record %d", w.written)
	}

	w.written++
	return nil
}

// WriteGaussian converts a canonical Gaussian and writes it.
func (w *Writer) WriteGaussian(g *gaussian.Gaussian, deg gaussian.ShDegree) error {
	rec := RecordFromGaussian(g, deg)
	return w.WriteRecord(&rec)
}

func (w *Writer) writeASCII(rec *Record) error {
	for i, slot := range w.slots {
		if i > 0 {
			if err := w.bw.WriteByte(' '); err != nil {
				return err
			}
		}
		s := strconv.FormatFloat(float64(rec.get(slot)), 'g', -1, 32)
		if _, err := w.bw.WriteString(s); err != nil {
			return err
		}
	}
	return w.bw.WriteByte('\n')
}

// Close flushes and verifies the committed count.
func (w *Writer) Close() error {
	if err := w.bw.Flush(); err != nil {
		return errors.Wrap(err, "flush ply body")
	}
	if w.written != w.count {
		return errors.Wrapf(ErrCountMismatch, "committed %d, wrote %d", w.count, w.written)
	}
	return nil
}

// inriaProperties builds the property list of the Inria naming for a
// degree.
func inriaProperties(deg gaussian.ShDegree) []Property {
	props := make([]Property, 0, 17+deg.RestCoefficients())
	add := func(names ...string) {
		for _, n := range names {
			props = append(props, Property{Name: n, Type: "float"})
		}
	}

	add("x", "y", "z", "nx", "ny", "nz", "f_dc_0", "f_dc_1", "f_dc_2")
	for i := 0; i < deg.RestCoefficients(); i++ {
		add(fmt.Sprintf("f_rest_%d", i))
	}
	add("opacity", "scale_0", "scale_1", "scale_2", "rot_0", "rot_1", "rot_2", "rot_3")

	return props
}
