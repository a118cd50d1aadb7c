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

// Package collection unifies the supported splat representations behind one
// interface: an owned canonical array, a PLY file source or an SPZ file
// source. A collection knows its exact length up front, iterates lazily and
// restartably, and converts between representations by routing through the
// canonical form.
package collection

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/weaviate/gsplat/adapters/ply"
	"github.com/weaviate/gsplat/adapters/spz"
	"github.com/weaviate/gsplat/entities/gaussian"
)

// ErrPrecisionLoss indicates a conversion into a representation whose
// declared SH degree is lower than the source's. Coefficients are never
// silently truncated.
var ErrPrecisionLoss = errors.New("conversion would lose sh coefficients")

// Kind tags the live representation of a collection.
type Kind uint8

const (
	KindRaw Kind = iota
	KindPLY
	KindSPZ
)

func (k Kind) String() string {
	switch k {
	case KindRaw:
		return "raw"
	case KindPLY:
		return "ply"
	case KindSPZ:
		return "spz"
	default:
		return "unknown"
	}
}

// Options configures file-backed sources.
type Options struct {
	// Schemas overrides the PLY property-naming table.
	Schemas []ply.Schema
	Logger  logrus.FieldLogger
}

func (o *Options) plyReaderOptions() *ply.ReaderOptions {
	if o == nil {
		return nil
	}
	return &ply.ReaderOptions{Schemas: o.Schemas, Logger: o.Logger}
}

func (o *Options) logger() logrus.FieldLogger {
	if o == nil {
		return nil
	}
	return o.Logger
}

// Collection is a tagged union over the supported sources. Exactly one
// representation is live; the collection owns it exclusively.
type Collection struct {
	kind   Kind
	count  int
	degree gaussian.ShDegree

	raw  []gaussian.Gaussian // KindRaw
	path string              // KindPLY, KindSPZ
	opts *Options
}

// FromGaussians wraps an owned canonical array at the declared degree.
func FromGaussians(gs []gaussian.Gaussian, degree gaussian.ShDegree) *Collection {
	return &Collection{kind: KindRaw, count: len(gs), degree: degree, raw: gs}
}

// OpenPLY validates the file's header and returns a lazy collection backed
// by it. No record is decoded yet.
func OpenPLY(path string, opts *Options) (*Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open ply file")
	}
	defer f.Close()

	r, err := ply.NewReader(f, opts.plyReaderOptions())
	if err != nil {
		return nil, err
	}

	return &Collection{
		kind:   KindPLY,
		count:  r.Count(),
		degree: r.ShDegree(),
		path:   path,
		opts:   opts,
	}, nil
}

// OpenSPZ validates the container header and returns a lazy collection
// backed by the file. The compressed payload is not decoded yet.
func OpenSPZ(path string, opts *Options) (*Collection, error) {
	h, err := spz.ReadHeaderFile(path)
	if err != nil {
		return nil, err
	}

	return &Collection{
		kind:   KindSPZ,
		count:  h.Count,
		degree: h.ShDegree,
		path:   path,
		opts:   opts,
	}, nil
}

// Kind returns the live representation.
func (c *Collection) Kind() Kind {
	return c.kind
}

// Len returns the exact number of splats without decoding any.
func (c *Collection) Len() int {
	return c.count
}

// ShDegree returns the declared SH degree of the representation.
func (c *Collection) ShDegree() gaussian.ShDegree {
	return c.degree
}

// Iter starts a fresh pass over the canonical sequence. Each call restarts
// from the beginning and yields the same sequence; file-backed sources are
// reopened. Dropping the iterator cancels the pass; Close releases any file
// handle early.
func (c *Collection) Iter() (Iterator, error) {
	switch c.kind {
	case KindRaw:
		return &sliceIterator{gs: c.raw, i: -1}, nil

	case KindPLY:
		f, err := os.Open(c.path)
		if err != nil {
			return nil, errors.Wrap(err, "reopen ply file")
		}
		r, err := ply.NewReader(f, c.opts.plyReaderOptions())
		if err != nil {
			f.Close()
			return nil, err
		}
		return &plyIterator{f: f, r: r}, nil

	case KindSPZ:
		// The container's planes are attribute-major, so a pass decodes
		// the quantized payload once up front; splats still dequantize
		// lazily per index.
		cloud, err := spz.DecodeFile(c.path, c.opts.logger())
		if err != nil {
			return nil, err
		}
		return &spzIterator{cloud: cloud, i: -1}, nil

	default:
		return nil, errors.Errorf("unknown collection kind %d", c.kind)
	}
}

// Gaussians materializes the whole sequence in order.
func (c *Collection) Gaussians() ([]gaussian.Gaussian, error) {
	if c.kind == KindRaw {
		return c.raw, nil
	}

	it, err := c.Iter()
	if err != nil {
		return nil, err
	}
	defer it.Close()

	out := make([]gaussian.Gaussian, 0, c.count)
	for it.Next() {
		out = append(out, it.At())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
