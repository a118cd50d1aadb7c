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

package collection

import (
	"os"

	"github.com/pkg/errors"
	"github.com/weaviate/gsplat/adapters/ply"
	"github.com/weaviate/gsplat/adapters/spz"
	"github.com/weaviate/gsplat/entities/gaussian"
)

// Target describes the representation to convert into.
type Target struct {
	Kind Kind
	// Path is the output file for file-backed targets.
	Path string
	// Degree is the declared SH degree of the target. A degree below the
	// source's fails with ErrPrecisionLoss; a higher one zero-pads.
	Degree gaussian.ShDegree
	// ASCII selects the text variant for PLY targets.
	ASCII bool
}

// ConvertTo produces a new collection in the target representation. The
// source is routed through the canonical in-memory form: two streaming
// sources cannot be transcoded element by element without decoding, so the
// whole array is buffered (documented cost, see Gaussians). Element order
// is preserved exactly.
func (c *Collection) ConvertTo(t Target) (*Collection, error) {
	if t.Degree < c.degree {
		return nil, errors.Wrapf(ErrPrecisionLoss, "source degree %d, target degree %d",
			c.degree, t.Degree)
	}

	// Zero-padding to the higher degree is inherent: the canonical SH
	// block is always full size with zeros beyond the source degree.
	gs, err := c.Gaussians()
	if err != nil {
		return nil, errors.Wrap(err, "materialize source")
	}

	switch t.Kind {
	case KindRaw:
		return FromGaussians(gs, t.Degree), nil

	case KindPLY:
		if err := writePLY(t, gs, c.opts); err != nil {
			return nil, err
		}
		return OpenPLY(t.Path, c.opts)

	case KindSPZ:
		cloud := spz.FromGaussians(gs, t.Degree)
		if err := spz.EncodeFile(t.Path, cloud, c.opts.logger()); err != nil {
			return nil, err
		}
		return OpenSPZ(t.Path, c.opts)

	default:
		return nil, errors.Errorf("unknown target kind %d", t.Kind)
	}
}

func writePLY(t Target, gs []gaussian.Gaussian, opts *Options) error {
	f, err := os.Create(t.Path)
	if err != nil {
		return errors.Wrap(err, "create ply file")
	}

	format := ply.FormatBinary
	if t.ASCII {
		format = ply.FormatASCII
	}

	w, err := ply.NewWriter(f, len(gs), &ply.WriterOptions{
		Format: format,
		Degree: t.Degree,
		Logger: opts.logger(),
	})
	if err != nil {
		f.Close()
		return err
	}

	for i := range gs {
		if err := w.WriteGaussian(&gs[i], t.Degree); err != nil {
			f.Close()
			return errors.Wrapf(err, "splat %d", i)
		}
	}

	if err := w.Close(); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "close ply file")
}
