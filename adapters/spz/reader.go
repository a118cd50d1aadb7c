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
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/weaviate/gsplat/entities/gaussian"
	"github.com/weaviate/gsplat/usecases/byteops"
)

// Header is the plain (uncompressed) container prefix.
type Header struct {
	Version  uint32
	Count    int
	ShDegree gaussian.ShDegree
}

// ReadHeader validates magic, version and degree without touching the
// compressed payload.
func ReadHeader(r io.Reader) (*Header, error) {
	raw := make([]byte, headerSize)
	if _, err := io.ReadFull(r, raw); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, errors.Wrap(ErrUnexpectedEOF, "header")
		}
		return nil, errors.Wrap(err, "read spz header")
	}

	buf := byteops.Wrap(raw)
	if magic := buf.ReadUint32(); magic != Magic {
		return nil, errors.Wrapf(ErrMagicMismatch, "0x%08x", magic)
	}

	h := &Header{Version: buf.ReadUint32()}
	if h.Version < minVersion || h.Version > Version {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "version %d, supported %d..%d",
			h.Version, minVersion, Version)
	}

	h.Count = int(buf.ReadUint32())

	degree, err := gaussian.NewShDegree(buf.ReadUint8())
	if err != nil {
		return nil, errors.Wrap(err, "spz header degree")
	}
	h.ShDegree = degree

	return h, nil
}

// Decode reads a whole container. The payload planes are buffered in their
// quantized form; splats are dequantized lazily by Cloud.At.
func Decode(r io.Reader, logger logrus.FieldLogger) (*Cloud, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	if logger != nil {
		logger.WithFields(logrus.Fields{
			"action":  "spz_read",
			"count":   h.Count,
			"degree":  h.ShDegree,
			"version": h.Version,
		}).Debug("spz header accepted")
	}

	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(ErrUnexpectedEOF, "payload is not a gzip stream")
	}
	defer zr.Close()

	n := h.ShDegree.RestCoefficients()
	c := &Cloud{count: h.Count, degree: h.ShDegree}

	for _, plane := range []struct {
		name string
		size int
		dst  *[]byte
	}{
		{"positions", h.Count * 9, &c.positions},
		{"alphas", h.Count, &c.alphas},
		{"colors", h.Count * 3, &c.colors},
		{"scales", h.Count * 3, &c.scales},
		{"rotations", h.Count * 3, &c.rotations},
		{"sh", h.Count * n, &c.sh},
	} {
		*plane.dst = make([]byte, plane.size)
		if _, err := io.ReadFull(zr, *plane.dst); err != nil {
			return nil, errors.Wrapf(ErrUnexpectedEOF, "%s plane: %v", plane.name, err)
		}
	}

	return c, nil
}

// DecodeFile opens and decodes a container file.
func DecodeFile(path string, logger logrus.FieldLogger) (*Cloud, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open spz file")
	}
	defer f.Close()

	return Decode(f, logger)
}

// ReadHeaderFile reads only the plain header of a container file.
func ReadHeaderFile(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open spz file")
	}
	defer f.Close()

	return ReadHeader(f)
}
