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
	"github.com/weaviate/gsplat/usecases/byteops"
)

// Encode writes the container: plain header, then the quantized planes as
// one gzip stream in the fixed plane order.
func Encode(w io.Writer, c *Cloud, logger logrus.FieldLogger) error {
	head := byteops.New(headerSize)
	head.WriteUint32(Magic)
	head.WriteUint32(Version)
	head.WriteUint32(uint32(c.count))
	head.WriteUint8(uint8(c.degree))

	if _, err := w.Write(head.Data); err != nil {
		return errors.Wrap(err, "write spz header")
	}

	if logger != nil {
		logger.WithFields(logrus.Fields{
			"action": "spz_write",
			"count":  c.count,
			"degree": c.degree,
		}).Debug("spz header committed")
	}

	zw := gzip.NewWriter(w)
	for _, plane := range [][]byte{
		c.positions, c.alphas, c.colors, c.scales, c.rotations, c.sh,
	} {
		if _, err := zw.Write(plane); err != nil {
			return errors.Wrap(err, "write spz plane")
		}
	}

	return errors.Wrap(zw.Close(), "finalize spz payload")
}

// EncodeFile writes a container file.
func EncodeFile(path string, c *Cloud, logger logrus.FieldLogger) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create spz file")
	}

	if err := Encode(f, c, logger); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "close spz file")
}
