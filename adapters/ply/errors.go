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

import "github.com/pkg/errors"

var (
	// ErrMalformedHeader indicates a header that is not a valid splat PLY
	// header: bad magic, unsupported format line, missing vertex element or
	// no recognized property schema.
	ErrMalformedHeader = errors.New("malformed ply header")

	// ErrUnsupportedProperty indicates a declared property of a type this
	// reader cannot decode, e.g. a non-float scalar or a list.
	ErrUnsupportedProperty = errors.New("unsupported ply property")

	// ErrMalformedRecord indicates a body record that cannot be parsed,
	// e.g. a non-numeric ASCII token.
	ErrMalformedRecord = errors.New("malformed ply record")

	// ErrUnexpectedEOF indicates the body ended before the count committed
	// in the header was read.
	ErrUnexpectedEOF = errors.New("unexpected end of ply data")

	// ErrCountMismatch indicates a writer finalized with a different number
	// of records than the count committed in the header.
	ErrCountMismatch = errors.New("ply record count mismatch")
)
