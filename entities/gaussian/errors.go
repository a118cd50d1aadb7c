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

package gaussian

import "github.com/pkg/errors"

var (
	// ErrDegreeOutOfRange indicates an SH degree outside [0, 3].
	ErrDegreeOutOfRange = errors.New("sh degree out of range")

	// ErrScaleIsZero indicates a zero scale component where an inverse is
	// required.
	ErrScaleIsZero = errors.New("scale component is zero")
)
