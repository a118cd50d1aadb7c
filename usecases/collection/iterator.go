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
	"github.com/weaviate/gsplat/adapters/ply"
	"github.com/weaviate/gsplat/adapters/spz"
	"github.com/weaviate/gsplat/entities/gaussian"
)

// Iterator is a single forward pass over canonical Gaussians in point-index
// order. Next/At/Err follow the scanner idiom; Close releases the
// underlying handle and is safe to call at any point to cancel the pass.
type Iterator interface {
	Next() bool
	At() gaussian.Gaussian
	Err() error
	Close() error
}

type sliceIterator struct {
	gs []gaussian.Gaussian
	i  int
}

func (it *sliceIterator) Next() bool {
	if it.i+1 >= len(it.gs) {
		return false
	}
	it.i++
	return true
}

func (it *sliceIterator) At() gaussian.Gaussian {
	return it.gs[it.i]
}

func (it *sliceIterator) Err() error {
	return nil
}

func (it *sliceIterator) Close() error {
	return nil
}

type plyIterator struct {
	f   interface{ Close() error }
	r   *ply.Reader
	cur gaussian.Gaussian
}

func (it *plyIterator) Next() bool {
	if !it.r.Next() {
		return false
	}
	it.cur = it.r.At().Gaussian(it.r.ShDegree())
	return true
}

func (it *plyIterator) At() gaussian.Gaussian {
	return it.cur
}

func (it *plyIterator) Err() error {
	return it.r.Err()
}

func (it *plyIterator) Close() error {
	return it.f.Close()
}

type spzIterator struct {
	cloud *spz.Cloud
	i     int
}

func (it *spzIterator) Next() bool {
	if it.i+1 >= it.cloud.Count() {
		return false
	}
	it.i++
	return true
}

func (it *spzIterator) At() gaussian.Gaussian {
	return it.cloud.At(it.i)
}

func (it *spzIterator) Err() error {
	return nil
}

func (it *spzIterator) Close() error {
	return nil
}
