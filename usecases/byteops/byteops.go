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

// Package byteops provides helpers to (un-) marshal scalars from or into a
// little-endian buffer with a running position. All codec block layouts in
// this module are produced and consumed through these helpers so the byte
// order lives in one place.
package byteops

import (
	"encoding/binary"
	"math"

	"github.com/x448/float16"
)

const (
	uint16Len  = 2
	uint24Len  = 3
	uint32Len  = 4
	float32Len = 4
	float16Len = 2
)

// Buffer is a fixed-size byte buffer with a cursor. The caller sizes the
// buffer up front; reads and writes past the end panic like any slice
// overrun, they are programming errors rather than runtime conditions.
type Buffer struct {
	Position int
	Data     []byte
}

// New allocates a zeroed buffer of the given size.
func New(size int) *Buffer {
	return &Buffer{Data: make([]byte, size)}
}

// Wrap places the cursor at the start of an existing buffer.
func Wrap(data []byte) *Buffer {
	return &Buffer{Data: data}
}

// Remaining returns the number of unread bytes.
func (b *Buffer) Remaining() int {
	return len(b.Data) - b.Position
}

func (b *Buffer) ReadUint8() uint8 {
	b.Position++
	return b.Data[b.Position-1]
}

func (b *Buffer) ReadUint16() uint16 {
	b.Position += uint16Len
	return binary.LittleEndian.Uint16(b.Data[b.Position-uint16Len : b.Position])
}

// ReadUint24 reads three little-endian bytes into the low bits of a uint32.
func (b *Buffer) ReadUint24() uint32 {
	b.Position += uint24Len
	d := b.Data[b.Position-uint24Len : b.Position]
	return uint32(d[0]) | uint32(d[1])<<8 | uint32(d[2])<<16
}

func (b *Buffer) ReadUint32() uint32 {
	b.Position += uint32Len
	return binary.LittleEndian.Uint32(b.Data[b.Position-uint32Len : b.Position])
}

func (b *Buffer) ReadFloat32() float32 {
	return math.Float32frombits(b.ReadUint32())
}

// ReadFloat16 reads an IEEE 754 half-precision value and widens it to
// float32.
func (b *Buffer) ReadFloat16() float32 {
	b.Position += float16Len
	bits := binary.LittleEndian.Uint16(b.Data[b.Position-float16Len : b.Position])
	return float16.Frombits(bits).Float32()
}

func (b *Buffer) ReadBytes(length int) []byte {
	b.Position += length
	return b.Data[b.Position-length : b.Position]
}

func (b *Buffer) WriteUint8(v uint8) {
	b.Data[b.Position] = v
	b.Position++
}

func (b *Buffer) WriteUint16(v uint16) {
	b.Position += uint16Len
	binary.LittleEndian.PutUint16(b.Data[b.Position-uint16Len:b.Position], v)
}

// WriteUint24 writes the low three bytes of v little-endian.
func (b *Buffer) WriteUint24(v uint32) {
	b.Position += uint24Len
	d := b.Data[b.Position-uint24Len : b.Position]
	d[0] = byte(v)
	d[1] = byte(v >> 8)
	d[2] = byte(v >> 16)
}

func (b *Buffer) WriteUint32(v uint32) {
	b.Position += uint32Len
	binary.LittleEndian.PutUint32(b.Data[b.Position-uint32Len:b.Position], v)
}

func (b *Buffer) WriteFloat32(v float32) {
	b.WriteUint32(math.Float32bits(v))
}

// WriteFloat16 narrows v to half precision (IEEE round-to-nearest-even) and
// writes it.
func (b *Buffer) WriteFloat16(v float32) {
	b.Position += float16Len
	binary.LittleEndian.PutUint16(
		b.Data[b.Position-float16Len:b.Position],
		float16.Fromfloat32(v).Bits(),
	)
}

func (b *Buffer) WriteBytes(data []byte) {
	b.Position += len(data)
	copy(b.Data[b.Position-len(data):b.Position], data)
}

// Float16Round narrows v through half precision and back, the rounding every
// half-packed block applies.
func Float16Round(v float32) float32 {
	return float16.Fromfloat32(v).Float32()
}
