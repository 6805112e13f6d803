// Package ram provides the fixed-size byte-addressable blocks the core
// hands out for working RAM, video RAM and high RAM. Addresses passed in are
// always relative to the start of the block.
package ram

import "fmt"

// RAM is a fixed-size, zero-indexed block of bytes.
type RAM interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
	Size() uint32
}

// Ram is a flat byte array backing one memory-mapped region.
type Ram struct {
	data []uint8
	size uint32
}

// New returns a new RAM block of the given size, zero-initialized.
func New(size uint32) *Ram {
	return &Ram{
		data: make([]uint8, size),
		size: size,
	}
}

func (r *Ram) Size() uint32 { return r.size }

// Read returns the value at the given address.
func (r *Ram) Read(address uint16) uint8 {
	if uint32(address) >= r.size {
		panic(fmt.Sprintf("ram: address out of bounds: %#04x (size %d)", address, r.size))
	}
	return r.data[address]
}

// Write writes the value to the given address.
func (r *Ram) Write(address uint16, value uint8) {
	if uint32(address) >= r.size {
		panic(fmt.Sprintf("ram: address out of bounds: %#04x (size %d)", address, r.size))
	}
	r.data[address] = value
}
