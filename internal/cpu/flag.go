package cpu

import "github.com/lucasgreco/gbcore/pkg/bits"

// Flag bit positions within F, per §3: bits 3..0 always read zero even if
// written.
const (
	flagZero      uint8 = 7
	flagSubtract  uint8 = 6
	flagHalfCarry uint8 = 5
	flagCarry     uint8 = 4
)

func (c *CPU) setFlag(flag uint8, on bool) {
	if on {
		c.F = bits.Set(c.F, flag)
	} else {
		c.F = bits.Reset(c.F, flag)
	}
	c.F &= 0xF0
}

// setFlags sets all four flags at once, matching the order every opcode
// handler below reasons about them in: Z, N, H, C.
func (c *CPU) setFlags(z, n, h, cy bool) {
	c.F = 0
	if z {
		c.F = bits.Set(c.F, flagZero)
	}
	if n {
		c.F = bits.Set(c.F, flagSubtract)
	}
	if h {
		c.F = bits.Set(c.F, flagHalfCarry)
	}
	if cy {
		c.F = bits.Set(c.F, flagCarry)
	}
}

func (c *CPU) flag(flag uint8) bool { return bits.Test(c.F, flag) }

func boolToFlagBit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
