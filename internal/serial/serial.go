// Package serial provides the serial transfer registers (SB/SC). No link
// cable peer is modeled (out of scope, §1) — a transfer started with the
// internal clock completes immediately, which is exactly what link-cable-less
// test ROMs (Blargg's cpu_instrs, end-to-end scenario 2) rely on to push
// their ASCII result string out one byte at a time.
package serial

import (
	"fmt"

	"github.com/lucasgreco/gbcore/internal/interrupts"
)

// Controller holds SB (0xFF01) and SC (0xFF02).
type Controller struct {
	data    uint8
	control uint8

	irq *interrupts.Service

	// OnByte, if set, is invoked with the transferred byte each time a
	// transfer completes. Tests use this to assert on a test ROM's output.
	OnByte func(b uint8)
}

// NewController returns a serial Controller with no transfer in flight.
func NewController(irq *interrupts.Service) *Controller {
	return &Controller{irq: irq}
}

// Read returns the value of SB or SC.
func (c *Controller) Read(address uint16) uint8 {
	switch address {
	case 0xFF01:
		return c.data
	case 0xFF02:
		return c.control | 0x7E
	}
	panic(fmt.Sprintf("serial: illegal read from address %#04X", address))
}

// Write writes SB or SC. Writing SC with bit 7 and bit 0 both set (internal
// clock, transfer requested) completes the transfer on the spot: no
// external peer exists to clock it out over real time, so the byte is
// handed to OnByte and the transfer-complete interrupt is raised
// immediately, matching the no-link-cable simplification from §1/§12.
func (c *Controller) Write(address uint16, value uint8) {
	switch address {
	case 0xFF01:
		c.data = value
	case 0xFF02:
		c.control = value
		if value&0x81 == 0x81 {
			if c.OnByte != nil {
				c.OnByte(c.data)
			}
			c.data = 0xFF
			c.control &^= 0x80
			c.irq.Request(interrupts.SerialFlag)
		}
	default:
		panic(fmt.Sprintf("serial: illegal write to address %#04X", address))
	}
}
