// Package timer implements the four timer registers at 0xFF04-0xFF07. DIV
// increments at 16384 Hz; TIMA counts at the rate TAC selects and reloads
// from TMA four cycles after it overflows, requesting the Timer interrupt
// at that point (§4.5).
package timer

import (
	"fmt"

	"github.com/lucasgreco/gbcore/internal/interrupts"
)

// timaPeriods gives the clock-cycle period of each TAC rate select value,
// indexed by TAC bits 1-0: 4096 Hz, 262144 Hz, 65536 Hz, 16384 Hz.
var timaPeriods = [4]uint16{1024, 16, 64, 256}

// Controller is the DIV/TIMA/TMA/TAC timer.
type Controller struct {
	// div is the full 16-bit internal divider; DIV reads the upper byte.
	div uint16

	tima uint8
	tma  uint8
	tac  uint8

	// overflowDelay counts down the 4-cycle gap between TIMA overflowing
	// and TMA actually being latched into it + the interrupt firing.
	overflowDelay int8

	irq *interrupts.Service
}

// NewController returns a timer with DIV free-running and TIMA disabled,
// matching the DMG post-boot-ROM state.
func NewController(irq *interrupts.Service) *Controller {
	return &Controller{div: 0xABCC, irq: irq, overflowDelay: -1}
}

func (c *Controller) enabled() bool { return c.tac&0x04 != 0 }

func (c *Controller) rate() uint16 { return timaPeriods[c.tac&0x03] }

// Advance steps the timer by the given number of clock cycles (each
// machine cycle is 4 clock cycles; DIV/TIMA periods above are expressed in
// clock cycles, and every tick below is one clock cycle).
func (c *Controller) Advance(cycles uint16) {
	for i := uint16(0); i < cycles; i++ {
		c.tick()
	}
}

func (c *Controller) tick() {
	if c.overflowDelay >= 0 {
		if c.overflowDelay == 0 {
			c.tima = c.tma
			c.irq.Request(interrupts.TimerFlag)
		}
		c.overflowDelay--
	}

	before := c.div
	c.div++

	if c.enabled() {
		bit := c.rate() >> 1
		if before&bit != 0 && c.div&bit == 0 {
			c.incrementTIMA()
		}
	}
}

func (c *Controller) incrementTIMA() {
	c.tima++
	if c.tima == 0 {
		// tick checks the countdown before decrementing it, so 3 lands the
		// reload on the fourth tick after this one.
		c.overflowDelay = 3
	}
}

// Read returns the value of DIV, TIMA, TMA or TAC.
func (c *Controller) Read(address uint16) uint8 {
	switch address {
	case 0xFF04:
		return uint8(c.div >> 8)
	case 0xFF05:
		return c.tima
	case 0xFF06:
		return c.tma
	case 0xFF07:
		return c.tac | 0xF8
	}
	panic(fmt.Sprintf("timer: illegal read from address %#04X", address))
}

// Write writes DIV, TIMA, TMA or TAC. Any write to DIV resets the full
// internal divider to zero.
func (c *Controller) Write(address uint16, value uint8) {
	switch address {
	case 0xFF04:
		c.div = 0
	case 0xFF05:
		c.tima = value
		c.overflowDelay = -1
	case 0xFF06:
		c.tma = value
	case 0xFF07:
		c.tac = value & 0x07
	default:
		panic(fmt.Sprintf("timer: illegal write to address %#04X", address))
	}
}
