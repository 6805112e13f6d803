// Package cpu implements the Sharp LR35902 interpreter of §4.3: the
// register file, flag arithmetic, the primary and CB-prefixed 256-entry
// opcode tables, the stack, and interrupt dispatch.
package cpu

import (
	"fmt"

	"github.com/lucasgreco/gbcore/internal/interrupts"
	"github.com/lucasgreco/gbcore/pkg/log"
)

// Bus is everything the CPU needs from the memory bus: a byte-addressed
// read/write pair. Kept as a local interface so this package never imports
// the bus package (§9 "avoid cyclic ownership": bus owns CPU and PPU as
// peers, not the other way around).
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// CPU is the Sharp LR35902 instruction interpreter.
type CPU struct {
	Registers

	PC, SP uint16

	halted  bool
	haltBug bool

	ime       bool
	eiPending uint8 // counts down to the step where EI's IME<-1 takes effect

	cycles uint16 // accumulated clock cycles for the instruction in flight

	bus Bus
	irq *interrupts.Service

	log   log.Logger
	Trace bool // when true, Step logs each decoded mnemonic
}

// New returns a CPU reset to the standard DMG post-boot-ROM state (§3
// "Reset values"): AF=0x01B0, BC=0x0013, DE=0x00D8, HL=0x014D, SP=0xFFFE,
// PC=0x0100.
func New(bus Bus, irq *interrupts.Service, logger log.Logger) *CPU {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	c := &CPU{bus: bus, irq: irq, log: logger}
	c.AF = &RegisterPair{&c.A, &c.F}
	c.BC = &RegisterPair{&c.B, &c.C}
	c.DE = &RegisterPair{&c.D, &c.E}
	c.HL = &RegisterPair{&c.H, &c.L}

	c.AF.SetUint16(0x01B0)
	c.BC.SetUint16(0x0013)
	c.DE.SetUint16(0x00D8)
	c.HL.SetUint16(0x014D)
	c.SP = 0xFFFE
	c.PC = 0x0100

	return c
}

func (c *CPU) tick(clockCycles uint16) { c.cycles += clockCycles }

func (c *CPU) fetch8() uint8 {
	v := c.bus.Read(c.PC)
	c.PC++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

// Step executes exactly one instruction (or, while halted, one 4-cycle
// no-op) and returns the number of clock cycles it took, for the driver to
// feed to the PPU and timer.
func (c *CPU) Step() uint16 {
	c.cycles = 0

	if c.halted {
		if c.irq.Pending() {
			c.halted = false
		} else {
			c.tick(4)
			return c.cycles
		}
	}

	if c.eiPending > 0 {
		c.eiPending--
		if c.eiPending == 0 {
			c.ime = true
		}
	}

	if c.ime && c.irq.Pending() {
		c.dispatchInterrupt()
		return c.cycles
	}

	c.executeOne()
	return c.cycles
}

func (c *CPU) executeOne() {
	var opcode uint8
	if c.haltBug {
		// The halt bug: PC failed to advance past the opcode that woke the
		// CPU, so that byte is fetched and executed a second time.
		c.haltBug = false
		opcode = c.bus.Read(c.PC)
	} else {
		opcode = c.fetch8()
	}

	if opcode == 0xCB {
		cb := c.fetch8()
		instr := cbTable[cb]
		instr.fn(c)
		c.tick(uint16(instr.cycles))
		return
	}

	instr := primaryTable[opcode]
	if c.Trace {
		c.log.Debugf("%#04X: %s", c.PC-1, instr.name)
	}
	taken := instr.fn(c)
	if taken {
		c.tick(uint16(instr.altCycles))
	} else {
		c.tick(uint16(instr.cycles))
	}
}

// dispatchInterrupt handles the highest-priority pending, enabled
// interrupt: clear IME, push PC, jump to the vector. Costs 20 cycles and
// also wakes a halted CPU regardless of IME (handled in Step before this
// is reached).
func (c *CPU) dispatchInterrupt() {
	vector := c.irq.Vector()
	c.ime = false
	c.pushPC(c.PC)
	c.PC = vector
	c.tick(20)
}

func (c *CPU) pushPC(pc uint16) {
	c.SP--
	c.bus.Write(c.SP, uint8(pc>>8))
	c.SP--
	c.bus.Write(c.SP, uint8(pc))
}

func (c *CPU) popPC() uint16 {
	lo := c.bus.Read(c.SP)
	c.SP++
	hi := c.bus.Read(c.SP)
	c.SP++
	return uint16(hi)<<8 | uint16(lo)
}

// halt enters HALT, reproducing the DMG halt bug (§4.3): if IME is
// disabled and an interrupt is already pending, the CPU does not actually
// halt — PC fails to advance past the following opcode, which then
// executes twice.
func (c *CPU) halt() {
	if !c.ime && c.irq.Pending() {
		c.haltBug = true
		return
	}
	c.halted = true
}

// registerIndex maps a 3-bit register field (the encoding used throughout
// the primary and CB tables for r ∈ {B,C,D,E,H,L,(HL),A}) to a Register
// pointer; callers handle index 6 ((HL)) as a memory operand before
// reaching here.
func (c *CPU) registerIndex(index uint8) *Register {
	switch index {
	case 0:
		return &c.B
	case 1:
		return &c.C
	case 2:
		return &c.D
	case 3:
		return &c.E
	case 4:
		return &c.H
	case 5:
		return &c.L
	case 7:
		return &c.A
	}
	panic(fmt.Sprintf("cpu: registerIndex called with (HL) index %d", index))
}
