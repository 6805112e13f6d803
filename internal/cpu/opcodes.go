package cpu

import "fmt"

// Instruction is one entry of the primary 256-entry opcode table (§4.3):
// a mnemonic for tracing, the base and taken-branch cycle costs, and the
// execution semantics. fn returns whether a conditional branch was taken;
// unconditional instructions always return false and altCycles equals
// cycles for them.
type Instruction struct {
	name      string
	cycles    uint8
	altCycles uint8
	fn        func(*CPU) bool
}

func unconditional(name string, cycles uint8, fn func(*CPU)) Instruction {
	return Instruction{name: name, cycles: cycles, altCycles: cycles, fn: func(c *CPU) bool {
		fn(c)
		return false
	}}
}

func disallowed(opcode uint8) Instruction {
	name := fmt.Sprintf("disallowed opcode %#02X", opcode)
	return Instruction{name: name, cycles: 4, altCycles: 4, fn: func(c *CPU) bool {
		panic("cpu: " + name + fmt.Sprintf(" executed at PC=%#04X", c.PC-1))
	}}
}

var primaryTable [256]Instruction

// pairGet/pairSet read/write one of the four 16-bit register pairs selected by
// a 2-bit field, in the BC/DE/HL/SP ordering used by the 0x?1/0x?3/0x?9/0x?B
// opcode families.
func (c *CPU) pairGet(index uint8) uint16 {
	switch index {
	case 0:
		return c.BC.Uint16()
	case 1:
		return c.DE.Uint16()
	case 2:
		return c.HL.Uint16()
	case 3:
		return c.SP
	}
	panic("cpu: invalid 16-bit pair index")
}

func (c *CPU) pairSet(index uint8, value uint16) {
	switch index {
	case 0:
		c.BC.SetUint16(value)
	case 1:
		c.DE.SetUint16(value)
	case 2:
		c.HL.SetUint16(value)
	case 3:
		c.SP = value
	}
}

var pairNames16 = [4]string{"BC", "DE", "HL", "SP"}

// pairGet2/pairSet2 address the PUSH/POP family's register ordering, which
// substitutes AF for SP as the fourth pair.
func (c *CPU) pairGet2(index uint8) uint16 {
	if index == 3 {
		return c.AF.Uint16()
	}
	return c.pairGet(index)
}

func (c *CPU) pairSet2(index uint8, value uint16) {
	if index == 3 {
		c.AF.SetUint16(value & 0xFFF0)
		return
	}
	c.pairSet(index, value)
}

var pairNames2 = [4]string{"BC", "DE", "HL", "AF"}

// registerName8 names the 3-bit register-field encoding used throughout
// the primary and CB tables, for tracing.
var registerName8 = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

// readR8/writeR8 resolve the 3-bit register field to either a register
// byte or, for index 6, the byte at (HL).
func (c *CPU) readR8(index uint8) uint8 {
	if index == 6 {
		return c.bus.Read(c.HL.Uint16())
	}
	return *c.registerIndex(index)
}

func (c *CPU) writeR8(index uint8, value uint8) {
	if index == 6 {
		c.bus.Write(c.HL.Uint16(), value)
		return
	}
	*c.registerIndex(index) = value
}

func init() {
	buildIrregularOpcodes()
	buildIncDecLdImmGrid()
	buildLoadGrid()
	buildALUGrid()
}

// buildIncDecLdImmGrid fills the regular INC r/DEC r/LD r,d8 family at
// opcodes 0x04+8i, 0x05+8i, 0x06+8i for register index i (B,C,D,E,H,L,(HL),A).
func buildIncDecLdImmGrid() {
	for i := uint8(0); i < 8; i++ {
		i := i
		memOperand := i == 6

		incCycles, decCycles, ldCycles := uint8(4), uint8(4), uint8(8)
		if memOperand {
			incCycles, decCycles, ldCycles = 12, 12, 12
		}

		primaryTable[0x04+8*i] = unconditional("INC "+registerName8[i], incCycles, func(c *CPU) {
			c.writeR8(i, c.inc(c.readR8(i)))
		})
		primaryTable[0x05+8*i] = unconditional("DEC "+registerName8[i], decCycles, func(c *CPU) {
			c.writeR8(i, c.dec(c.readR8(i)))
		})
		primaryTable[0x06+8*i] = unconditional("LD "+registerName8[i]+",d8", ldCycles, func(c *CPU) {
			c.writeR8(i, c.fetch8())
		})
	}
}

// buildLoadGrid fills the LD r,r' grid at 0x40-0x7F, with 0x76 (LD (HL),(HL)
// encoded) overridden as HALT.
func buildLoadGrid() {
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			dst, src := dst, src
			opcode := 0x40 + 8*dst + src
			if dst == 6 && src == 6 {
				primaryTable[opcode] = unconditional("HALT", 4, func(c *CPU) { c.halt() })
				continue
			}
			cycles := uint8(4)
			if dst == 6 || src == 6 {
				cycles = 8
			}
			name := "LD " + registerName8[dst] + "," + registerName8[src]
			primaryTable[opcode] = unconditional(name, cycles, func(c *CPU) {
				c.writeR8(dst, c.readR8(src))
			})
		}
	}
}

// buildALUGrid fills the ADD/ADC/SUB/SBC/AND/XOR/OR/CP A,r grid at 0x80-0xBF.
func buildALUGrid() {
	ops := [8]struct {
		name string
		fn   func(*CPU, uint8)
	}{
		{"ADD A,", (*CPU).add},
		{"ADC A,", (*CPU).adc},
		{"SUB ", (*CPU).sub},
		{"SBC A,", (*CPU).sbc},
		{"AND ", (*CPU).and},
		{"XOR ", (*CPU).xor},
		{"OR ", (*CPU).or},
		{"CP ", (*CPU).cp},
	}
	for op := uint8(0); op < 8; op++ {
		for src := uint8(0); src < 8; src++ {
			op, src := op, src
			opcode := 0x80 + 8*op + src
			cycles := uint8(4)
			if src == 6 {
				cycles = 8
			}
			fn := ops[op].fn
			primaryTable[opcode] = unconditional(ops[op].name+registerName8[src], cycles, func(c *CPU) {
				fn(c, c.readR8(src))
			})
		}
	}
}

// buildIrregularOpcodes fills every opcode not covered by the regular
// grids above: control flow, stack, 16-bit loads/arithmetic, and the
// miscellaneous single-byte ops.
func buildIrregularOpcodes() {
	primaryTable[0x00] = unconditional("NOP", 4, func(c *CPU) {})

	for i := uint8(0); i < 4; i++ {
		i := i
		primaryTable[0x01+0x10*i] = unconditional("LD "+pairNames16[i]+",d16", 12, func(c *CPU) {
			c.pairSet(i, c.fetch16())
		})
		primaryTable[0x03+0x10*i] = unconditional("INC "+pairNames16[i], 8, func(c *CPU) {
			c.pairSet(i, c.pairGet(i)+1)
		})
		primaryTable[0x0B+0x10*i] = unconditional("DEC "+pairNames16[i], 8, func(c *CPU) {
			c.pairSet(i, c.pairGet(i)-1)
		})
		primaryTable[0x09+0x10*i] = unconditional("ADD HL,"+pairNames16[i], 8, func(c *CPU) {
			c.addHL(c.pairGet(i))
		})
		primaryTable[0xC1+0x10*i] = unconditional("POP "+pairNames2[i], 12, func(c *CPU) {
			c.pairSet2(i, c.popPC())
		})
		primaryTable[0xC5+0x10*i] = unconditional("PUSH "+pairNames2[i], 16, func(c *CPU) {
			c.pushPC(c.pairGet2(i))
		})
	}

	primaryTable[0x02] = unconditional("LD (BC),A", 8, func(c *CPU) { c.bus.Write(c.BC.Uint16(), c.A) })
	primaryTable[0x12] = unconditional("LD (DE),A", 8, func(c *CPU) { c.bus.Write(c.DE.Uint16(), c.A) })
	primaryTable[0x0A] = unconditional("LD A,(BC)", 8, func(c *CPU) { c.A = c.bus.Read(c.BC.Uint16()) })
	primaryTable[0x1A] = unconditional("LD A,(DE)", 8, func(c *CPU) { c.A = c.bus.Read(c.DE.Uint16()) })

	primaryTable[0x22] = unconditional("LD (HL+),A", 8, func(c *CPU) {
		c.bus.Write(c.HL.Uint16(), c.A)
		c.HL.SetUint16(c.HL.Uint16() + 1)
	})
	primaryTable[0x2A] = unconditional("LD A,(HL+)", 8, func(c *CPU) {
		c.A = c.bus.Read(c.HL.Uint16())
		c.HL.SetUint16(c.HL.Uint16() + 1)
	})
	primaryTable[0x32] = unconditional("LD (HL-),A", 8, func(c *CPU) {
		c.bus.Write(c.HL.Uint16(), c.A)
		c.HL.SetUint16(c.HL.Uint16() - 1)
	})
	primaryTable[0x3A] = unconditional("LD A,(HL-)", 8, func(c *CPU) {
		c.A = c.bus.Read(c.HL.Uint16())
		c.HL.SetUint16(c.HL.Uint16() - 1)
	})

	primaryTable[0x07] = unconditional("RLCA", 4, func(c *CPU) { c.rlcAcc() })
	primaryTable[0x0F] = unconditional("RRCA", 4, func(c *CPU) { c.rrcAcc() })
	primaryTable[0x17] = unconditional("RLA", 4, func(c *CPU) { c.rlAcc() })
	primaryTable[0x1F] = unconditional("RRA", 4, func(c *CPU) { c.rrAcc() })
	primaryTable[0x27] = unconditional("DAA", 4, func(c *CPU) { c.daa() })
	primaryTable[0x2F] = unconditional("CPL", 4, func(c *CPU) { c.cpl() })
	primaryTable[0x37] = unconditional("SCF", 4, func(c *CPU) { c.scf() })
	primaryTable[0x3F] = unconditional("CCF", 4, func(c *CPU) { c.ccf() })

	primaryTable[0x08] = unconditional("LD (a16),SP", 20, func(c *CPU) {
		address := c.fetch16()
		c.bus.Write(address, uint8(c.SP))
		c.bus.Write(address+1, uint8(c.SP>>8))
	})

	primaryTable[0x10] = unconditional("STOP", 4, func(c *CPU) {
		c.fetch8() // STOP's second byte is conventionally 0x00 and discarded
		c.halted = true
	})

	primaryTable[0x18] = unconditional("JR i8", 12, func(c *CPU) {
		offset := int8(c.fetch8())
		c.PC = uint16(int32(c.PC) + int32(offset))
	})

	conditions := [4]struct {
		name string
		test func(*CPU) bool
	}{
		{"NZ", func(c *CPU) bool { return !c.flag(flagZero) }},
		{"Z", func(c *CPU) bool { return c.flag(flagZero) }},
		{"NC", func(c *CPU) bool { return !c.flag(flagCarry) }},
		{"C", func(c *CPU) bool { return c.flag(flagCarry) }},
	}
	for i := uint8(0); i < 4; i++ {
		cond := conditions[i]
		primaryTable[0x20+0x08*i] = Instruction{
			name: "JR " + cond.name + ",i8", cycles: 8, altCycles: 12,
			fn: func(c *CPU) bool {
				offset := int8(c.fetch8())
				if !cond.test(c) {
					return false
				}
				c.PC = uint16(int32(c.PC) + int32(offset))
				return true
			},
		}
		primaryTable[0xC2+0x08*i] = Instruction{
			name: "JP " + cond.name + ",a16", cycles: 12, altCycles: 16,
			fn: func(c *CPU) bool {
				addr := c.fetch16()
				if !cond.test(c) {
					return false
				}
				c.PC = addr
				return true
			},
		}
		primaryTable[0xC4+0x08*i] = Instruction{
			name: "CALL " + cond.name + ",a16", cycles: 12, altCycles: 24,
			fn: func(c *CPU) bool {
				addr := c.fetch16()
				if !cond.test(c) {
					return false
				}
				c.pushPC(c.PC)
				c.PC = addr
				return true
			},
		}
		primaryTable[0xC0+0x08*i] = Instruction{
			name: "RET " + cond.name, cycles: 8, altCycles: 20,
			fn: func(c *CPU) bool {
				if !cond.test(c) {
					return false
				}
				c.PC = c.popPC()
				return true
			},
		}
	}

	primaryTable[0xC3] = unconditional("JP a16", 16, func(c *CPU) { c.PC = c.fetch16() })
	primaryTable[0xE9] = unconditional("JP (HL)", 4, func(c *CPU) { c.PC = c.HL.Uint16() })
	primaryTable[0xCD] = unconditional("CALL a16", 24, func(c *CPU) {
		addr := c.fetch16()
		c.pushPC(c.PC)
		c.PC = addr
	})
	primaryTable[0xC9] = unconditional("RET", 16, func(c *CPU) { c.PC = c.popPC() })
	primaryTable[0xD9] = unconditional("RETI", 16, func(c *CPU) {
		c.PC = c.popPC()
		c.ime = true
	})

	for n := uint8(0); n < 8; n++ {
		n := n
		primaryTable[0xC7+8*n] = unconditional(fmt.Sprintf("RST %#02XH", n*8), 16, func(c *CPU) {
			c.pushPC(c.PC)
			c.PC = uint16(n) * 8
		})
	}

	aluImm := [8]struct {
		name string
		fn   func(*CPU, uint8)
	}{
		{"ADD A,d8", (*CPU).add},
		{"ADC A,d8", (*CPU).adc},
		{"SUB d8", (*CPU).sub},
		{"SBC A,d8", (*CPU).sbc},
		{"AND d8", (*CPU).and},
		{"XOR d8", (*CPU).xor},
		{"OR d8", (*CPU).or},
		{"CP d8", (*CPU).cp},
	}
	for i := uint8(0); i < 8; i++ {
		i := i
		fn := aluImm[i].fn
		primaryTable[0xC6+8*i] = unconditional(aluImm[i].name, 8, func(c *CPU) {
			fn(c, c.fetch8())
		})
	}

	primaryTable[0xE0] = unconditional("LDH (a8),A", 12, func(c *CPU) {
		c.bus.Write(0xFF00+uint16(c.fetch8()), c.A)
	})
	primaryTable[0xF0] = unconditional("LDH A,(a8)", 12, func(c *CPU) {
		c.A = c.bus.Read(0xFF00 + uint16(c.fetch8()))
	})
	primaryTable[0xE2] = unconditional("LD (C),A", 8, func(c *CPU) {
		c.bus.Write(0xFF00+uint16(c.C), c.A)
	})
	primaryTable[0xF2] = unconditional("LD A,(C)", 8, func(c *CPU) {
		c.A = c.bus.Read(0xFF00 + uint16(c.C))
	})
	primaryTable[0xEA] = unconditional("LD (a16),A", 16, func(c *CPU) {
		c.bus.Write(c.fetch16(), c.A)
	})
	primaryTable[0xFA] = unconditional("LD A,(a16)", 16, func(c *CPU) {
		c.A = c.bus.Read(c.fetch16())
	})

	primaryTable[0xE8] = unconditional("ADD SP,i8", 16, func(c *CPU) {
		c.SP = c.addSPSigned(int8(c.fetch8()))
	})
	primaryTable[0xF8] = unconditional("LD HL,SP+i8", 12, func(c *CPU) {
		c.HL.SetUint16(c.addSPSigned(int8(c.fetch8())))
	})
	primaryTable[0xF9] = unconditional("LD SP,HL", 8, func(c *CPU) { c.SP = c.HL.Uint16() })

	primaryTable[0xF3] = unconditional("DI", 4, func(c *CPU) {
		c.ime = false
		c.eiPending = 0
	})
	primaryTable[0xFB] = unconditional("EI", 4, func(c *CPU) { c.eiPending = 2 })

	for _, opcode := range []uint8{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD} {
		primaryTable[opcode] = disallowed(opcode)
	}
}
