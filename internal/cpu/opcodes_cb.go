package cpu

import "fmt"

// CBInstruction is one entry of the CB-prefixed secondary table (§4.3):
// rotates, shifts, and per-bit test/set/reset, uniformly on any of the
// eight r/(HL) operands. None of these are conditional, so there is no
// alternate cost to track.
type CBInstruction struct {
	name   string
	cycles uint8
	fn     func(*CPU)
}

var cbTable [256]CBInstruction

func init() {
	shiftOps := [8]struct {
		name string
		fn   func(*CPU, uint8) uint8
	}{
		{"RLC ", (*CPU).rlc},
		{"RRC ", (*CPU).rrc},
		{"RL ", (*CPU).rl},
		{"RR ", (*CPU).rr},
		{"SLA ", (*CPU).sla},
		{"SRA ", (*CPU).sra},
		{"SWAP ", (*CPU).swap},
		{"SRL ", (*CPU).srl},
	}
	for op := uint8(0); op < 8; op++ {
		for r := uint8(0); r < 8; r++ {
			op, r := op, r
			opcode := 8*op + r
			cycles := uint8(8)
			if r == 6 {
				cycles = 16
			}
			fn := shiftOps[op].fn
			cbTable[opcode] = CBInstruction{
				name: shiftOps[op].name + registerName8[r], cycles: cycles,
				fn: func(c *CPU) { c.writeR8(r, fn(c, c.readR8(r))) },
			}
		}
	}

	for n := uint8(0); n < 8; n++ {
		for r := uint8(0); r < 8; r++ {
			n, r := n, r

			bitCycles := uint8(8)
			if r == 6 {
				bitCycles = 12
			}
			cbTable[0x40+8*n+r] = CBInstruction{
				name: fmt.Sprintf("BIT %d,%s", n, registerName8[r]), cycles: bitCycles,
				fn: func(c *CPU) { c.bit(n, c.readR8(r)) },
			}

			rwCycles := uint8(8)
			if r == 6 {
				rwCycles = 16
			}
			cbTable[0x80+8*n+r] = CBInstruction{
				name: fmt.Sprintf("RES %d,%s", n, registerName8[r]), cycles: rwCycles,
				fn: func(c *CPU) { c.writeR8(r, c.readR8(r)&^(1<<n)) },
			}
			cbTable[0xC0+8*n+r] = CBInstruction{
				name: fmt.Sprintf("SET %d,%s", n, registerName8[r]), cycles: rwCycles,
				fn: func(c *CPU) { c.writeR8(r, c.readR8(r)|(1<<n)) },
			}
		}
	}
}
