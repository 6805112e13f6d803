package cpu

import "testing"

// Property 5: flag consistency, per the table in §4.3.
func TestProperty5FlagConsistency(t *testing.T) {
	cases := []struct {
		name        string
		a, x        uint8
		carryIn     bool
		run         func(c *CPU, x uint8)
		z, n, h, cy bool
	}{
		{"ADD A,x half-carry", 0x0F, 0x01, false, func(c *CPU, x uint8) { c.add(x) }, false, false, true, false},
		{"ADD A,x full carry", 0xFF, 0x01, false, func(c *CPU, x uint8) { c.add(x) }, true, false, true, true},
		{"ADC A,x with carry in", 0x0E, 0x01, true, func(c *CPU, x uint8) { c.adc(x) }, false, false, true, false},
		{"SUB A,x borrow", 0x00, 0x01, false, func(c *CPU, x uint8) { c.sub(x) }, false, true, true, true},
		{"SUB A,x exact zero", 0x10, 0x10, false, func(c *CPU, x uint8) { c.sub(x) }, true, true, false, false},
		{"SBC A,x with carry in", 0x10, 0x0F, true, func(c *CPU, x uint8) { c.sbc(x) }, true, true, true, false},
		{"AND A,x always sets H", 0xFF, 0x00, false, func(c *CPU, x uint8) { c.and(x) }, true, false, true, false},
		{"OR A,x", 0x00, 0x00, false, func(c *CPU, x uint8) { c.or(x) }, true, false, false, false},
		{"XOR A,x", 0xFF, 0xFF, false, func(c *CPU, x uint8) { c.xor(x) }, true, false, false, false},
		{"CP A,x equal", 0x3A, 0x3A, false, func(c *CPU, x uint8) { c.cp(x) }, true, true, false, false},
		{"CP A,x half-borrow", 0x10, 0x01, false, func(c *CPU, x uint8) { c.cp(x) }, false, true, true, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _, _ := newTestCPU()
			c.A = tc.a
			c.setFlag(flagCarry, tc.carryIn)
			tc.run(c, tc.x)
			if got := c.flag(flagZero); got != tc.z {
				t.Errorf("Z = %v, want %v (F=%#02X)", got, tc.z, c.F)
			}
			if got := c.flag(flagSubtract); got != tc.n {
				t.Errorf("N = %v, want %v (F=%#02X)", got, tc.n, c.F)
			}
			if got := c.flag(flagHalfCarry); got != tc.h {
				t.Errorf("H = %v, want %v (F=%#02X)", got, tc.h, c.F)
			}
			if got := c.flag(flagCarry); got != tc.cy {
				t.Errorf("C = %v, want %v (F=%#02X)", got, tc.cy, c.F)
			}
		})
	}
}

func TestIncDecFlags(t *testing.T) {
	c, _, _ := newTestCPU()
	if got := c.inc(0xFF); got != 0x00 || !c.flag(flagZero) || !c.flag(flagHalfCarry) || c.flag(flagSubtract) {
		t.Errorf("inc(0xFF) = %#02X, F=%#02X", got, c.F)
	}
	if got := c.dec(0x01); got != 0x00 || !c.flag(flagZero) || !c.flag(flagSubtract) {
		t.Errorf("dec(0x01) = %#02X, F=%#02X", got, c.F)
	}
}

func TestDAA(t *testing.T) {
	c, _, _ := newTestCPU()
	// Binary 0x45+0x38 = 0x7D; as BCD that should read 0x83.
	c.A = 0x7D
	c.setFlags(false, false, true, false)
	c.daa()
	if c.A != 0x83 {
		t.Errorf("DAA result = %#02X, want 0x83", c.A)
	}
}

func TestCPLCCFSCF(t *testing.T) {
	c, _, _ := newTestCPU()
	c.A = 0x0F
	c.cpl()
	if c.A != 0xF0 {
		t.Errorf("CPL = %#02X, want 0xF0", c.A)
	}
	if !c.flag(flagSubtract) || !c.flag(flagHalfCarry) {
		t.Error("CPL must set N and H")
	}

	c.setFlag(flagCarry, false)
	c.scf()
	if !c.flag(flagCarry) {
		t.Error("SCF must set C")
	}
	c.ccf()
	if c.flag(flagCarry) {
		t.Error("CCF must clear a set C")
	}
}
