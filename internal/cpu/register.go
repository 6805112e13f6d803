package cpu

// Register holds one 8-bit CPU register's value.
type Register = uint8

// RegisterPair addresses two Registers as a single 16-bit value, high byte
// first — AF, BC, DE and HL are all exposed this way so call sites never
// need to repeat the shift-and-mask (§9 Design notes).
type RegisterPair struct {
	High *Register
	Low  *Register
}

// Uint16 returns the pair's value as high<<8 | low.
func (r *RegisterPair) Uint16() uint16 {
	return uint16(*r.High)<<8 | uint16(*r.Low)
}

// SetUint16 splits value into the pair's high and low bytes.
func (r *RegisterPair) SetUint16(value uint16) {
	*r.High = uint8(value >> 8)
	*r.Low = uint8(value)
}

// Registers is the Sharp LR35902 register file: eight 8-bit registers,
// addressable individually or, via the four pairs, as 16-bit values.
type Registers struct {
	A, F Register
	B, C Register
	D, E Register
	H, L Register

	AF, BC, DE, HL *RegisterPair
}
