package ppu

// shades holds the four DMG greens, darkest-to-lightest is index 3..0 per
// hardware: index 0 is the lightest (off-white), index 3 the darkest.
var shades = [4]color{
	{0xE0, 0xF8, 0xD0},
	{0x88, 0xC0, 0x70},
	{0x34, 0x68, 0x56},
	{0x08, 0x18, 0x20},
}

type color struct {
	R, G, B uint8
}

// palette decodes a BGP/OBP0/OBP1-style register: four 2-bit fields, each
// mapping a raw 2-bit color index to a shade index.
type palette struct {
	register uint8
}

func (p *palette) set(value uint8) { p.register = value }

func (p *palette) get() uint8 { return p.register }

// shade returns the 2-bit shade index the palette maps raw index i to.
func (p *palette) shade(i uint8) uint8 {
	return (p.register >> (i * 2)) & 0x03
}
