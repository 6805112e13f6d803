package ppu

// sprite is one decoded OAM entry. Y and X are stored with the hardware
// offsets already removed (Y-16, X-8), so 0 is the top/left screen edge and
// a raw OAM value of 0 leaves the sprite off the top/left edge of the
// visible area (§GLOSSARY OAM).
type sprite struct {
	y, x             int
	tile             uint8
	priority         bool // true: BG colors 1-3 drawn over this sprite
	flipY, flipX     bool
	palette          uint8 // selects OBP0 (0) or OBP1 (1)
	oamIndex         uint8
}

func decodeSprite(data [4]uint8, index uint8) sprite {
	return sprite{
		y:        int(data[0]) - 16,
		x:        int(data[1]) - 8,
		tile:     data[2],
		priority: data[3]&0x80 != 0,
		flipY:    data[3]&0x40 != 0,
		flipX:    data[3]&0x20 != 0,
		palette:  (data[3] >> 4) & 1,
		oamIndex: index,
	}
}

// oam is the 40-entry, 4-byte-per-entry sprite attribute table.
type oam struct {
	data [160]uint8
}

func (o *oam) Read(address uint16) uint8 {
	if address >= 0xFE00 {
		address -= 0xFE00
	}
	return o.data[address]
}

func (o *oam) Write(address uint16, value uint8) {
	if address >= 0xFE00 {
		address -= 0xFE00
	}
	o.data[address] = value
}

func (o *oam) sprite(index uint8) sprite {
	var raw [4]uint8
	copy(raw[:], o.data[int(index)*4:int(index)*4+4])
	return decodeSprite(raw, index)
}
