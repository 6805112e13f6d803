package cartridge

// mbc2 supports up to 256KiB ROM (16 banks of 16KiB) via a 4-bit bank
// register, and has a built-in 512x4-bit RAM array rather than external
// cartridge RAM. The bank-select and RAM-enable writes share the same
// 0x0000-0x3FFF range, disambiguated by address bit 8.
type mbc2 struct {
	rom []byte
	ram [512]byte // only the low nibble of each byte is meaningful

	ramEnabled bool
	romBank    uint8

	romBanks uint16
}

func newMBC2(rom []byte, header Header) *mbc2 {
	return &mbc2{rom: rom, romBank: 1, romBanks: uint16(len(rom) / 0x4000)}
}

func (m *mbc2) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return m.romAt(uint32(address))
	case address < 0x8000:
		bank := uint32(m.romBank)
		if m.romBanks > 0 {
			bank %= uint32(m.romBanks)
		}
		return m.romAt(bank*0x4000 + uint32(address-0x4000))
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled {
			return 0xFF
		}
		return m.ram[address&0x1FF] | 0xF0
	}
	return 0xFF
}

func (m *mbc2) romAt(offset uint32) uint8 {
	if int(offset) < len(m.rom) {
		return m.rom[offset]
	}
	return 0xFF
}

func (m *mbc2) Write(address uint16, value uint8) {
	switch {
	case address < 0x4000:
		if address&0x0100 != 0 {
			bank := value & 0x0F
			if bank == 0 {
				bank = 1
			}
			m.romBank = bank
		} else {
			m.ramEnabled = value&0x0F == 0x0A
		}
	case address >= 0xA000 && address < 0xC000:
		if m.ramEnabled {
			m.ram[address&0x1FF] = value & 0x0F
		}
	}
}

func (m *mbc2) SaveRAM() []byte {
	out := make([]byte, len(m.ram))
	copy(out, m.ram[:])
	return out
}

func (m *mbc2) LoadRAM(data []byte) {
	copy(m.ram[:], data)
}
