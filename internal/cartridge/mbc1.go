package cartridge

// mbc1 implements the MBC1 controller (§4.2): up to 2MiB of ROM banked in
// 16KiB windows via a 5-bit bank register, plus up to 32KiB of external RAM
// banked in 8KiB windows, with a mode bit that decides whether the 2-bit
// secondary bank register affects the RAM window (and, for large ROMs, the
// fixed 0x0000-0x3FFF window) or not.
type mbc1 struct {
	rom []byte
	ram []byte

	ramEnabled bool
	bank1      uint8 // 5 bits: low bits of the ROM bank, 0 is forced to 1
	bank2      uint8 // 2 bits: high bits of ROM bank, or the RAM bank
	mode       bool  // false = mode 0 (bank2 affects 0x4000-0x7FFF only)

	romBanks uint16
}

func newMBC1(rom []byte, header Header) *mbc1 {
	return &mbc1{
		rom:      rom,
		ram:      make([]byte, header.RAMSize),
		bank1:    1,
		romBanks: uint16(len(rom) / 0x4000),
	}
}

func (m *mbc1) romBank() uint16 {
	bank := uint16(m.bank1) | uint16(m.bank2)<<5
	if m.romBanks > 0 {
		bank %= m.romBanks
	}
	return bank
}

func (m *mbc1) lowROMBank() uint16 {
	if !m.mode {
		return 0
	}
	bank := uint16(m.bank2) << 5
	if m.romBanks > 0 {
		bank %= m.romBanks
	}
	return bank
}

func (m *mbc1) ramBank() uint8 {
	if !m.mode {
		return 0
	}
	return m.bank2
}

func (m *mbc1) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		offset := uint32(m.lowROMBank())*0x4000 + uint32(address)
		return m.romAt(offset)
	case address < 0x8000:
		offset := uint32(m.romBank())*0x4000 + uint32(address-0x4000)
		return m.romAt(offset)
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		offset := uint32(m.ramBank())*0x2000 + uint32(address-0xA000)
		if int(offset) >= len(m.ram) {
			return 0xFF
		}
		return m.ram[offset]
	}
	return 0xFF
}

func (m *mbc1) romAt(offset uint32) uint8 {
	if int(offset) < len(m.rom) {
		return m.rom[offset]
	}
	return 0xFF
}

func (m *mbc1) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case address < 0x4000:
		value &= 0x1F
		if value == 0 {
			value = 1
		}
		m.bank1 = value
	case address < 0x6000:
		m.bank2 = value & 0x03
	case address < 0x8000:
		m.mode = value&1 == 1
	case address >= 0xA000 && address < 0xC000:
		if m.ramEnabled && len(m.ram) > 0 {
			offset := uint32(m.ramBank())*0x2000 + uint32(address-0xA000)
			if int(offset) < len(m.ram) {
				m.ram[offset] = value
			}
		}
	}
}

func (m *mbc1) SaveRAM() []byte {
	if len(m.ram) == 0 {
		return nil
	}
	out := make([]byte, len(m.ram))
	copy(out, m.ram)
	return out
}

func (m *mbc1) LoadRAM(data []byte) {
	copy(m.ram, data)
}
