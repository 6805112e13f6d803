package cartridge

// mbc3 supports up to 2MiB ROM via a 7-bit bank register and up to 32KiB of
// RAM via a 2-bit bank register, sharing the same control-register shape as
// MBC1 but without MBC1's mode flag or bank1/bank2 split. Real cartridges of
// this type can also carry a battery-backed real-time clock; the RTC
// registers (selected by writing 0x08-0x0C to the RAM-bank register) are out
// of scope here and read back as zero.
type mbc3 struct {
	rom []byte
	ram []byte

	ramEnabled bool
	romBank    uint8
	ramBank    uint8

	romBanks uint16
}

func newMBC3(rom []byte, header Header) *mbc3 {
	return &mbc3{
		rom:      rom,
		ram:      make([]byte, header.RAMSize),
		romBank:  1,
		romBanks: uint16(len(rom) / 0x4000),
	}
}

func (m *mbc3) Read(address uint16) uint8 {
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
		if m.ramBank >= 0x08 {
			return 0 // RTC register, out of scope
		}
		offset := uint32(m.ramBank)*0x2000 + uint32(address-0xA000)
		if int(offset) < len(m.ram) {
			return m.ram[offset]
		}
		return 0xFF
	}
	return 0xFF
}

func (m *mbc3) romAt(offset uint32) uint8 {
	if int(offset) < len(m.rom) {
		return m.rom[offset]
	}
	return 0xFF
}

func (m *mbc3) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case address < 0x4000:
		value &= 0x7F
		if value == 0 {
			value = 1
		}
		m.romBank = value
	case address < 0x6000:
		m.ramBank = value
	case address < 0x8000:
		// RTC latch write; no RTC is modeled, so this is a no-op.
	case address >= 0xA000 && address < 0xC000:
		if m.ramEnabled && m.ramBank < 0x08 && len(m.ram) > 0 {
			offset := uint32(m.ramBank)*0x2000 + uint32(address-0xA000)
			if int(offset) < len(m.ram) {
				m.ram[offset] = value
			}
		}
	}
}

func (m *mbc3) SaveRAM() []byte {
	if len(m.ram) == 0 {
		return nil
	}
	out := make([]byte, len(m.ram))
	copy(out, m.ram)
	return out
}

func (m *mbc3) LoadRAM(data []byte) {
	copy(m.ram, data)
}
