package cartridge

import "fmt"

// Type is the cartridge hardware type byte at ROM offset 0x0147.
type Type uint8

const (
	ROM               Type = 0x00
	MBC1              Type = 0x01
	MBC1RAM           Type = 0x02
	MBC1RAMBATT       Type = 0x03
	MBC2              Type = 0x05
	MBC2BATT          Type = 0x06
	ROMRAM            Type = 0x08
	ROMRAMBATT        Type = 0x09
	MBC3TIMERBATT     Type = 0x0F
	MBC3TIMERRAMBATT  Type = 0x10
	MBC3              Type = 0x11
	MBC3RAM           Type = 0x12
	MBC3RAMBATT       Type = 0x13
	MBC5              Type = 0x19
	MBC5RAM           Type = 0x1A
	MBC5RAMBATT       Type = 0x1B
	MBC5RUMBLE        Type = 0x1C
	MBC5RUMBLERAM     Type = 0x1D
	MBC5RUMBLERAMBATT Type = 0x1E
)

func (t Type) String() string {
	switch t {
	case ROM:
		return "ROM"
	case MBC1, MBC1RAM, MBC1RAMBATT:
		return "MBC1"
	case MBC2, MBC2BATT:
		return "MBC2"
	case ROMRAM, ROMRAMBATT:
		return "ROM+RAM"
	case MBC3, MBC3RAM, MBC3RAMBATT, MBC3TIMERBATT, MBC3TIMERRAMBATT:
		return "MBC3"
	case MBC5, MBC5RAM, MBC5RAMBATT, MBC5RUMBLE, MBC5RUMBLERAM, MBC5RUMBLERAMBATT:
		return "MBC5"
	default:
		return fmt.Sprintf("unknown(%#02x)", uint8(t))
	}
}

// hasBattery reports whether the cartridge's external RAM should be
// persisted (§6 Persisted state).
func (t Type) hasBattery() bool {
	switch t {
	case MBC1RAMBATT, MBC2BATT, ROMRAMBATT, MBC3RAMBATT, MBC3TIMERBATT, MBC3TIMERRAMBATT, MBC5RAMBATT, MBC5RUMBLERAMBATT:
		return true
	}
	return false
}

var ramSizes = map[uint8]uint{
	0x00: 0,
	0x01: 2 * 1024, // unofficial, some homebrew uses it
	0x02: 8 * 1024,
	0x03: 32 * 1024,
	0x04: 128 * 1024,
	0x05: 64 * 1024,
}

// Header is the cartridge header at ROM offset 0x0100-0x014F.
type Header struct {
	Title           string
	NewLicenseeCode string
	SGBFlag         bool
	CartridgeType   Type
	ROMSize         uint
	RAMSize         uint
	OldLicenseeCode uint8
	MaskROMVersion  uint8
	HeaderChecksum  uint8
	GlobalChecksum  uint16

	// ChecksumValid reports whether the computed header checksum (§6)
	// matched the stored one. A mismatch is logged, never fatal.
	ChecksumValid bool
}

// parseHeader parses the 0x0100-0x014F header out of a full ROM image. rom
// must be at least 0x150 bytes long.
func parseHeader(rom []byte) Header {
	h := Header{}

	h.Title = trimTitle(rom[0x134:0x144])
	h.NewLicenseeCode = string(rom[0x144:0x146])
	h.SGBFlag = rom[0x146] == 0x03
	h.CartridgeType = Type(rom[0x147])
	h.ROMSize = (32 * 1024) << rom[0x148]
	h.RAMSize = ramSizes[rom[0x149]]
	h.OldLicenseeCode = rom[0x14B]
	h.MaskROMVersion = rom[0x14C]
	h.HeaderChecksum = rom[0x14D]
	h.GlobalChecksum = uint16(rom[0x14E])<<8 | uint16(rom[0x14F])

	h.ChecksumValid = computeHeaderChecksum(rom) == h.HeaderChecksum
	return h
}

// computeHeaderChecksum implements the algorithm from §6: x := 0; for each
// byte in 0x0134..0x014C: x = x - byte - 1.
func computeHeaderChecksum(rom []byte) uint8 {
	var x uint8
	for addr := 0x0134; addr <= 0x014C; addr++ {
		x = x - rom[addr] - 1
	}
	return x
}

// trimTitle cuts the raw title bytes at the first NUL. A title field with
// no NUL is returned whole, including any manufacturer code / CGB flag
// bytes that newer carts store in it.
func trimTitle(raw []byte) string {
	end := len(raw)
	for i, b := range raw {
		if b == 0 {
			end = i
			break
		}
	}
	return string(raw[:end])
}

func (h Header) String() string {
	return fmt.Sprintf("%s (%s, %dKiB ROM, %dKiB RAM)", h.Title, h.CartridgeType, h.ROMSize/1024, h.RAMSize/1024)
}
