// Package cartridge models the ROM image and its Memory Bank Controller
// (§4.2): a 32KiB logical ROM window plus an optional 8KiB external RAM
// window, backed by however many physical banks the ROM image actually
// carries.
package cartridge

import (
	"fmt"

	"github.com/lucasgreco/gbcore/pkg/log"
)

// Controller is a Memory Bank Controller. Read and Write take the full
// 16-bit CPU address (0x0000-0x7FFF for ROM, 0xA000-0xBFFF for external
// RAM); the bus routes both ranges here without needing to know which MBC
// is in play.
type Controller interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)

	// SaveRAM and LoadRAM expose the external RAM as an opaque blob for
	// battery-backed persistence (§6). They return/accept nil when the
	// cartridge has no RAM.
	SaveRAM() []byte
	LoadRAM(data []byte)
}

// Cartridge is a parsed ROM image plus its MBC.
type Cartridge struct {
	Controller
	header Header
}

// New parses rom's header and constructs the appropriate Controller. It
// returns an error for an unsupported MBC type or a ROM too short to carry
// a header — both are the "fatal at initialization" class of failure from
// §7, left to the caller to decide how to react to rather than panicking
// inside a library constructor.
func New(rom []byte, logger log.Logger) (*Cartridge, error) {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	if len(rom) < 0x150 {
		return nil, fmt.Errorf("cartridge: ROM image too short (%d bytes, need at least 0x150)", len(rom))
	}

	header := parseHeader(rom)
	if !header.ChecksumValid {
		logger.Warnf("cartridge: header checksum mismatch for %q (stored %#02x)", header.Title, header.HeaderChecksum)
	}

	var ctrl Controller
	switch header.CartridgeType {
	case ROM:
		ctrl = newNoMBC(rom, header)
	case MBC1, MBC1RAM, MBC1RAMBATT:
		ctrl = newMBC1(rom, header)
	case MBC2, MBC2BATT:
		ctrl = newMBC2(rom, header)
	case MBC3, MBC3RAM, MBC3RAMBATT, MBC3TIMERBATT, MBC3TIMERRAMBATT:
		ctrl = newMBC3(rom, header)
	default:
		return nil, fmt.Errorf("cartridge: unsupported MBC type %s", header.CartridgeType)
	}

	return &Cartridge{Controller: ctrl, header: header}, nil
}

// Header returns the cartridge's parsed header.
func (c *Cartridge) Header() Header { return c.header }

// HasBattery reports whether this cartridge's RAM should be persisted
// across runs.
func (c *Cartridge) HasBattery() bool { return c.header.CartridgeType.hasBattery() }
