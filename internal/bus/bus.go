// Package bus implements the address decoder of §4.1: every 16-bit address
// the CPU issues is routed to exactly one backing device. The bus is the
// sole owner of the I/O register block and the only thing the CPU's load
// and store instructions ever talk to directly.
package bus

import (
	"fmt"

	"github.com/lucasgreco/gbcore/internal/addr"
	"github.com/lucasgreco/gbcore/internal/cartridge"
	"github.com/lucasgreco/gbcore/internal/interrupts"
	"github.com/lucasgreco/gbcore/internal/joypad"
	"github.com/lucasgreco/gbcore/internal/ppu"
	"github.com/lucasgreco/gbcore/internal/ram"
	"github.com/lucasgreco/gbcore/internal/serial"
	"github.com/lucasgreco/gbcore/internal/timer"
	"github.com/lucasgreco/gbcore/pkg/log"
)

// Bus is the full 64KiB address space decoder: it owns working RAM and
// high RAM directly, and forwards cartridge, PPU, timer, serial, joypad and
// interrupt addresses to their owning components.
type Bus struct {
	Cart   *cartridge.Cartridge
	PPU    *ppu.PPU
	Timer  *timer.Controller
	Serial *serial.Controller
	Joypad *joypad.State
	IRQ    *interrupts.Service

	wram *ram.Ram // 0xC000-0xDFFF, 8KiB
	hram *ram.Ram // 0xFF80-0xFFFE, 127 bytes

	log log.Logger
}

// New wires a Bus around an already-constructed set of components. The PPU
// is attached as the OAM DMA's source reader here, since the PPU has to
// exist before the Bus that will read through it.
func New(cart *cartridge.Cartridge, p *ppu.PPU, t *timer.Controller, s *serial.Controller, j *joypad.State, irq *interrupts.Service, logger log.Logger) *Bus {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	b := &Bus{
		Cart:   cart,
		PPU:    p,
		Timer:  t,
		Serial: s,
		Joypad: j,
		IRQ:    irq,
		wram:   ram.New(uint32(addr.WRAMEnd-addr.WRAMStart) + 1),
		hram:   ram.New(uint32(addr.HRAMEnd-addr.HRAMStart) + 1),
		log:    logger,
	}
	p.AttachSourceReader(b)
	return b
}

// Read decodes addr per §3's table and returns the backing byte.
func (b *Bus) Read(address uint16) uint8 {
	switch {
	case address <= addr.ROMBankNEnd:
		return b.Cart.Read(address)
	case address <= addr.VRAMEnd:
		return b.PPU.ReadVRAM(address)
	case address <= addr.ExtRAMEnd:
		return b.Cart.Read(address)
	case address <= addr.WRAMEnd:
		return b.wram.Read(address - addr.WRAMStart)
	case address <= addr.EchoEnd: // echo of WRAMStart-0xDDFF
		return b.wram.Read(address - addr.EchoStart)
	case address <= addr.OAMEnd:
		return b.PPU.ReadOAM(address)
	case address <= addr.UnusableEnd:
		return 0xFF // unusable
	case address == addr.P1:
		return b.Joypad.Read()
	case address == addr.SB || address == addr.SC:
		return b.Serial.Read(address)
	case address >= addr.DIV && address <= addr.TAC:
		return b.Timer.Read(address)
	case address == addr.IF:
		return b.IRQ.Read(address)
	case address >= addr.LCDC && address <= addr.WX:
		return b.PPU.Read(address)
	case address <= addr.IOEnd:
		return 0xFF // unimplemented I/O
	case address <= addr.HRAMEnd:
		return b.hram.Read(address - addr.HRAMStart)
	case address == addr.IE:
		return b.IRQ.Read(address)
	}
	panic(fmt.Sprintf("bus: unreachable address %#04X", address))
}

// Write decodes addr per §3's table and writes value to the backing store.
func (b *Bus) Write(address uint16, value uint8) {
	switch {
	case address <= addr.ROMBankNEnd:
		b.Cart.Write(address, value)
	case address <= addr.VRAMEnd:
		b.PPU.WriteVRAM(address, value)
	case address <= addr.ExtRAMEnd:
		b.Cart.Write(address, value)
	case address <= addr.WRAMEnd:
		b.wram.Write(address-addr.WRAMStart, value)
	case address <= addr.EchoEnd:
		b.wram.Write(address-addr.EchoStart, value)
	case address <= addr.OAMEnd:
		b.PPU.WriteOAM(address, value)
	case address <= addr.UnusableEnd:
		// unusable, write sinks
	case address == addr.P1:
		b.Joypad.Write(value)
	case address == addr.SB || address == addr.SC:
		b.Serial.Write(address, value)
	case address >= addr.DIV && address <= addr.TAC:
		b.Timer.Write(address, value)
	case address == addr.IF:
		b.IRQ.Write(address, value)
	case address >= addr.LCDC && address <= addr.WX:
		b.PPU.Write(address, value)
	case address <= addr.IOEnd:
		b.log.Debugf("bus: write to unimplemented I/O register %#04X", address)
	case address <= addr.HRAMEnd:
		b.hram.Write(address-addr.HRAMStart, value)
	case address == addr.IE:
		b.IRQ.Write(address, value)
	default:
		panic(fmt.Sprintf("bus: unreachable address %#04X", address))
	}
}

// ReadWord reads a little-endian 16-bit value: low byte at addr, high byte
// at addr+1.
func (b *Bus) ReadWord(address uint16) uint16 {
	lo := b.Read(address)
	hi := b.Read(address + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// WriteWord writes a little-endian 16-bit value: low byte at addr, high
// byte at addr+1.
func (b *Bus) WriteWord(address uint16, value uint16) {
	b.Write(address, uint8(value))
	b.Write(address+1, uint8(value>>8))
}

// Tick advances every bus-resident device that runs off the clock but
// isn't the PPU; the driver advances the PPU itself (which also ticks OAM
// DMA) since its cycle count feeds the host's frame-ready check.
func (b *Bus) Tick(cycles uint16) {
	b.Timer.Advance(cycles)
}
