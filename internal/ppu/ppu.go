// Package ppu implements the picture-processing unit: the scanline/mode
// state machine and background/window/sprite compositing of §4.4, driven by
// the clock cycles the CPU reports after each instruction.
package ppu

import (
	"fmt"

	"github.com/lucasgreco/gbcore/internal/addr"
	"github.com/lucasgreco/gbcore/internal/interrupts"
	"github.com/lucasgreco/gbcore/internal/ram"
)

const (
	oamScanCycles = 80
	drawingCycles = 172
	scanlineCycles = 456
	visibleLines   = 144
	totalLines     = 154
)

// PPU owns VRAM, OAM, the LCD control/status registers, the three
// palettes, and the scanline state machine.
type PPU struct {
	vram *ram.Ram
	oam  oam
	dma  *DMA

	lcdc control
	stat status
	bgp  palette
	obp0 palette
	obp1 palette

	scx, scy uint8
	wx, wy   uint8
	ly, lyc  uint8

	cycles int // elapsed cycles within the current scanline, 0..455

	back, front Framebuffer

	irq *interrupts.Service

	statLine bool // previous value of stat.signal(), for edge detection

	windowLine    int  // internal window line counter
	windowOnLine  bool // whether the window was actually drawn on this line

	frameDone bool
}

// New returns a PPU with the LCD off and nothing drawn. The post-boot-ROM
// register values (LCD on) are written afterwards by gameboy.New.
func New(irq *interrupts.Service) *PPU {
	p := &PPU{
		vram: ram.New(uint32(addr.VRAMEnd-addr.VRAMStart) + 1),
		irq:  irq,
	}
	p.dma = newDMA(&p.oam, nil)
	return p
}

// AttachSourceReader lets the bus supply itself as the OAM DMA's source
// reader once it exists (the PPU is constructed before the bus, since the
// bus needs a reference to the PPU).
func (p *PPU) AttachSourceReader(r SourceReader) {
	p.dma.reader = r
}

// DMA returns the OAM DMA controller. Writes to 0xFF46 reach it through
// Write, and Advance ticks it once per clock cycle.
func (p *PPU) DMA() *DMA { return p.dma }

// LY returns the current scanline.
func (p *PPU) LY() uint8 { return p.ly }

// Mode returns the current scanline mode.
func (p *PPU) Mode() Mode { return p.stat.mode() }

// Framebuffer returns the last completed frame. The caller must not retain
// the pointer across calls; Advance overwrites it in place at the next
// VBlank entry.
func (p *PPU) Framebuffer() *Framebuffer { return &p.front }

// vramAccessible reports whether the CPU may currently read/write VRAM.
func (p *PPU) vramAccessible() bool {
	return !p.lcdc.lcdEnable() || p.stat.mode() != ModeDrawing
}

// oamAccessible reports whether the CPU may currently read/write OAM.
func (p *PPU) oamAccessible() bool {
	if !p.lcdc.lcdEnable() {
		return true
	}
	mode := p.stat.mode()
	return mode != ModeOAMScan && mode != ModeDrawing && !p.dma.Active()
}

// ReadVRAM / WriteVRAM are the bus's entry points for addr.VRAMStart..addr.VRAMEnd.
func (p *PPU) ReadVRAM(address uint16) uint8 {
	if !p.vramAccessible() {
		return 0xFF
	}
	return p.vram.Read(address - addr.VRAMStart)
}

func (p *PPU) WriteVRAM(address uint16, value uint8) {
	if !p.vramAccessible() {
		return
	}
	p.vram.Write(address-addr.VRAMStart, value)
}

// ReadOAM / WriteOAM are the bus's entry points for 0xFE00-0xFE9F.
func (p *PPU) ReadOAM(address uint16) uint8 {
	if !p.oamAccessible() {
		return 0xFF
	}
	return p.oam.Read(address)
}

func (p *PPU) WriteOAM(address uint16, value uint8) {
	if !p.oamAccessible() {
		return
	}
	p.oam.Write(address, value)
}

// Read handles the LCDC..WX register block, addr.LCDC-addr.WX.
func (p *PPU) Read(address uint16) uint8 {
	switch address {
	case addr.LCDC:
		return p.lcdc.get()
	case addr.STAT:
		return p.stat.get()
	case addr.SCY:
		return p.scy
	case addr.SCX:
		return p.scx
	case addr.LY:
		return p.ly
	case addr.LYC:
		return p.lyc
	case addr.DMA:
		return p.dma.Read()
	case addr.BGP:
		return p.bgp.get()
	case addr.OBP0:
		return p.obp0.get()
	case addr.OBP1:
		return p.obp1.get()
	case addr.WY:
		return p.wy
	case addr.WX:
		return p.wx
	}
	panic(fmt.Sprintf("ppu: illegal read from address %#04X", address))
}

// Write handles the LCDC..WX register block, addr.LCDC-addr.WX.
func (p *PPU) Write(address uint16, value uint8) {
	switch address {
	case addr.LCDC:
		wasEnabled := p.lcdc.lcdEnable()
		p.lcdc.set(value)
		nowEnabled := p.lcdc.lcdEnable()
		if wasEnabled && !nowEnabled {
			p.ly = 0
			p.cycles = 0
			p.stat.setMode(ModeHBlank)
		} else if !wasEnabled && nowEnabled {
			// Turning the LCD back on always restarts the frame at
			// line 0 in OAM scan, matching hardware.
			p.ly = 0
			p.cycles = 0
			p.setMode(ModeOAMScan)
		}
	case addr.STAT:
		p.stat.set(value)
	case addr.SCY:
		p.scy = value
	case addr.SCX:
		p.scx = value
	case addr.LY:
		// LY is read-only; writes are dropped.
	case addr.LYC:
		p.lyc = value
	case addr.DMA:
		p.dma.Write(value)
	case addr.BGP:
		p.bgp.set(value)
	case addr.OBP0:
		p.obp0.set(value)
	case addr.OBP1:
		p.obp1.set(value)
	case addr.WY:
		p.wy = value
	case addr.WX:
		p.wx = value
	default:
		panic(fmt.Sprintf("ppu: illegal write to address %#04X", address))
	}
}

// Advance steps the PPU by the given number of clock cycles,
// driving the mode state machine and, on each VBlank entry, swapping the
// front and back framebuffers.
func (p *PPU) Advance(cycles uint16) {
	for i := uint16(0); i < cycles; i++ {
		p.dma.Tick()
		if p.lcdc.lcdEnable() {
			p.tick()
		}
	}
}

func (p *PPU) tick() {
	p.cycles++

	switch p.stat.mode() {
	case ModeOAMScan:
		if p.cycles >= oamScanCycles {
			p.setMode(ModeDrawing)
		}
	case ModeDrawing:
		if p.cycles >= oamScanCycles+drawingCycles {
			p.renderLine()
			p.setMode(ModeHBlank)
		}
	case ModeHBlank:
		if p.cycles >= scanlineCycles {
			p.cycles = 0
			p.nextLine()
		}
	case ModeVBlank:
		if p.cycles >= scanlineCycles {
			p.cycles = 0
			p.nextLine()
		}
	}
}

func (p *PPU) nextLine() {
	p.ly++
	if p.ly == visibleLines {
		p.setMode(ModeVBlank)
		p.front = p.back
		p.irq.Request(interrupts.VBlankFlag)
		p.windowLine = 0
	} else if p.ly == totalLines {
		p.ly = 0
		p.setMode(ModeOAMScan)
	} else if p.ly < visibleLines {
		p.setMode(ModeOAMScan)
	}
	p.checkCoincidence()
}

func (p *PPU) setMode(m Mode) {
	p.stat.setMode(m)
	p.updateStatLine()
}

func (p *PPU) checkCoincidence() {
	p.stat.setCoincidence(p.ly == p.lyc)
	p.updateStatLine()
}

// updateStatLine requests the LCD STAT interrupt on the rising edge of the
// logical OR of its enabled sources, per §4.4.
func (p *PPU) updateStatLine() {
	signal := p.stat.signal()
	if signal && !p.statLine {
		p.irq.Request(interrupts.LCDFlag)
	}
	p.statLine = signal
}
