// Package gameboy wires a Bus, CPU, PPU, Timer, Serial, Joypad and
// Interrupts service together into a runnable DMG emulation (no APU, no
// host presentation layer).
package gameboy

import (
	"fmt"
	"time"

	"github.com/lucasgreco/gbcore/internal/bus"
	"github.com/lucasgreco/gbcore/internal/cartridge"
	"github.com/lucasgreco/gbcore/internal/cpu"
	"github.com/lucasgreco/gbcore/internal/interrupts"
	"github.com/lucasgreco/gbcore/internal/joypad"
	"github.com/lucasgreco/gbcore/internal/ppu"
	"github.com/lucasgreco/gbcore/internal/serial"
	"github.com/lucasgreco/gbcore/internal/timer"
	"github.com/lucasgreco/gbcore/pkg/log"
)

// ClockSpeed is the DMG system clock in Hz.
const ClockSpeed = 4194304

// FrameRate is the nominal DMG refresh rate.
const FrameRate = 60

// TicksPerFrame is the number of clock cycles in one 59.7Hz frame: 154
// scanlines of 456 cycles each.
const TicksPerFrame = uint32(154 * 456)

// GameBoy owns every component of a DMG and drives them via CPU.Step.
type GameBoy struct {
	CPU    *cpu.CPU
	Bus    *bus.Bus
	PPU    *ppu.PPU
	Timer  *timer.Controller
	Serial *serial.Controller
	Joypad *joypad.State
	IRQ    *interrupts.Service
	Cart   *cartridge.Cartridge

	log log.Logger

	paused bool
}

// Option configures a GameBoy at construction time.
type Option func(gb *GameBoy)

// WithLogger replaces the GameBoy's own logger, which defaults to a no-op
// logger. The cartridge, bus and CPU that New builds keep the no-op logger;
// this option does not reach them.
func WithLogger(l log.Logger) Option {
	return func(gb *GameBoy) { gb.log = l }
}

// SerialDebugger registers a hook that accumulates serial output into
// output, the way Blargg test ROMs report PASS/FAIL over the link cable.
func SerialDebugger(output *string) Option {
	return func(gb *GameBoy) {
		gb.Serial.OnByte = func(b byte) {
			*output += string(b)
		}
	}
}

// New constructs a GameBoy from a ROM image and resets it to the standard
// DMG post-boot-ROM state (§3).
func New(rom []byte, opts ...Option) (*GameBoy, error) {
	logger := log.NewNullLogger()

	cart, err := cartridge.New(rom, logger)
	if err != nil {
		return nil, fmt.Errorf("gameboy: %w", err)
	}

	irq := interrupts.NewService()
	pad := joypad.New(irq)
	ser := serial.NewController(irq)
	tmr := timer.NewController(irq)
	video := ppu.New(irq)

	b := bus.New(cart, video, tmr, ser, pad, irq, logger)
	c := cpu.New(b, irq, logger)

	gb := &GameBoy{
		CPU:    c,
		Bus:    b,
		PPU:    video,
		Timer:  tmr,
		Serial: ser,
		Joypad: pad,
		IRQ:    irq,
		Cart:   cart,
		log:    logger,
	}

	for _, opt := range opts {
		opt(gb)
	}

	// Reproduce the PPU register state the internal boot ROM leaves behind.
	b.Write(0xFF40, 0x91) // LCDC: LCD+BG+window tiles at 0x8000, BG enabled
	b.Write(0xFF41, 0x80) // STAT: no interrupt sources enabled
	b.Write(0xFF47, 0xFC) // BGP: the standard four-shade DMG palette

	return gb, nil
}

func (gb *GameBoy) Pause()       { gb.paused = true }
func (gb *GameBoy) Unpause()     { gb.paused = false }
func (gb *GameBoy) Paused() bool { return gb.paused }

// Step executes exactly one CPU instruction and advances every peripheral
// by the resulting number of clock cycles, returning that count.
func (gb *GameBoy) Step() uint16 {
	cycles := gb.CPU.Step()
	gb.Bus.Tick(cycles)
	gb.PPU.Advance(cycles)
	return cycles
}

// Frame runs the emulation until the PPU has completed a full 70224-cycle
// frame and returns the finished framebuffer.
func (gb *GameBoy) Frame() *ppu.Framebuffer {
	ticks := uint32(0)
	for ticks < TicksPerFrame {
		ticks += uint32(gb.Step())
	}
	return gb.PPU.Framebuffer()
}

// Run drives Frame in a loop, pacing to FrameRate with a time.Ticker.
func (gb *GameBoy) Run(onFrame func(*ppu.Framebuffer)) {
	ticker := time.NewTicker(time.Second / FrameRate)
	defer ticker.Stop()
	for range ticker.C {
		if gb.paused {
			continue
		}
		frame := gb.Frame()
		if onFrame != nil {
			onFrame(frame)
		}
	}
}
