// Package joypad emulates the P1 (0xFF00) joypad matrix register: one
// nibble selects whether the action or direction row is being read, the
// other nibble reports the inverted pressed state of that row.
package joypad

import "github.com/lucasgreco/gbcore/internal/interrupts"

// Button is a bitmask identifying one physical button.
type Button = uint8

const (
	ButtonA      Button = 0x01
	ButtonB      Button = 0x02
	ButtonSelect Button = 0x04
	ButtonStart  Button = 0x08
	ButtonRight  Button = 0x10
	ButtonLeft   Button = 0x20
	ButtonUp     Button = 0x40
	ButtonDown   Button = 0x80
)

const actionMask = ButtonA | ButtonB | ButtonSelect | ButtonStart

// State holds the P1 select nibble and the current pressed-button mask.
type State struct {
	// register holds bits 5 (select action) and 4 (select direction) as
	// written by the CPU; the low nibble is computed on Read.
	register uint8
	// pressed is the set of currently-held buttons.
	pressed uint8

	irq *interrupts.Service
}

// New returns a joypad with nothing selected and nothing pressed.
func New(irq *interrupts.Service) *State {
	return &State{register: 0x30, irq: irq}
}

// Read returns the current value of P1: the select bits as last written,
// OR'd with the inverted pressed state of whichever row(s) are selected.
func (s *State) Read() uint8 {
	result := s.register | 0xC0
	if s.register&0x10 == 0 { // direction row selected
		result |= ^(s.pressed >> 4) & 0x0F
	}
	if s.register&0x20 == 0 { // action row selected
		result |= ^(s.pressed & 0x0F) & 0x0F
	}
	if s.register&0x30 == 0x30 {
		result |= 0x0F
	}
	return result
}

// Write updates the select bits (bits 5 and 4 only).
func (s *State) Write(value uint8) {
	s.register = (s.register & 0xCF) | (value & 0x30)
}

// Press marks a button held. If the corresponding row is selected and the
// button transitions from unset to set, the joypad interrupt fires —
// the Game Boy's matrix wiring only generates an edge on press, never on
// an already-held button being pressed again.
func (s *State) Press(key Button) {
	wasSet := s.pressed&key != 0
	s.pressed |= key

	rowSelected := false
	if key&actionMask != 0 {
		rowSelected = s.register&0x20 == 0
	} else {
		rowSelected = s.register&0x10 == 0
	}

	if !wasSet && rowSelected {
		s.irq.Request(interrupts.JoypadFlag)
	}
}

// Release marks a button no longer held.
func (s *State) Release(key Button) {
	s.pressed &^= key
}
