package serial

import (
	"testing"

	"github.com/lucasgreco/gbcore/internal/interrupts"
)

func newTestController() (*Controller, *interrupts.Service) {
	irq := interrupts.NewService()
	irq.Enable = 1 << interrupts.SerialFlag
	return NewController(irq), irq
}

func TestSBRoundTrip(t *testing.T) {
	c, _ := newTestController()
	c.Write(0xFF01, 0x41)
	if got := c.Read(0xFF01); got != 0x41 {
		t.Errorf("SB = %#02X, want 0x41", got)
	}
}

func TestInternalClockTransferCompletesImmediately(t *testing.T) {
	c, irq := newTestController()
	var got uint8
	c.OnByte = func(b uint8) { got = b }

	c.Write(0xFF01, 'P')
	c.Write(0xFF02, 0x81) // internal clock, transfer requested

	if got != 'P' {
		t.Errorf("OnByte received %q, want 'P'", got)
	}
	if !irq.Pending() {
		t.Error("Serial interrupt was not requested on transfer completion")
	}
	if c.Read(0xFF02)&0x80 != 0 {
		t.Error("SC bit 7 (transfer in progress) should clear once the transfer completes")
	}
}

func TestExternalClockDoesNotTransfer(t *testing.T) {
	c, irq := newTestController()
	called := false
	c.OnByte = func(uint8) { called = true }

	c.Write(0xFF01, 'X')
	c.Write(0xFF02, 0x80) // transfer requested, but external clock (bit 0 clear)

	if called {
		t.Error("transfer completed with no internal clock selected")
	}
	if irq.Pending() {
		t.Error("interrupt requested without a completed transfer")
	}
}

func TestSCReadMasksReservedBits(t *testing.T) {
	c, _ := newTestController()
	c.Write(0xFF02, 0x00)
	if got := c.Read(0xFF02); got != 0x7E {
		t.Errorf("SC read = %#02X, want 0x7E (reserved bits read as 1)", got)
	}
}

func TestIllegalAddressPanics(t *testing.T) {
	c, _ := newTestController()
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic")
		}
	}()
	c.Read(0x1234)
}
