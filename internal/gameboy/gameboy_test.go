package gameboy

import "testing"

// blankROM returns a minimal 32KiB ROM-only (no MBC) cartridge image: large
// enough to parse a header, with the type byte at 0x0147 set to ROM.
func blankROM() []byte {
	rom := make([]byte, 0x8000)
	rom[0x0147] = 0x00 // ROM, no MBC
	rom[0x0148] = 0x00 // 32KiB
	return rom
}

func TestNewResetsToDMGState(t *testing.T) {
	gb, err := New(blankROM())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if gb.CPU.PC != 0x0100 {
		t.Errorf("PC = %#04X, want 0x0100", gb.CPU.PC)
	}
	if gb.CPU.SP != 0xFFFE {
		t.Errorf("SP = %#04X, want 0xFFFE", gb.CPU.SP)
	}
}

func TestNewRejectsShortROM(t *testing.T) {
	if _, err := New([]byte{0x00, 0x01}); err == nil {
		t.Fatal("expected an error for a too-short ROM image")
	}
}

func TestStepAdvancesFrameClock(t *testing.T) {
	gb, err := New(blankROM())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var total uint32
	for i := 0; i < 100; i++ {
		total += uint32(gb.Step())
	}
	if total == 0 {
		t.Error("Step never reported any elapsed cycles")
	}
}

func TestFrameReturnsFullFramebuffer(t *testing.T) {
	gb, err := New(blankROM())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	fb := gb.Frame()
	if fb == nil {
		t.Fatal("Frame returned a nil framebuffer")
	}
}

func TestPauseStopsFrameAdvance(t *testing.T) {
	gb, err := New(blankROM())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	gb.Pause()
	if !gb.Paused() {
		t.Error("Paused() false after Pause()")
	}
	gb.Unpause()
	if gb.Paused() {
		t.Error("Paused() true after Unpause()")
	}
}

func TestSerialDebuggerCapturesOutput(t *testing.T) {
	var output string
	gb, err := New(blankROM(), SerialDebugger(&output))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	gb.Serial.OnByte('P')
	if output != "P" {
		t.Errorf("output = %q, want %q", output, "P")
	}
}
