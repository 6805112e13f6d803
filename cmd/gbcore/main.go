// Command gbcore runs a DMG ROM headlessly for a fixed number of frames,
// grounded on cmd/goboy/main.go's flag parsing minus the fyne windows that
// presented the framebuffer (out of scope per §1 Non-goals).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lucasgreco/gbcore/internal/gameboy"
)

func main() {
	romFile := flag.String("rom", "", "the rom file to load")
	frames := flag.Int("frames", 60, "number of frames to run before exiting")
	serialOut := flag.Bool("serial", false, "print serial port output (Blargg-style test ROMs)")
	flag.Parse()

	if *romFile == "" {
		fmt.Fprintln(os.Stderr, "gbcore: -rom is required")
		os.Exit(2)
	}

	rom, err := os.ReadFile(*romFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gbcore: %v\n", err)
		os.Exit(1)
	}

	var output string
	var opts []gameboy.Option
	if *serialOut {
		opts = append(opts, gameboy.SerialDebugger(&output))
	}

	gb, err := gameboy.New(rom, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gbcore: %v\n", err)
		os.Exit(1)
	}

	header := gb.Cart.Header()
	fmt.Printf("loaded %q (%s)\n", header.Title, header.CartridgeType)

	for i := 0; i < *frames; i++ {
		gb.Frame()
	}

	if *serialOut {
		fmt.Print(output)
	}
}
