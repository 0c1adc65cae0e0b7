// Package blargg drives Blargg's cpu_instrs-style test ROMs through the
// serial port and checks for the pass banner they print on completion.
package blargg

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"dmgo"
)

const (
	// framesFor60Seconds approximates 60 seconds of emulated time at the
	// DMG's ~59.7Hz frame rate.
	framesFor60Seconds = 60 * 60
	passBanner         = "Passed all tests"
)

func runBlarggROM(t *testing.T, romPath string) {
	if _, err := os.Stat(romPath); os.IsNotExist(err) {
		t.Skipf("test ROM not available: %s", romPath)
	}

	emu, err := dmgo.NewWithFile(romPath)
	require.NoError(t, err)

	for frame := 0; frame < framesFor60Seconds; frame++ {
		require.NoError(t, emu.RunFrame(), "frame %d", frame)

		if strings.Contains(strings.Join(emu.SerialOutput(), ""), passBanner) {
			return
		}
	}

	t.Fatalf("serial output never reported %q after %d frames; got: %q",
		passBanner, framesFor60Seconds, strings.Join(emu.SerialOutput(), ""))
}

func TestCPUInstrs(t *testing.T) {
	roms := []string{
		"../../test-roms/cpu_instrs/cpu_instrs.gb",
		"../../test-roms/01-special.gb",
		"../../test-roms/02-interrupts.gb",
		"../../test-roms/03-op sp,hl.gb",
		"../../test-roms/04-op r,imm.gb",
		"../../test-roms/05-op rp.gb",
		"../../test-roms/06-ld r,r.gb",
		"../../test-roms/07-jr,jp,call,ret,rst.gb",
		"../../test-roms/08-misc instrs.gb",
		"../../test-roms/09-op r,r.gb",
		"../../test-roms/10-bit ops.gb",
		"../../test-roms/11-op a,(hl).gb",
	}

	for _, rom := range roms {
		rom := rom
		t.Run(rom, func(t *testing.T) {
			runBlarggROM(t, rom)
		})
	}
}
