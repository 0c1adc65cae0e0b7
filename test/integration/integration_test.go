// Package integration runs synthetic in-memory scenes through a full
// Emulator (no external ROM fixtures) and asserts on the resulting
// framebuffer, exercising the CPU/MMU/PPU wiring end-to-end.
package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmgo"
	"dmgo/addr"
)

// blankROM builds a minimal, header-valid 32KiB NoMBC ROM image so an
// Emulator can be constructed without a real cartridge file.
func blankROM(t *testing.T) []byte {
	t.Helper()
	data := make([]byte, 32*1024)
	copy(data[0x134:0x144], []byte("INTEGRATION TEST"))
	data[0x147] = 0x00 // NoMBC
	data[0x148] = 0x00 // 32KiB ROM, 2 banks
	data[0x149] = 0x00 // no external RAM

	var checksum byte
	for i := 0x134; i <= 0x14C; i++ {
		checksum = checksum - data[i] - 1
	}
	data[0x14D] = checksum

	return data
}

// newEmulatorFromROM writes data to a temp file and loads it through
// dmgo.NewWithFile, exercising the real cartridge-loading path end to end.
func newEmulatorFromROM(t *testing.T, data []byte) *dmgo.Emulator {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.gb")
	require.NoError(t, os.WriteFile(path, data, 0644))

	e, err := dmgo.NewWithFile(path)
	require.NoError(t, err)
	return e
}

func TestScrollRegisterShiftsRenderedTile(t *testing.T) {
	e := newEmulatorFromROM(t, blankROM(t))
	bus := e.Bus()

	bus.Write(addr.LCDC, 0x91) // LCD+BG on, unsigned tile data, map 0
	bus.Write(addr.BGP, 0xE4)  // identity palette

	// tile 1: solid color 3 on every row.
	for row := uint16(0); row < 16; row += 2 {
		bus.Write(addr.TileData0+16+row, 0xFF)
		bus.Write(addr.TileData0+16+row+1, 0xFF)
	}
	// map (0,0) -> tile 1; tile 0 (default, zeroed) is solid color 0.
	bus.Write(addr.TileMap0, 1)

	require.NoError(t, e.RunFrame())
	assert.Equal(t, byte(0x00), e.Frame()[0], "SCX=0 pixel(0,0)")

	// A full-tile shift (SCX=8) moves pixel (0,0)'s source tile to map
	// (1,0), which defaults to tile 0 (solid color 0, grayscale 0xFF).
	bus.Write(addr.SCX, 8)
	require.NoError(t, e.RunFrame())
	assert.Equal(t, byte(0xFF), e.Frame()[0], "SCX=8 pixel(0,0)")
}

func TestSpritePriorityScenario(t *testing.T) {
	e := newEmulatorFromROM(t, blankROM(t))
	bus := e.Bus()

	bus.Write(addr.LCDC, 0x93) // LCD+BG+OBJ on, unsigned tile data, map 0
	bus.Write(addr.BGP, 0xE4)
	bus.Write(addr.OBP0, 0xFF) // every index maps to color 3

	// Background tile 1 at map(0,0), row 0 columns: colors 0,1,2,3,...
	bus.Write(addr.TileMap0, 1)
	bus.Write(addr.TileData0+16, 0x50) // low bitplane
	bus.Write(addr.TileData0+17, 0x30) // high bitplane

	// Sprite at (0,0) tile 2, solid color 1, priority bit set (loses to
	// any non-zero background pixel).
	bus.Write(addr.TileData0+32, 0xFF)
	bus.Write(addr.TileData0+33, 0x00)
	bus.Write(addr.OAMStart+0, 16)   // Y
	bus.Write(addr.OAMStart+1, 8)    // X
	bus.Write(addr.OAMStart+2, 2)    // tile
	bus.Write(addr.OAMStart+3, 0x80) // priority + OBP0

	require.NoError(t, e.RunFrame())

	frame := e.Frame()
	assert.Equal(t, byte(0x00), frame[0], "pixel 0 (bg color 0): sprite wins")
	assert.Equal(t, byte(0xAA), frame[1], "pixel 1 (bg color 1): background wins")
}
