package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmgo/addr"
)

func TestOAMAndVRAMModeGating(t *testing.T) {
	p := New()
	p.vram[0] = 0x42
	p.oam[0] = 0x42

	p.mode = ModeDrawing
	assert.Equal(t, byte(0xFF), p.ReadVRAM(0x8000), "VRAM read in mode 3")
	assert.Equal(t, byte(0xFF), p.ReadOAM(addr.OAMStart), "OAM read in mode 3")

	p.mode = ModeOAMSearch
	assert.Equal(t, byte(0xFF), p.ReadOAM(addr.OAMStart), "OAM read in mode 2")
	assert.Equal(t, byte(0x42), p.ReadVRAM(0x8000), "only OAM is gated in mode 2")

	p.mode = ModeHBlank
	assert.Equal(t, byte(0x42), p.ReadVRAM(0x8000), "VRAM should be freely readable in HBlank")
	assert.Equal(t, byte(0x42), p.ReadOAM(addr.OAMStart), "OAM should be freely readable in HBlank")
}

func TestScrollRegisterShiftsSourceTile(t *testing.T) {
	p := New()
	p.lcdc = 0x91 // LCD+BG enabled, unsigned tile data, tilemap 0
	p.bgp = 0xE4  // identity mapping

	// tile 1: solid color 3 (both bitplane bits set on every column)
	p.vram[1*16] = 0xFF
	p.vram[1*16+1] = 0xFF
	// tile 0 is left zeroed: solid color 0

	p.vram[0x1800] = 1 // map (0,0) -> tile 1

	p.renderScanline()
	require.Equal(t, byte(0x00), p.framebuffer[0], "SCX=0 pixel(0,0): tile 1, color 3")

	// A full-tile shift (SCX=8) moves the source tile column from map(0,0)
	// (tile 1) to map(1,0), which defaults to tile 0 (solid color 0).
	p.scx = 8
	p.renderScanline()
	require.Equal(t, byte(0xFF), p.framebuffer[0], "SCX=8 pixel(0,0): tile 0, color 0")
}

func TestSpritePriorityAgainstBackground(t *testing.T) {
	p := New()
	p.lcdc = 0x93 // LCD+BG+OBJ enabled, unsigned tile data, tilemap 0
	p.bgp = 0xE4  // identity mapping: idx -> grayscale(idx)
	p.obp0 = 0xFF // every index maps to color 3 (0x00)

	// Background tile 1 at map(0,0): row 0 columns encode color indices
	// 0,1,2,3,0,0,0,0 left to right.
	p.vram[0x1800] = 1
	p.vram[1*16] = 0x50   // low bitplane
	p.vram[1*16+1] = 0x30 // high bitplane

	// Sprite at (0,0), tile 2, solid color index 1, priority bit set
	// (drawn behind non-zero background).
	p.vram[2*16] = 0xFF
	p.vram[2*16+1] = 0x00
	p.oam[0] = 16   // Y
	p.oam[1] = 8    // X
	p.oam[2] = 2    // tile
	p.oam[3] = 0x80 // priority bit set, OBP0

	p.renderScanline()

	assert.Equal(t, byte(0x00), p.framebuffer[0], "pixel 0 (bg color 0): sprite wins")
	assert.Equal(t, byte(0xAA), p.framebuffer[1], "pixel 1 (bg color 1): background wins")
}

func TestLYCInterruptOnRisingEdge(t *testing.T) {
	p := New()
	p.lyc = 1
	p.stat = 0x40 // LYC interrupt enabled

	p.Tick(oamSearchCycles + drawingCycles + hblankCycles) // completes line 0, LY becomes 1
	require.True(t, p.IsIRQLCDStat(), "expected LYC interrupt when LY reached LYC")
	assert.False(t, p.IsIRQLCDStat(), "IsIRQLCDStat should consume the flag")
}

func TestHBlankInterruptOnModeEntry(t *testing.T) {
	p := New()
	p.stat = 0x08 // HBlank interrupt enabled

	p.Tick(oamSearchCycles + drawingCycles) // drawing -> HBlank
	require.True(t, p.IsIRQLCDStat(), "expected HBlank interrupt on mode-0 entry")
	assert.False(t, p.IsIRQLCDStat(), "IsIRQLCDStat should consume the flag")
	assert.Equal(t, ModeHBlank, p.mode)
}

func TestFrameCadenceRaisesVBlankOncePerFrame(t *testing.T) {
	p := New()
	p.Tick(70224)

	require.True(t, p.IsIRQVBlank(), "expected exactly one VBlank interrupt after one full frame")
	assert.Equal(t, ModeOAMSearch, p.mode)
	assert.Equal(t, byte(0), p.ly)
}
