// Package video implements the PPU: the four-phase mode machine, OAM/VRAM
// storage with mode-gated access, and scanline-atomic background/window/
// sprite compositing into a grayscale framebuffer.
package video

import "dmgo/addr"

const (
	FramebufferWidth  = 160
	FramebufferHeight = 144
	FramebufferSize   = FramebufferWidth * FramebufferHeight
)

// Mode is the PPU's current rendering stage, mirroring STAT bits 1-0.
type Mode uint8

const (
	ModeHBlank    Mode = 0
	ModeVBlank    Mode = 1
	ModeOAMSearch Mode = 2
	ModeDrawing   Mode = 3
)

const (
	oamSearchCycles  = 80
	drawingCycles    = 172
	hblankCycles     = 204
	vblankLineCycles = 456
)

// PPU implements memory.PPU: the MMU routes VRAM/OAM access and register
// reads/writes here rather than holding that state itself, so mode-gating
// (VRAM blocked in mode 3, OAM blocked in modes 2 and 3) lives with the
// component that knows its own mode.
type PPU struct {
	vram [0x2000]byte
	oam  [0xA0]byte

	lcdc, stat, scy, scx, ly, lyc, bgp, obp0, obp1, wy, wx byte

	mode    Mode
	counter int

	irqVBlank  bool
	irqLCDStat bool

	framebuffer [FramebufferSize]byte
	priority    spritePriorityBuffer
}

func New() *PPU {
	p := &PPU{}
	p.setMode(ModeOAMSearch)
	for i := range p.framebuffer {
		p.framebuffer[i] = 0xFF
	}
	return p
}

func grayscale(colorIndex byte) byte {
	switch colorIndex & 0x03 {
	case 0:
		return 0xFF
	case 1:
		return 0xAA
	case 2:
		return 0x55
	default:
		return 0x00
	}
}

// Frame returns the current grayscale framebuffer. The slice aliases the
// PPU's own buffer, so each scanline render overwrites its row.
func (p *PPU) Frame() []byte { return p.framebuffer[:] }

func (p *PPU) LY() byte { return p.ly }

// Tick advances the mode machine by cycles CPU clock ticks, rendering a
// scanline atomically at each mode-2-to-3 transition and raising
// irqVBlank/irqLCDStat on the mode/LYC transitions spec'd for STAT.
func (p *PPU) Tick(cycles int) {
	for cycles > 0 {
		duration := p.modeDuration()
		step := duration - p.counter
		if step > cycles {
			step = cycles
		}
		p.counter += step
		cycles -= step

		if p.counter >= duration {
			p.counter = 0
			p.transition()
		}
	}
}

func (p *PPU) modeDuration() int {
	switch p.mode {
	case ModeOAMSearch:
		return oamSearchCycles
	case ModeDrawing:
		return drawingCycles
	case ModeHBlank:
		return hblankCycles
	default:
		return vblankLineCycles
	}
}

func (p *PPU) transition() {
	switch p.mode {
	case ModeOAMSearch:
		p.renderScanline()
		p.setMode(ModeDrawing)
	case ModeDrawing:
		p.setMode(ModeHBlank)
		if p.stat&0x08 != 0 {
			p.irqLCDStat = true
		}
	case ModeHBlank:
		p.setLY(p.ly + 1)
		if p.ly >= 144 {
			p.setMode(ModeVBlank)
			p.irqVBlank = true
			if p.stat&0x10 != 0 {
				p.irqLCDStat = true
			}
		} else {
			p.setMode(ModeOAMSearch)
			if p.stat&0x20 != 0 {
				p.irqLCDStat = true
			}
		}
	case ModeVBlank:
		if p.ly == 153 {
			p.setLY(0)
			p.setMode(ModeOAMSearch)
			if p.stat&0x20 != 0 {
				p.irqLCDStat = true
			}
		} else {
			p.setLY(p.ly + 1)
		}
	}
}

func (p *PPU) setMode(mode Mode) {
	p.mode = mode
	p.stat = p.stat&0xFC | byte(mode)
}

// setLY updates LY and recomputes the LYC==LY STAT flag, raising irqLCDStat
// on the flag's rising edge when STAT bit 6 is enabled.
func (p *PPU) setLY(line byte) {
	p.ly = line
	p.recomputeLYCFlag()
}

func (p *PPU) recomputeLYCFlag() {
	equal := p.ly == p.lyc
	wasSet := p.stat&0x04 != 0

	if equal {
		p.stat |= 0x04
	} else {
		p.stat &^= 0x04
	}

	if equal && !wasSet && p.stat&0x40 != 0 {
		p.irqLCDStat = true
	}
}

// IsIRQVBlank/IsIRQLCDStat report and consume the corresponding edge-
// triggered interrupt line.
func (p *PPU) IsIRQVBlank() bool {
	fired := p.irqVBlank
	p.irqVBlank = false
	return fired
}

func (p *PPU) IsIRQLCDStat() bool {
	fired := p.irqLCDStat
	p.irqLCDStat = false
	return fired
}

func (p *PPU) ReadVRAM(address uint16) byte {
	if p.mode == ModeDrawing {
		return 0xFF
	}
	return p.vram[address-0x8000]
}

func (p *PPU) WriteVRAM(address uint16, value byte) {
	p.vram[address-0x8000] = value
}

func (p *PPU) ReadOAM(address uint16) byte {
	if p.mode == ModeOAMSearch || p.mode == ModeDrawing {
		return 0xFF
	}
	return p.oam[address-addr.OAMStart]
}

func (p *PPU) WriteOAM(address uint16, value byte) {
	p.oam[address-addr.OAMStart] = value
}

func (p *PPU) ReadRegister(address uint16) byte {
	switch address {
	case addr.LCDC:
		return p.lcdc
	case addr.STAT:
		return p.stat
	case addr.SCY:
		return p.scy
	case addr.SCX:
		return p.scx
	case addr.LY:
		return p.ly
	case addr.LYC:
		return p.lyc
	case addr.BGP:
		return p.bgp
	case addr.OBP0:
		return p.obp0
	case addr.OBP1:
		return p.obp1
	case addr.WY:
		return p.wy
	case addr.WX:
		return p.wx
	default:
		return 0xFF
	}
}

func (p *PPU) WriteRegister(address uint16, value byte) {
	switch address {
	case addr.LCDC:
		p.lcdc = value
	case addr.STAT:
		p.stat = p.stat&0x07 | value&0xF8 // mode bits and LYC flag stay PPU-owned
	case addr.SCY:
		p.scy = value
	case addr.SCX:
		p.scx = value
	case addr.LY:
		// read-only on real hardware; writes ignored
	case addr.LYC:
		p.lyc = value
		p.recomputeLYCFlag()
	case addr.BGP:
		p.bgp = value
	case addr.OBP0:
		p.obp0 = value
	case addr.OBP1:
		p.obp1 = value
	case addr.WY:
		p.wy = value
	case addr.WX:
		p.wx = value
	}
}

// renderScanline composites background, window, and sprites for the
// current LY in one shot, the simplification spec calls out as acceptable
// since register writes mid-scanline are rare in practice.
func (p *PPU) renderScanline() {
	line := int(p.ly)
	if line >= FramebufferHeight {
		return
	}

	if p.lcdc&0x01 == 0 {
		rowStart := line * FramebufferWidth
		for x := 0; x < FramebufferWidth; x++ {
			p.framebuffer[rowStart+x] = 0xFF
		}
	} else {
		p.renderBackgroundAndWindow(line)
	}

	if p.lcdc&0x02 != 0 {
		p.renderSprites(line)
	}
}

func (p *PPU) renderBackgroundAndWindow(line int) {
	rowStart := line * FramebufferWidth
	windowEnabled := p.lcdc&0x20 != 0
	windowStartX := int(p.wx) - 7

	for x := 0; x < FramebufferWidth; x++ {
		inWindow := windowEnabled && int(p.wy) <= line && windowStartX <= x

		var srcX, srcY int
		var mapBase uint16
		if inWindow {
			srcX = x - windowStartX
			srcY = line - int(p.wy)
			mapBase = 0x1800
			if p.lcdc&0x40 != 0 {
				mapBase = 0x1C00
			}
		} else {
			srcX = (int(p.scx) + x) & 0xFF
			srcY = (int(p.scy) + line) & 0xFF
			mapBase = 0x1800
			if p.lcdc&0x08 != 0 {
				mapBase = 0x1C00
			}
		}

		tx, ty := srcX/8, srcY/8
		ox, oy := srcX%8, srcY%8

		tileNum := p.vram[mapBase+uint16(ty*32+tx)]

		var tileDataAddr uint16
		if p.lcdc&0x10 != 0 {
			tileDataAddr = uint16(tileNum) * 16
		} else {
			tileDataAddr = uint16(0x1000 + int(int8(tileNum))*16)
		}

		lo := p.vram[tileDataAddr+uint16(oy*2)]
		hi := p.vram[tileDataAddr+uint16(oy*2)+1]
		shift := uint8(7 - ox)
		colorIndex := (hi>>shift)&1<<1 | (lo>>shift)&1

		bgp := (p.bgp >> (colorIndex * 2)) & 0x03
		p.framebuffer[rowStart+x] = grayscale(bgp)
	}
}

func (p *PPU) renderSprites(line int) {
	height := 8
	if p.lcdc&0x04 != 0 {
		height = 16
	}

	var visible []int
	for i := 0; i < 40; i++ {
		y := int(p.oam[i*4]) - 16
		if y > line || line >= y+height {
			continue
		}

		x := int(p.oam[i*4+1]) - 8
		if x <= -8 || x >= FramebufferWidth {
			continue // no column lands on screen
		}

		visible = append(visible, i)
		if len(visible) >= 10 {
			break
		}
	}

	p.priority.clear()
	for _, sprite := range visible {
		x := int(p.oam[sprite*4+1]) - 8
		for ox := 0; ox < 8; ox++ {
			p.priority.tryClaim(x+ox, sprite, x)
		}
	}

	rowStart := line * FramebufferWidth
	for _, sprite := range visible {
		y := int(p.oam[sprite*4]) - 16
		x := int(p.oam[sprite*4+1]) - 8
		tileNum := p.oam[sprite*4+2]
		attr := p.oam[sprite*4+3]

		flipY := attr&0x40 != 0
		flipX := attr&0x20 != 0
		behindBG := attr&0x80 != 0
		palette := p.obp0
		if attr&0x10 != 0 {
			palette = p.obp1
		}

		rowInSprite := line - y
		offsetY := rowInSprite
		if flipY {
			offsetY = height - 1 - rowInSprite
		}

		tile := int(tileNum)
		if height == 16 {
			tile &^= 1
		}
		tileDataAddr := uint16(tile*16 + offsetY*2)
		lo := p.vram[tileDataAddr]
		hi := p.vram[tileDataAddr+1]

		for ox := 0; ox < 8; ox++ {
			px := x + ox
			if p.priority.owner(px) != sprite {
				continue
			}

			col := ox
			if flipX {
				col = 7 - ox
			}
			shift := uint8(7 - col)
			colorIndex := (hi>>shift)&1<<1 | (lo>>shift)&1
			if colorIndex == 0 {
				continue // transparent
			}

			if behindBG && p.framebuffer[rowStart+px] != 0xFF {
				continue
			}

			obp := (palette >> (colorIndex * 2)) & 0x03
			p.framebuffer[rowStart+px] = grayscale(obp)
		}
	}
}
