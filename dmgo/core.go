// Package dmgo wires the CPU, MMU, and PPU into a runnable emulator: it
// loads cartridges, drives execution one frame at a time, and persists
// battery-backed save data.
package dmgo

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dmgo/memory"
)

// cyclesPerFrame is the number of CPU cycles in one 59.7Hz DMG frame
// (154 scanlines * 456 cycles).
const cyclesPerFrame = 70224

// Emulator is the root type: a cartridge loaded onto a wired CPU+MMU+PPU,
// steppable one frame (or one instruction) at a time.
type Emulator struct {
	bus  *Bus
	cart *memory.Cartridge

	savePath string
	paused   bool

	frameCount       uint64
	instructionCount uint64
}

// New creates an emulator with no cartridge loaded, mirroring booting a DMG
// with an empty cartridge slot.
func New() *Emulator {
	return &Emulator{bus: newBus(memory.New())}
}

// NewWithFile loads the ROM at path. If the cartridge is battery-backed and
// a save file already exists alongside it, the save data is restored before
// the first instruction runs.
func NewWithFile(path string) (*Emulator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dmgo: read rom: %w", err)
	}

	cart, err := memory.LoadCartridge(data)
	if err != nil {
		return nil, err
	}

	e := &Emulator{
		bus:      newBus(memory.NewWithCartridge(cart)),
		cart:     cart,
		savePath: savePathFor(path, cart),
	}

	if cart.HasBattery {
		if saveData, err := os.ReadFile(e.savePath); err == nil {
			e.bus.MMU.LoadCartridgeSaveData(saveData)
			slog.Info("loaded save data", "path", e.savePath, "bytes", len(saveData))
		} else if !os.IsNotExist(err) {
			slog.Warn("failed to read save file", "path", e.savePath, "error", err)
		}
	}

	return e, nil
}

// savePathFor derives the `.sav` path for a ROM: same directory, title
// sanitized to a safe basename.
func savePathFor(romPath string, cart *memory.Cartridge) string {
	dir := filepath.Dir(romPath)
	name := strings.ReplaceAll(cart.Title, " ", "_")
	return filepath.Join(dir, name+".sav")
}

// RunFrame advances the emulator by one frame's worth of cycles (70224),
// stopping at the first instruction boundary at or past that count, unless
// paused, in which case it does nothing. Returns the first fatal decode
// error encountered, if any.
func (e *Emulator) RunFrame() error {
	if e.paused {
		return nil
	}

	total := 0
	for total < cyclesPerFrame {
		cycles, err := e.bus.StepInstruction()
		if err != nil {
			return err
		}
		total += cycles
		e.instructionCount++
	}

	e.frameCount++
	if e.frameCount%60 == 0 {
		slog.Debug("frame completed", "frame", e.frameCount)
	}
	return nil
}

// StepInstruction executes exactly one CPU instruction, regardless of pause
// state, for single-step debugging.
func (e *Emulator) StepInstruction() (int, error) {
	cycles, err := e.bus.StepInstruction()
	if err == nil {
		e.instructionCount++
	}
	return cycles, err
}

// Frame returns the current 160x144 grayscale framebuffer. The returned
// slice is owned by the PPU and is overwritten on the next scanline render.
func (e *Emulator) Frame() []byte {
	return e.bus.PPU.Frame()
}

// KeyDown/KeyUp forward a button edge to the joypad.
func (e *Emulator) KeyDown(key memory.Key) { e.bus.MMU.KeyDown(key) }
func (e *Emulator) KeyUp(key memory.Key)   { e.bus.MMU.KeyUp(key) }

// Pause/Resume/IsPaused/TogglePause control whether RunFrame advances.
func (e *Emulator) Pause()  { e.paused = true }
func (e *Emulator) Resume() { e.paused = false }
func (e *Emulator) TogglePause() {
	e.paused = !e.paused
}
func (e *Emulator) IsPaused() bool { return e.paused }

// FrameCount and InstructionCount report cumulative progress.
func (e *Emulator) FrameCount() uint64       { return e.frameCount }
func (e *Emulator) InstructionCount() uint64 { return e.instructionCount }

// SerialOutput exposes lines captured on the serial port, used by
// test/blargg to read a ROM's pass/fail banner.
func (e *Emulator) SerialOutput() []string { return e.bus.MMU.SerialOutput() }

// Bus exposes the wired CPU/MMU/PPU for tooling that needs raw access.
func (e *Emulator) Bus() *Bus { return e.bus }

// Save writes the cartridge's battery-backed RAM to its .sav file. A no-op
// if the cartridge has no battery.
func (e *Emulator) Save() error {
	if e.cart == nil || !e.cart.HasBattery {
		return nil
	}

	data := e.bus.MMU.SaveCartridgeData()
	if data == nil {
		return nil
	}

	if err := os.WriteFile(e.savePath, data, 0644); err != nil {
		return fmt.Errorf("dmgo: write save file: %w", err)
	}
	slog.Info("saved cartridge RAM", "path", e.savePath, "bytes", len(data))
	return nil
}
