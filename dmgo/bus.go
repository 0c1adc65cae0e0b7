package dmgo

import (
	"dmgo/addr"
	"dmgo/cpu"
	"dmgo/memory"
	"dmgo/video"
)

// Bus centralizes access to the wired-together CPU, MMU, and PPU, for
// tooling (tests, a future disassembler) that needs raw address-space
// access without going through Emulator's frame-stepping API.
type Bus struct {
	CPU *cpu.CPU
	MMU *memory.MMU
	PPU *video.PPU
}

func newBus(mmu *memory.MMU) *Bus {
	ppu := video.New()
	mmu.AttachPPU(ppu)
	return &Bus{
		CPU: cpu.New(mmu),
		MMU: mmu,
		PPU: ppu,
	}
}

func (b *Bus) Read(address uint16) byte          { return b.MMU.Read(address) }
func (b *Bus) Write(address uint16, value byte)  { b.MMU.Write(address, value) }
func (b *Bus) RequestInterrupt(i addr.Interrupt) { b.MMU.RequestInterrupt(i) }

// StepInstruction executes one CPU instruction (ticking the MMU/PPU/timer
// for its cycle cost) and returns the number of cycles consumed.
func (b *Bus) StepInstruction() (int, error) {
	return b.CPU.Step()
}
