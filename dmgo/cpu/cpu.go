// Package cpu implements the DMG CPU: fetch-decode-execute, the flag
// register, and interrupt dispatch. It exposes a single entry point,
// Step, matching the teacher's one-opcode-at-a-time core loop.
package cpu

import (
	"fmt"

	"dmgo/addr"
	"dmgo/bit"
	"dmgo/memory"
)

// FatalDecodeError is returned when Step encounters one of the eleven
// permanently-undefined DMG opcodes.
type FatalDecodeError struct {
	Opcode uint8
	PC     uint16
}

func (e *FatalDecodeError) Error() string {
	return fmt.Sprintf("undefined opcode %#02x at pc=%#04x", e.Opcode, e.PC)
}

// CPU holds the full register file and drives the MMU it's constructed
// with.
type CPU struct {
	af, bc, de, hl Register16
	sp, pc         uint16

	ime       bool
	pendingEI int // 0 = no pending EI, else countdown of steps until IME is set
	halt      bool

	mmu *memory.MMU
}

func New(mmu *memory.MMU) *CPU {
	c := &CPU{mmu: mmu}
	c.af.Set(0x01B0)
	c.bc.Set(0x0013)
	c.de.Set(0x00D8)
	c.hl.Set(0x014D)
	c.sp = 0xFFFE
	c.pc = 0x0100
	return c
}

func (c *CPU) read8(address uint16) uint8       { return c.mmu.Read(address) }
func (c *CPU) write8(address uint16, v uint8)    { c.mmu.Write(address, v) }

func (c *CPU) read16(address uint16) uint16 {
	return bit.Combine(c.mmu.Read(address+1), c.mmu.Read(address))
}

func (c *CPU) write16(address uint16, v uint16) {
	c.mmu.Write(address, bit.Low(v))
	c.mmu.Write(address+1, bit.High(v))
}

func (c *CPU) fetch8() uint8 {
	v := c.read8(c.pc)
	c.pc++
	return v
}

func (c *CPU) fetch16() uint16 {
	v := c.read16(c.pc)
	c.pc += 2
	return v
}

func (c *CPU) push16(v uint16) {
	c.sp -= 2
	c.write16(c.sp, v)
}

func (c *CPU) pop16() uint16 {
	v := c.read16(c.sp)
	c.sp += 2
	return v
}

// Flags. F's low nibble always reads as zero.

func (c *CPU) flag(index uint8) bool    { return bit.IsSet(index, c.af.Low()) }
func (c *CPU) setFlag(index uint8, on bool) {
	c.af.SetLow(bit.SetTo(index, c.af.Low()&0xF0, on))
}

func (c *CPU) Z() bool { return c.flag(flagZ) }
func (c *CPU) N() bool { return c.flag(flagN) }
func (c *CPU) H() bool { return c.flag(flagH) }
func (c *CPU) C() bool { return c.flag(flagC) }

func (c *CPU) setZ(on bool) { c.setFlag(flagZ, on) }
func (c *CPU) setN(on bool) { c.setFlag(flagN, on) }
func (c *CPU) setH(on bool) { c.setFlag(flagH, on) }
func (c *CPU) setC(on bool) { c.setFlag(flagC, on) }

// getReg8/setReg8 address the standard 3-bit register encoding used
// throughout the base and CB opcode tables: 0=B,1=C,2=D,3=E,4=H,5=L,
// 6=(HL),7=A.
func (c *CPU) getReg8(index uint8) uint8 {
	switch index {
	case 0:
		return c.bc.High()
	case 1:
		return c.bc.Low()
	case 2:
		return c.de.High()
	case 3:
		return c.de.Low()
	case 4:
		return c.hl.High()
	case 5:
		return c.hl.Low()
	case 6:
		return c.read8(c.hl.Get())
	default:
		return c.af.High()
	}
}

func (c *CPU) setReg8(index uint8, value uint8) {
	switch index {
	case 0:
		c.bc.SetHigh(value)
	case 1:
		c.bc.SetLow(value)
	case 2:
		c.de.SetHigh(value)
	case 3:
		c.de.SetLow(value)
	case 4:
		c.hl.SetHigh(value)
	case 5:
		c.hl.SetLow(value)
	case 6:
		c.write8(c.hl.Get(), value)
	default:
		c.af.SetHigh(value)
	}
}

// reg16 addresses the 2-bit register-pair encoding used by 16-bit loads and
// ALU ops: 0=BC,1=DE,2=HL,3=SP.
func (c *CPU) getReg16(index uint8) uint16 {
	switch index {
	case 0:
		return c.bc.Get()
	case 1:
		return c.de.Get()
	case 2:
		return c.hl.Get()
	default:
		return c.sp
	}
}

func (c *CPU) setReg16(index uint8, value uint16) {
	switch index {
	case 0:
		c.bc.Set(value)
	case 1:
		c.de.Set(value)
	case 2:
		c.hl.Set(value)
	default:
		c.sp = value
	}
}

// Step executes one instruction (or, while halted with no pending
// interrupt, advances 4 cycles), ticks the rest of the system with the
// resulting cycle count, and services one pending interrupt if IME is set.
// It returns the number of cycles consumed.
func (c *CPU) Step() (int, error) {
	cycles, err := c.execute()
	if err != nil {
		return cycles, err
	}

	c.mmu.Update(cycles)

	if c.pendingEI > 0 {
		c.pendingEI--
		if c.pendingEI == 0 {
			c.ime = true
		}
	}

	serviceCycles := c.serviceInterrupt()
	if serviceCycles > 0 {
		c.mmu.Update(serviceCycles)
	}
	return cycles + serviceCycles, nil
}

func (c *CPU) execute() (int, error) {
	if c.halt {
		if c.mmu.PendingInterrupts() == 0 {
			return 4, nil
		}
		c.halt = false
	}

	opcode := c.fetch8()
	if isUndefinedOpcode(opcode) {
		return 4, &FatalDecodeError{Opcode: opcode, PC: c.pc - 1}
	}

	op := opcodeMap[opcode]
	return op(c), nil
}

func isUndefinedOpcode(opcode uint8) bool {
	switch opcode {
	case 0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD:
		return true
	default:
		return false
	}
}

// serviceInterrupt dispatches the highest-priority pending+enabled
// interrupt if IME is set, pushing PC and jumping to the vector. Costs 20
// cycles when it fires, 0 otherwise.
func (c *CPU) serviceInterrupt() int {
	pending := c.mmu.PendingInterrupts()
	if pending != 0 {
		c.halt = false
	}

	if !c.ime || pending == 0 {
		return 0
	}

	for _, interrupt := range addr.Ordered {
		if bit.IsSet(interrupt.Bit(), pending) {
			c.ime = false
			c.mmu.ResetInterrupt(interrupt)
			c.push16(c.pc)
			c.pc = interrupt.Vector()
			return 20
		}
	}

	return 0
}

// EnableInterrupts implements EI's delayed-effect semantics: IME becomes
// true only after the *next* instruction completes, never immediately.
func (c *CPU) EnableInterrupts() {
	c.pendingEI = 2
}

func (c *CPU) DisableInterrupts() {
	c.ime = false
	c.pendingEI = 0
}

func (c *CPU) Halt() {
	c.halt = true
}
