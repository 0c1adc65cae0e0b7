package cpu

import "dmgo/bit"

// Opcode is a single dispatch-table entry: it executes one instruction
// against c and returns the number of cycles it consumed.
type Opcode func(c *CPU) int

var opcodeMap [256]Opcode
var opcodeCBMap [256]Opcode

// getReg8/getReg16 follow the standard DMG encoding baked into both
// tables below: 0=B,1=C,2=D,3=E,4=H,5=L,6=(HL),7=A for 8-bit operands, and
// 0=BC,1=DE,2=HL,3=SP for the 16-bit pair fields used by LD/INC/DEC/ADD.

func init() {
	buildBaseTable()
	buildCBTable()
}

// regCost returns hlCost when index addresses (HL) (register encoding 6),
// baseCost otherwise — the cycle-cost bump most instruction families take
// when their operand is the indirect (HL) form instead of a plain register.
func regCost(index uint8, baseCost, hlCost int) int {
	if index == 6 {
		return hlCost
	}
	return baseCost
}

func buildBaseTable() {
	m := &opcodeMap

	m[0x00] = func(c *CPU) int { return 4 } // NOP

	// LD rr,d16 / INC rr / DEC rr / ADD HL,rr over the four register pairs,
	// laid out at 0x01/0x11/0x21/0x31 (+0x10 per pair) and friends.
	pairOpcodeBase := []uint8{0x00, 0x10, 0x20, 0x30}
	for pair, base := range pairOpcodeBase {
		pair := uint8(pair)
		m[base+0x01] = func(c *CPU) int { c.setReg16(pair, c.fetch16()); return 12 }
		m[base+0x03] = func(c *CPU) int { c.setReg16(pair, c.getReg16(pair)+1); return 8 }
		m[base+0x0B] = func(c *CPU) int { c.setReg16(pair, c.getReg16(pair)-1); return 8 }
		if pair != 3 { // ADD HL,SP uses pair 3 too but is regular; HL,HL uses pair 2
			m[base+0x09] = func(c *CPU) int { c.add16HL(c.getReg16(pair)); return 8 }
		} else {
			m[base+0x09] = func(c *CPU) int { c.add16HL(c.sp); return 8 }
		}
	}

	m[0x02] = func(c *CPU) int { c.write8(c.bc.Get(), c.af.High()); return 8 }
	m[0x12] = func(c *CPU) int { c.write8(c.de.Get(), c.af.High()); return 8 }
	m[0x22] = func(c *CPU) int { c.write8(c.hl.Get(), c.af.High()); c.hl.Incr(); return 8 }
	m[0x32] = func(c *CPU) int { c.write8(c.hl.Get(), c.af.High()); c.hl.Decr(); return 8 }

	m[0x0A] = func(c *CPU) int { c.af.SetHigh(c.read8(c.bc.Get())); return 8 }
	m[0x1A] = func(c *CPU) int { c.af.SetHigh(c.read8(c.de.Get())); return 8 }
	m[0x2A] = func(c *CPU) int { c.af.SetHigh(c.read8(c.hl.Get())); c.hl.Incr(); return 8 }
	m[0x3A] = func(c *CPU) int { c.af.SetHigh(c.read8(c.hl.Get())); c.hl.Decr(); return 8 }

	// INC/DEC r8 and LD r,d8 over B,C,D,E,H,L,(HL),A, laid out every 8
	// opcodes starting at 0x04/0x05/0x06.
	incDecBase := []uint8{0x00, 0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38}
	for index, base := range incDecBase {
		index := uint8(index)
		m[base+0x04] = func(c *CPU) int { c.inc8(index); return regCost(index, 4, 12) }
		m[base+0x05] = func(c *CPU) int { c.dec8(index); return regCost(index, 4, 12) }
		m[base+0x06] = func(c *CPU) int { v := c.fetch8(); c.setReg8(index, v); return regCost(index, 8, 12) }
	}

	m[0x07] = func(c *CPU) int { c.af.SetHigh(c.rlc(c.af.High())); c.setZ(false); return 4 }
	m[0x0F] = func(c *CPU) int { c.af.SetHigh(c.rrc(c.af.High())); c.setZ(false); return 4 }
	m[0x17] = func(c *CPU) int { c.af.SetHigh(c.rl(c.af.High())); c.setZ(false); return 4 }
	m[0x1F] = func(c *CPU) int { c.af.SetHigh(c.rr(c.af.High())); c.setZ(false); return 4 }

	m[0x08] = func(c *CPU) int { addr16 := c.fetch16(); c.write16(addr16, c.sp); return 20 }

	m[0x10] = func(c *CPU) int { c.fetch8(); return 4 } // STOP, operand byte ignored

	m[0x18] = func(c *CPU) int { offset := int8(c.fetch8()); c.pc = uint16(int32(c.pc) + int32(offset)); return 12 }
	jrCond := []uint8{0x20, 0x28, 0x30, 0x38}
	for code, base := range jrCond {
		code := uint8(code)
		base := base
		m[uint8(base)] = func(c *CPU) int {
			offset := int8(c.fetch8())
			if c.cond(code) {
				c.pc = uint16(int32(c.pc) + int32(offset))
				return 12
			}
			return 8
		}
	}

	m[0x27] = func(c *CPU) int { c.daa(); return 4 }
	m[0x2F] = func(c *CPU) int { c.af.SetHigh(^c.af.High()); c.setN(true); c.setH(true); return 4 }
	m[0x37] = func(c *CPU) int { c.setN(false); c.setH(false); c.setC(true); return 4 }
	m[0x3F] = func(c *CPU) int { c.setN(false); c.setH(false); c.setC(!c.C()); return 4 }

	// LD r,r' block, 0x40-0x7F, with 0x76 overridden as HALT below.
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			opcode := 0x40 + dst*8 + src
			dst, src := dst, src
			m[opcode] = func(c *CPU) int {
				c.setReg8(dst, c.getReg8(src))
				return regCost(dst, regCost(src, 4, 8), 8)
			}
		}
	}
	m[0x76] = func(c *CPU) int { c.Halt(); return 4 }

	// 8-bit ALU block, 0x80-0xBF: ADD,ADC,SUB,SBC,AND,XOR,OR,CP over the
	// eight register operands.
	aluOps := []func(c *CPU, v uint8){
		func(c *CPU, v uint8) { c.add8(v) },
		func(c *CPU, v uint8) { c.adc8(v) },
		func(c *CPU, v uint8) { c.subA(v) },
		func(c *CPU, v uint8) { c.sbc8(v) },
		func(c *CPU, v uint8) { c.and8(v) },
		func(c *CPU, v uint8) { c.xor8(v) },
		func(c *CPU, v uint8) { c.or8(v) },
		func(c *CPU, v uint8) { c.cp8(v) },
	}
	for row, op := range aluOps {
		row := uint8(row)
		op := op
		for src := uint8(0); src < 8; src++ {
			opcode := 0x80 + row*8 + src
			src := src
			m[opcode] = func(c *CPU) int {
				op(c, c.getReg8(src))
				return regCost(src, 4, 8)
			}
		}
	}

	ret := func(c *CPU) int { c.pc = c.pop16(); return 16 }
	m[0xC9] = ret
	m[0xD9] = func(c *CPU) int { c.pc = c.pop16(); c.ime = true; return 16 }
	retCond := []uint8{0xC0, 0xC8, 0xD0, 0xD8}
	for code, base := range retCond {
		code := uint8(code)
		m[base] = func(c *CPU) int {
			if c.cond(code) {
				c.pc = c.pop16()
				return 20
			}
			return 8
		}
	}

	popBase := []uint8{0xC1, 0xD1, 0xE1, 0xF1}
	pushBase := []uint8{0xC5, 0xD5, 0xE5, 0xF5}
	for i, opcode := range popBase {
		i := i
		opcode := opcode
		m[opcode] = func(c *CPU) int {
			v := c.pop16()
			switch i {
			case 0:
				c.bc.Set(v)
			case 1:
				c.de.Set(v)
			case 2:
				c.hl.Set(v)
			default:
				c.af.Set(v & 0xFFF0) // low nibble of F always reads zero
			}
			return 12
		}
	}
	for i, opcode := range pushBase {
		i := i
		opcode := opcode
		m[opcode] = func(c *CPU) int {
			switch i {
			case 0:
				c.push16(c.bc.Get())
			case 1:
				c.push16(c.de.Get())
			case 2:
				c.push16(c.hl.Get())
			default:
				c.push16(c.af.Get())
			}
			return 16
		}
	}

	m[0xC3] = func(c *CPU) int { c.pc = c.fetch16(); return 16 }
	m[0xE9] = func(c *CPU) int { c.pc = c.hl.Get(); return 4 }
	jpCond := []uint8{0xC2, 0xCA, 0xD2, 0xDA}
	for code, base := range jpCond {
		code := uint8(code)
		m[base] = func(c *CPU) int {
			target := c.fetch16()
			if c.cond(code) {
				c.pc = target
				return 16
			}
			return 12
		}
	}

	m[0xCD] = func(c *CPU) int { target := c.fetch16(); c.push16(c.pc); c.pc = target; return 24 }
	callCond := []uint8{0xC4, 0xCC, 0xD4, 0xDC}
	for code, base := range callCond {
		code := uint8(code)
		m[base] = func(c *CPU) int {
			target := c.fetch16()
			if c.cond(code) {
				c.push16(c.pc)
				c.pc = target
				return 24
			}
			return 12
		}
	}

	for i := uint8(0); i < 8; i++ {
		opcode := 0xC7 + i*8
		vector := uint16(i) * 8
		m[opcode] = func(c *CPU) int { c.push16(c.pc); c.pc = vector; return 16 }
	}

	m[0xC6] = func(c *CPU) int { c.add8(c.fetch8()); return 8 }
	m[0xCE] = func(c *CPU) int { c.adc8(c.fetch8()); return 8 }
	m[0xD6] = func(c *CPU) int { c.subA(c.fetch8()); return 8 }
	m[0xDE] = func(c *CPU) int { c.sbc8(c.fetch8()); return 8 }
	m[0xE6] = func(c *CPU) int { c.and8(c.fetch8()); return 8 }
	m[0xEE] = func(c *CPU) int { c.xor8(c.fetch8()); return 8 }
	m[0xF6] = func(c *CPU) int { c.or8(c.fetch8()); return 8 }
	m[0xFE] = func(c *CPU) int { c.cp8(c.fetch8()); return 8 }

	m[0xE0] = func(c *CPU) int { offset := c.fetch8(); c.write8(0xFF00+uint16(offset), c.af.High()); return 12 }
	m[0xF0] = func(c *CPU) int { offset := c.fetch8(); c.af.SetHigh(c.read8(0xFF00 + uint16(offset))); return 12 }
	m[0xE2] = func(c *CPU) int { c.write8(0xFF00+uint16(c.bc.Low()), c.af.High()); return 8 }
	m[0xF2] = func(c *CPU) int { c.af.SetHigh(c.read8(0xFF00 + uint16(c.bc.Low()))); return 8 }

	m[0xEA] = func(c *CPU) int { target := c.fetch16(); c.write8(target, c.af.High()); return 16 }
	m[0xFA] = func(c *CPU) int { target := c.fetch16(); c.af.SetHigh(c.read8(target)); return 16 }

	m[0xE8] = func(c *CPU) int { c.sp = c.addSPSigned(c.fetch8()); return 16 }
	m[0xF8] = func(c *CPU) int { c.hl.Set(c.addSPSigned(c.fetch8())); return 12 }
	m[0xF9] = func(c *CPU) int { c.sp = c.hl.Get(); return 8 }

	m[0xF3] = func(c *CPU) int { c.DisableInterrupts(); return 4 }
	m[0xFB] = func(c *CPU) int { c.EnableInterrupts(); return 4 }

	m[0xCB] = func(c *CPU) int {
		sub := c.fetch8()
		return opcodeCBMap[sub](c)
	}
}

func buildCBTable() {
	m := &opcodeCBMap

	shiftOps := []func(c *CPU, v uint8) uint8{
		func(c *CPU, v uint8) uint8 { return c.rlc(v) },
		func(c *CPU, v uint8) uint8 { return c.rrc(v) },
		func(c *CPU, v uint8) uint8 { return c.rl(v) },
		func(c *CPU, v uint8) uint8 { return c.rr(v) },
		func(c *CPU, v uint8) uint8 { return c.sla(v) },
		func(c *CPU, v uint8) uint8 { return c.sra(v) },
		func(c *CPU, v uint8) uint8 { return c.swap(v) },
		func(c *CPU, v uint8) uint8 { return c.srl(v) },
	}
	for row, op := range shiftOps {
		row := uint8(row)
		op := op
		for reg := uint8(0); reg < 8; reg++ {
			opcode := row*8 + reg
			reg := reg
			m[opcode] = func(c *CPU) int {
				result := op(c, c.getReg8(reg))
				c.setZ(result == 0)
				c.setReg8(reg, result)
				return regCost(reg, 8, 16)
			}
		}
	}

	for bitIndex := uint8(0); bitIndex < 8; bitIndex++ {
		for reg := uint8(0); reg < 8; reg++ {
			opcode := 0x40 + bitIndex*8 + reg
			bitIndex, reg := bitIndex, reg
			m[opcode] = func(c *CPU) int {
				c.bitTest(bitIndex, c.getReg8(reg))
				return regCost(reg, 8, 12)
			}
		}
	}

	for bitIndex := uint8(0); bitIndex < 8; bitIndex++ {
		for reg := uint8(0); reg < 8; reg++ {
			opcode := 0x80 + bitIndex*8 + reg
			bitIndex, reg := bitIndex, reg
			m[opcode] = func(c *CPU) int {
				c.setReg8(reg, bit.Reset(bitIndex, c.getReg8(reg)))
				return regCost(reg, 8, 16)
			}
		}
	}

	for bitIndex := uint8(0); bitIndex < 8; bitIndex++ {
		for reg := uint8(0); reg < 8; reg++ {
			opcode := 0xC0 + bitIndex*8 + reg
			bitIndex, reg := bitIndex, reg
			m[opcode] = func(c *CPU) int {
				c.setReg8(reg, bit.Set(bitIndex, c.getReg8(reg)))
				return regCost(reg, 8, 16)
			}
		}
	}
}
