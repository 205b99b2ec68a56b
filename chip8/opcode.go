/*
 * Copyright 2026 Joshua Jones <joshua.jones.software@gmail.com>
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      www.apache.org
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package chip8

// Opcode is a 16bit CHIP-8 instruction word.
type Opcode uint16

// First nibble of the opcode is the operation kind.
func (o Opcode) kind() uint8 {
	return uint8((o & 0xF000) >> 12)
}

// Second nibble of the opcode is the X register location.
func (o Opcode) x() uint8 {
	return uint8((o & 0x0F00) >> 8)
}

// Third nibble of the opcode is the Y register location.
func (o Opcode) y() uint8 {
	return uint8((o & 0x00F0) >> 4)
}

// Fourth nibble of the opcode is the N value.
func (o Opcode) n() uint8 {
	return uint8(o & 0x000F)
}

// Third and fourth nibbles of the opcode combine into the NN value.
func (o Opcode) nn() uint8 {
	return uint8(o & 0x00FF)
}

// Second, third, and fourth nibbles of the opcode combine into the NNN value.
func (o Opcode) nnn() uint16 {
	return uint16(o & 0x0FFF)
}

// Execute applies op to the machine. The program counter is expected to
// already point at the following instruction; branches overwrite it.
func (p *Processor) Execute(op Opcode, info *Info) error {
	switch op.kind() {
	case 0x0:
		switch uint16(op) {
		case 0x00E0:
			p.clearScreen(info)
		case 0x00EE:
			return p.returnFromSubroutine()
		default:
			return &DecodeWarning{Opcode: op}
		}
	case 0x1:
		p.jumpToLocation(op.nnn())
	case 0x2:
		return p.callSubroutine(op.nnn())
	case 0x3:
		p.stepIfXEqualsNN(op.x(), op.nn())
	case 0x4:
		p.stepIfXNotEqualsNN(op.x(), op.nn())
	case 0x5:
		if op.n() != 0x0 {
			return &DecodeWarning{Opcode: op}
		}
		p.stepIfXEqualsY(op.x(), op.y())
	case 0x6:
		p.setXToNN(op.x(), op.nn())
	case 0x7:
		p.addNNToX(op.x(), op.nn())
	case 0x8:
		switch op.n() {
		case 0x0:
			p.setXToY(op.x(), op.y())
		case 0x1:
			p.orXY(op.x(), op.y())
		case 0x2:
			p.andXY(op.x(), op.y())
		case 0x3:
			p.xorXY(op.x(), op.y())
		case 0x4:
			p.addXY(op.x(), op.y())
		case 0x5:
			p.subtractYFromX(op.x(), op.y())
		case 0x6:
			p.shiftRightX(op.x())
		case 0x7:
			p.subtractXFromY(op.x(), op.y())
		case 0xE:
			p.shiftLeftX(op.x())
		default:
			return &DecodeWarning{Opcode: op}
		}
	case 0x9:
		if op.n() != 0x0 {
			return &DecodeWarning{Opcode: op}
		}
		p.stepIfXNotEqualsY(op.x(), op.y())
	case 0xA:
		p.setIToNNN(op.nnn())
	case 0xB:
		p.jumpWithOffset(op.nnn())
	case 0xC:
		p.setXToRandom(op.x(), op.nn())
	case 0xD:
		return p.drawSprite(op.x(), op.y(), op.n(), info)
	case 0xE:
		switch op.nn() {
		case 0x9E:
			p.stepIfKeyDown(op.x())
		case 0xA1:
			p.stepIfKeyUp(op.x())
		default:
			return &DecodeWarning{Opcode: op}
		}
	case 0xF:
		switch op.nn() {
		case 0x07:
			p.setXToDelay(op.x())
		case 0x0A:
			p.pauseUntilKeyPressed(op.x(), info)
		case 0x15:
			p.setDelayToX(op.x())
		case 0x18:
			p.setSoundToX(op.x())
		case 0x1E:
			p.addXToI(op.x())
		case 0x29:
			p.setIToSymbol(op.x())
		case 0x33:
			return p.binaryCodedDecimal(op.x())
		case 0x55:
			return p.setMemoryToRegisters(op.x())
		case 0x65:
			return p.setRegistersToMemory(op.x())
		default:
			return &DecodeWarning{Opcode: op}
		}
	}
	return nil
}

// checkRange faults when length bytes starting at start do not fit in memory.
func checkRange(start uint16, length int) error {
	if length > 0 && int(start)+length > MemorySize {
		return newFault(IndexOutOfRange, int(start)+length-1)
	}
	return nil
}

func (p *Processor) clearScreen(info *Info) {
	clear(p.display[:])
	p.markRedraw(info)
}

func (p *Processor) callSubroutine(nnn uint16) error {
	if int(p.sp) >= len(p.stack) {
		return newFault(StackOverflow, int(p.sp))
	}
	p.stack[p.sp] = p.pc
	p.sp++
	p.pc = nnn
	return nil
}

func (p *Processor) returnFromSubroutine() error {
	if p.sp == 0 {
		return newFault(StackUnderflow, 0)
	}
	p.sp--
	p.pc = p.stack[p.sp]
	return nil
}

func (p *Processor) jumpToLocation(nnn uint16) {
	p.pc = nnn
}

func (p *Processor) jumpWithOffset(nnn uint16) {
	p.pc = nnn + uint16(p.v[0x0])
}

func (p *Processor) stepIfXEqualsNN(x, nn uint8) {
	if p.v[x] == nn {
		p.pc += 2
	}
}

func (p *Processor) stepIfXNotEqualsNN(x, nn uint8) {
	if p.v[x] != nn {
		p.pc += 2
	}
}

func (p *Processor) stepIfXEqualsY(x, y uint8) {
	if p.v[x] == p.v[y] {
		p.pc += 2
	}
}

func (p *Processor) stepIfXNotEqualsY(x, y uint8) {
	if p.v[x] != p.v[y] {
		p.pc += 2
	}
}

func (p *Processor) setXToNN(x, nn uint8) {
	p.v[x] = nn
}

func (p *Processor) addNNToX(x, nn uint8) {
	p.v[x] += nn
}

func (p *Processor) setXToY(x, y uint8) {
	p.v[x] = p.v[y]
}

func (p *Processor) orXY(x, y uint8) {
	p.v[x] |= p.v[y]
}

func (p *Processor) andXY(x, y uint8) {
	p.v[x] &= p.v[y]
}

func (p *Processor) xorXY(x, y uint8) {
	p.v[x] ^= p.v[y]
}

// The flag producing operations below compute the result and the flag from
// the source operands first and commit both afterwards, with the flag last,
// so that VF wins when X or Y is VF.

func (p *Processor) addXY(x, y uint8) {
	sum := uint16(p.v[x]) + uint16(p.v[y])
	var flag uint8
	if sum > 0xFF {
		flag = 1
	}
	p.v[x] = byte(sum)
	p.v[CarryFlag] = flag
}

func (p *Processor) subtractYFromX(x, y uint8) {
	var flag uint8
	if p.v[x] >= p.v[y] {
		flag = 1
	}
	p.v[x] -= p.v[y]
	p.v[CarryFlag] = flag
}

func (p *Processor) subtractXFromY(x, y uint8) {
	var flag uint8
	if p.v[y] >= p.v[x] {
		flag = 1
	}
	p.v[x] = p.v[y] - p.v[x]
	p.v[CarryFlag] = flag
}

func (p *Processor) shiftRightX(x uint8) {
	flag := p.v[x] & 0x1
	p.v[x] >>= 1
	p.v[CarryFlag] = flag
}

func (p *Processor) shiftLeftX(x uint8) {
	flag := (p.v[x] & 0x80) >> 7
	p.v[x] <<= 1
	p.v[CarryFlag] = flag
}

func (p *Processor) setIToNNN(nnn uint16) {
	p.i = nnn
}

func (p *Processor) setXToRandom(x, nn uint8) {
	randomByte := byte(p.rng.Uint32N(256))
	p.v[x] = randomByte & nn
}

func (p *Processor) stepIfKeyDown(x uint8) {
	if p.keys.pressed(p.v[x]) {
		p.pc += 2
	}
}

func (p *Processor) stepIfKeyUp(x uint8) {
	if !p.keys.pressed(p.v[x]) {
		p.pc += 2
	}
}

func (p *Processor) setXToDelay(x uint8) {
	p.v[x] = p.delay.Value()
}

// pauseUntilKeyPressed stores the lowest pressed key in VX. Without a
// pressed key the machine enters the waiting state and Step polls the
// latch again on every call, leaving the program counter alone.
func (p *Processor) pauseUntilKeyPressed(x uint8, info *Info) {
	if key, ok := p.keys.first(); ok {
		p.v[x] = key
		return
	}

	p.waiting = true
	p.waitX = x
	*info |= Waiting
}

func (p *Processor) resolveKeyWait(info *Info) {
	key, ok := p.keys.first()
	if !ok {
		*info |= Waiting
		return
	}
	p.v[p.waitX] = key
	p.waiting = false
}

func (p *Processor) setDelayToX(x uint8) {
	p.delay.Set(p.v[x])
}

func (p *Processor) setSoundToX(x uint8) {
	p.sound.Set(p.v[x])
}

func (p *Processor) addXToI(x uint8) {
	p.i += uint16(p.v[x])
}

func (p *Processor) setIToSymbol(x uint8) {
	p.i = FontStartAddress + uint16(p.v[x])*glyphHeight
}

// binaryCodedDecimal stores the hundreds, tens and ones digits of VX at I,
// I+1 and I+2.
func (p *Processor) binaryCodedDecimal(x uint8) error {
	if err := checkRange(p.i, 3); err != nil {
		return err
	}

	// Double Dabble: shift the value into the BCD register one bit at a
	// time, adding 3 to any nibble that is 5 or more before each shift so
	// that it carries into the next decimal place.
	var bcd uint32
	val := uint32(p.v[x])

	for i := range 8 {
		if (bcd & 0x00F) >= 0x005 {
			bcd += 0x003
		}
		if (bcd & 0x0F0) >= 0x050 {
			bcd += 0x030
		}
		if (bcd & 0xF00) >= 0x500 {
			bcd += 0x300
		}
		bcd = (bcd << 1) | ((val >> (7 - i)) & 1)
	}

	p.memory[p.i] = byte((bcd >> 8) & 0xF)   // Hundreds
	p.memory[p.i+1] = byte((bcd >> 4) & 0xF) // Tens
	p.memory[p.i+2] = byte(bcd & 0xF)        // Ones
	return nil
}

// setMemoryToRegisters dumps V0..VX to memory at I, leaving I unchanged.
func (p *Processor) setMemoryToRegisters(x uint8) error {
	if err := checkRange(p.i, int(x)+1); err != nil {
		return err
	}
	copy(p.memory[p.i:], p.v[:x+1])
	return nil
}

// setRegistersToMemory fills V0..VX from memory at I, leaving I unchanged.
func (p *Processor) setRegistersToMemory(x uint8) error {
	if err := checkRange(p.i, int(x)+1); err != nil {
		return err
	}
	copy(p.v[:x+1], p.memory[p.i:])
	return nil
}
