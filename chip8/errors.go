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

import (
	"errors"
	"fmt"
)

var (
	ErrProgramTooLarge = errors.New("program does not fit in memory")

	ErrStackOverflow   = errors.New("stack overflow")
	ErrStackUnderflow  = errors.New("stack underflow")
	ErrIndexOutOfRange = errors.New("memory index out of range")
)

// LoadError is returned when a program image cannot be read or does not
// fit between the program start address and the end of memory.
type LoadError struct {
	Path string // empty when loading from a byte slice
	Size int
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("loading program (%d bytes): %v", e.Size, e.Err)
	}
	return fmt.Sprintf("loading program %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// DecodeWarning reports an opcode that is not part of the instruction set.
// The instruction is skipped and execution continues.
type DecodeWarning struct {
	Address uint16
	Opcode  Opcode
}

func (w *DecodeWarning) Error() string {
	return fmt.Sprintf("unknown opcode 0x%04X at 0x%03X", uint16(w.Opcode), w.Address)
}

type FaultKind uint8

const (
	StackOverflow FaultKind = iota + 1
	StackUnderflow
	IndexOutOfRange
)

func (k FaultKind) String() string {
	switch k {
	case StackOverflow:
		return "stack overflow"
	case StackUnderflow:
		return "stack underflow"
	case IndexOutOfRange:
		return "index out of range"
	default:
		return fmt.Sprintf("fault(%d)", uint8(k))
	}
}

func (k FaultKind) sentinel() error {
	switch k {
	case StackOverflow:
		return ErrStackOverflow
	case StackUnderflow:
		return ErrStackUnderflow
	case IndexOutOfRange:
		return ErrIndexOutOfRange
	default:
		return nil
	}
}

// Fault is an execution error after which the machine state can no longer
// be trusted. Target is the stack depth for stack faults and the first
// address outside memory for index faults.
type Fault struct {
	Kind    FaultKind
	Address uint16
	Opcode  Opcode
	Target  int
}

func newFault(kind FaultKind, target int) *Fault {
	return &Fault{Kind: kind, Target: target}
}

func (f *Fault) Error() string {
	switch f.Kind {
	case IndexOutOfRange:
		return fmt.Sprintf("%s: address 0x%X accessed at 0x%03X (opcode 0x%04X)", f.Kind, f.Target, f.Address, uint16(f.Opcode))
	default:
		return fmt.Sprintf("%s: depth %d at 0x%03X (opcode 0x%04X)", f.Kind, f.Target, f.Address, uint16(f.Opcode))
	}
}

// Is matches the sentinel error of the fault kind.
func (f *Fault) Is(target error) bool {
	return target != nil && target == f.Kind.sentinel()
}
