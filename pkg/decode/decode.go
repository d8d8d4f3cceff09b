// Package decode turns a raw 16-bit instruction word into a normalized
// decoded form. Decoding is pure: it never touches machine state and never
// performs a memory access, so that an out-of-range memory-indirect operand
// is attributable to the FETCH_OPERANDS phase rather than to decode.
package decode

import (
	"fmt"

	"github.com/CGQAQ/500-cpu-simulator/pkg/machine"
)

// RightKind names which of the three right-operand forms an instruction
// uses.
type RightKind uint8

const (
	// RightImmediate carries a 6-bit value, sign-extended to 16 bits by
	// the caller during FETCH_OPERANDS.
	RightImmediate RightKind = iota
	// RightRegister names a register whose current value is the operand.
	RightRegister
	// RightMemory names a register whose value is a data-memory address
	// the operand must be fetched from during FETCH_OPERANDS.
	RightMemory
	// RightNone is used by instructions with no right operand (unconditional
	// JR has a left operand only).
	RightNone
)

// Instruction is the decoded form of a single 16-bit code word.
type Instruction struct {
	Raw      uint16
	Category machine.Category
	Type     uint8

	// LeftReg is the register index named by the left-operand field. It is
	// always valid (0..15) by construction of the 4-bit field.
	LeftReg uint8

	RightKind RightKind

	// RightImm is the raw (not yet sign-extended) 6-bit field for
	// RightImmediate, or the branch displacement field for BRANCH.
	RightImm uint8

	// RightReg is the register index for RightRegister and RightMemory.
	RightReg uint8
}

// String renders a human-readable mnemonic for tracing. It has no bearing
// on execution.
func (in Instruction) String() string {
	switch in.Category {
	case machine.CategoryBRANCH:
		name := branchName(in.Type)
		if in.Type == machine.BranchJR {
			return fmt.Sprintf("%s R%d", name, in.LeftReg)
		}
		return fmt.Sprintf("%s R%d,%d", name, in.LeftReg, signExtend6(in.RightImm))
	case machine.CategorySHIFT:
		if in.Type == machine.ShiftLeft {
			return fmt.Sprintf("SRL R%d", in.LeftReg)
		}
		return fmt.Sprintf("SRR R%d", in.LeftReg)
	case machine.CategoryMOVE:
		switch in.Type {
		case machine.MoveImmToReg:
			return fmt.Sprintf("MOVE R%d,%d", in.LeftReg, signExtend6(in.RightImm))
		case machine.MoveMemToReg:
			return fmt.Sprintf("MOVE R%d,[R%d]", in.LeftReg, in.RightReg)
		case machine.MoveImmToMem:
			return fmt.Sprintf("MOVE [R%d],%d", in.LeftReg, signExtend6(in.RightImm))
		case machine.MoveRegToMem:
			return fmt.Sprintf("MOVE [R%d],R%d", in.LeftReg, in.RightReg)
		default:
			return fmt.Sprintf("MOVE ?%d", in.Type)
		}
	default:
		if in.RightKind == RightImmediate {
			return fmt.Sprintf("%s R%d,%d", in.Category, in.LeftReg, signExtend6(in.RightImm))
		}
		return fmt.Sprintf("%s R%d,R%d", in.Category, in.LeftReg, in.RightReg)
	}
}

func branchName(t uint8) string {
	switch t {
	case machine.BranchJR:
		return "JR"
	case machine.BranchBEQ:
		return "BEQ"
	case machine.BranchBNE:
		return "BNE"
	case machine.BranchBLT:
		return "BLT"
	case machine.BranchBGT:
		return "BGT"
	case machine.BranchBLE:
		return "BLE"
	case machine.BranchBGE:
		return "BGE"
	default:
		return "B?"
	}
}

// ErrIllegalOpcode is returned by Decode when the category/type combination
// names a reserved encoding.
type ErrIllegalOpcode struct {
	Raw uint16
}

func (e ErrIllegalOpcode) Error() string {
	return fmt.Sprintf("illegal opcode %04x", e.Raw)
}

// Decode splits a 16-bit instruction word into its fields and classifies
// the right operand per category/type. See SPEC_FULL.md §4.1-4.2 for the
// bit layout.
func Decode(word uint16) (Instruction, error) {
	l := uint8(word >> 8)
	r := uint8(word)

	category := machine.Category((l >> 5) & 0b111)
	opType := (l >> 2) & 0b111
	leftReg := ((l & 0b11) << 2) | ((r >> 6) & 0b11)
	rightField := r & 0b111111
	rightRegField := (rightField >> 2) & 0b1111

	in := Instruction{
		Raw:      word,
		Category: category,
		Type:     opType,
		LeftReg:  leftReg,
	}

	switch category {
	case machine.CategoryADD, machine.CategorySUB, machine.CategoryAND,
		machine.CategoryOR, machine.CategoryXOR:
		switch opType {
		case machine.ArithImmediate:
			in.RightKind = RightImmediate
			in.RightImm = rightField
		case machine.ArithRegister:
			in.RightKind = RightRegister
			in.RightReg = rightRegField
		default:
			return Instruction{}, ErrIllegalOpcode{Raw: word}
		}

	case machine.CategoryMOVE:
		switch opType {
		case machine.MoveImmToReg, machine.MoveImmToMem:
			in.RightKind = RightImmediate
			in.RightImm = rightField
		case machine.MoveMemToReg:
			in.RightKind = RightMemory
			in.RightReg = rightRegField
		case machine.MoveRegToMem:
			in.RightKind = RightRegister
			in.RightReg = rightRegField
		default:
			return Instruction{}, ErrIllegalOpcode{Raw: word}
		}

	case machine.CategorySHIFT:
		switch opType {
		case machine.ShiftRight, machine.ShiftLeft:
			in.RightKind = RightNone
		default:
			return Instruction{}, ErrIllegalOpcode{Raw: word}
		}

	case machine.CategoryBRANCH:
		switch opType {
		case machine.BranchJR:
			in.RightKind = RightNone
		case machine.BranchBEQ, machine.BranchBNE, machine.BranchBLT,
			machine.BranchBGT, machine.BranchBLE, machine.BranchBGE:
			in.RightKind = RightImmediate
			in.RightImm = rightField
		default:
			return Instruction{}, ErrIllegalOpcode{Raw: word}
		}

	default:
		return Instruction{}, ErrIllegalOpcode{Raw: word}
	}

	return in, nil
}

// signExtend6 sign-extends a 6-bit field to int16, for display purposes
// only. The executor performs the same extension on the immediate field
// during FETCH_OPERANDS; see SignExtend6.
func signExtend6(v uint8) int16 {
	return int16(SignExtend6(v))
}

// SignExtend6 sign-extends the low 6 bits of v to a full 16-bit value.
// Per SPEC_FULL.md §9, only the 6-bit immediate form is ever sign-extended
// this way — register and memory-fetched operands are carried as full
// 16-bit values untouched.
func SignExtend6(v uint8) uint16 {
	x := uint16(v & 0b111111)
	if x&0b100000 != 0 {
		x |= 0xFFC0
	}
	return x
}
