// Package exec drives the six-phase control unit described in
// SPEC_FULL.md §4.4 and applies the arithmetic/logic/branch/memory effects
// of §4.3. It is the only package that mutates a *machine.Machine during
// execution.
package exec

import (
	"github.com/CGQAQ/500-cpu-simulator/pkg/decode"
	"github.com/CGQAQ/500-cpu-simulator/pkg/machine"
)

// HaltReason names one of the three terminal conditions. The zero value,
// HaltNone, is returned only when Run stops cooperatively via StopFunc
// rather than hitting one of the three real halts.
type HaltReason uint8

const (
	HaltNone HaltReason = iota
	HaltIllegalOpcode
	HaltInfiniteLoop
	HaltIllegalAddress
)

func (h HaltReason) String() string {
	switch h {
	case HaltIllegalOpcode:
		return "ILLEGAL_OPCODE"
	case HaltInfiniteLoop:
		return "INFINITE_LOOP"
	case HaltIllegalAddress:
		return "ILLEGAL_ADDRESS"
	default:
		return "NONE"
	}
}

// Result is what the control unit reports once it halts.
type Result struct {
	Reason HaltReason

	// PC is the program counter at the instant of the halt: the address of
	// the instruction that could not be completed.
	PC uint16

	// Instruction is the raw 16-bit word that was being processed when the
	// halt was raised.
	Instruction uint16

	// Steps is the number of instructions that completed EXECUTE_INSTR
	// before the halt.
	Steps int64
}

// cycle carries the state the control unit stages between phases of a
// single instruction. It is rebuilt from scratch every instruction.
type cycle struct {
	raw    uint16
	instr  decode.Instruction
	jumped bool

	// rightValue holds the fully-resolved, sign-extended-if-applicable
	// 16-bit right operand once FETCH_OPERANDS has run.
	rightValue uint16
}

// StopFunc, if non-nil and returning true, makes Run halt cooperatively at
// the next instruction boundary without reporting any of the three halt
// reasons. This backs the CLI's SIGINT handling (SPEC_FULL.md §5.1) and is
// only checked between instructions, never inside one, so a
// partially-executed instruction is never left half-applied.
type StopFunc func() bool

// Trace, if non-nil, is invoked once per instruction after DECODE_INSTR
// succeeds, with the instruction's address and its decoded form. It has no
// effect on execution; see pkg/trace.
type Trace func(pc uint16, in decode.Instruction)

// Run executes mc starting from its current PC until one of the three halt
// reasons is raised or stop reports true. A nil stop runs unconditionally
// until a halt.
func Run(mc *machine.Machine, stop StopFunc, trace Trace) Result {
	var steps int64

	for {
		if stop != nil && stop() {
			return Result{Reason: HaltNone, PC: mc.PC, Steps: steps}
		}

		pc := mc.PC
		c := cycle{raw: fetchInstr(mc)}

		in, err := decode.Decode(c.raw)
		if err != nil {
			return Result{Reason: HaltIllegalOpcode, PC: pc, Instruction: c.raw, Steps: steps}
		}
		c.instr = in

		if trace != nil {
			trace(pc, c.instr)
		}

		if mc.VisitPC(pc) > machine.InfiniteLoopThreshold {
			return Result{Reason: HaltInfiniteLoop, PC: pc, Instruction: c.raw, Steps: steps}
		}

		if halted := fetchOperands(mc, &c); halted {
			return Result{Reason: HaltIllegalAddress, PC: pc, Instruction: c.raw, Steps: steps}
		}

		if halted := executeInstr(mc, &c); halted {
			return Result{Reason: HaltIllegalAddress, PC: pc, Instruction: c.raw, Steps: steps}
		}

		writeBack()

		steps++
	}
}

// fetchInstr stages the instruction word at mc.PC. It cannot halt: an
// unpopulated position, or a PC past the end of the fixed-size code array,
// simply reads as FillWord.
func fetchInstr(mc *machine.Machine) uint16 {
	if int(mc.PC) >= machine.CodeSize {
		return machine.FillWord
	}
	return mc.Code[mc.PC]
}

// fetchOperands resolves the right operand to a concrete 16-bit value.
// Only the 6-bit immediate form is sign-extended; register and
// memory-fetched operands are carried as full 16-bit values untouched, per
// SPEC_FULL.md §9 (this corrects the original implementation's bug of
// sign-extending every right operand from its low 6 bits).
func fetchOperands(mc *machine.Machine, c *cycle) (halted bool) {
	switch c.instr.RightKind {
	case decode.RightImmediate:
		c.rightValue = decode.SignExtend6(c.instr.RightImm)
	case decode.RightRegister:
		c.rightValue = mc.Registers[c.instr.RightReg]
	case decode.RightMemory:
		addr := mc.Registers[c.instr.RightReg]
		v, ok := mc.ReadData(addr)
		if !ok {
			return true
		}
		c.rightValue = v
	case decode.RightNone:
		// JR/SHIFT: nothing to fetch. Conditional branches decode as
		// RightImmediate; executeBranch sign-extends their displacement
		// from RightImm itself.
	}

	return false
}

// executeInstr applies the decoded operation and advances PC, returning
// true if the operation halted ILLEGAL_ADDRESS.
func executeInstr(mc *machine.Machine, c *cycle) (halted bool) {
	switch c.instr.Category {
	case machine.CategoryADD:
		mc.Registers[c.instr.LeftReg] += c.rightValue
	case machine.CategorySUB:
		mc.Registers[c.instr.LeftReg] -= c.rightValue
	case machine.CategoryAND:
		mc.Registers[c.instr.LeftReg] &= c.rightValue
	case machine.CategoryOR:
		mc.Registers[c.instr.LeftReg] |= c.rightValue
	case machine.CategoryXOR:
		mc.Registers[c.instr.LeftReg] ^= c.rightValue

	case machine.CategoryMOVE:
		switch c.instr.Type {
		case machine.MoveImmToReg, machine.MoveMemToReg:
			mc.Registers[c.instr.LeftReg] = c.rightValue
		case machine.MoveImmToMem, machine.MoveRegToMem:
			addr := mc.Registers[c.instr.LeftReg]
			if !mc.WriteData(addr, c.rightValue) {
				return true
			}
		}

	case machine.CategorySHIFT:
		switch c.instr.Type {
		case machine.ShiftRight:
			mc.Registers[c.instr.LeftReg] >>= 1
		case machine.ShiftLeft:
			mc.Registers[c.instr.LeftReg] <<= 1
		}

	case machine.CategoryBRANCH:
		executeBranch(mc, c)
	}

	if c.instr.Category != machine.CategoryBRANCH || !c.jumped {
		mc.PC++
	}

	return false
}

// executeBranch applies one BRANCH instruction, recording in c.jumped
// whether PC was already retargeted to its final value (so executeInstr
// knows not to post-increment). lhs is the left register, rhs is
// register 0; both are compared as signed 16-bit values so that
// BLT/BGT/BLE/BGE follow arithmetic intent.
//
// JR redirects control flow unconditionally, but it does so by staging
// PC one below its target and deliberately leaving c.jumped false, so
// that executeInstr's ordinary post-increment is the thing that lands PC
// on the target. This is the original implementation's own trick
// (register_pc = target - 1, then let the fall-through increment run);
// it is what makes "JR R0" with R0 holding the current PC loop in place
// rather than landing one word early. An untaken conditional branch also
// leaves c.jumped false so the ordinary increment advances PC by one.
func executeBranch(mc *machine.Machine, c *cycle) {
	lhs := int16(mc.Registers[c.instr.LeftReg])
	rhs := int16(mc.Registers[0])
	disp := int16(decode.SignExtend6(c.instr.RightImm))

	switch c.instr.Type {
	case machine.BranchJR:
		mc.PC = mc.Registers[c.instr.LeftReg] - 1
		return
	case machine.BranchBEQ:
		c.jumped = lhs == rhs
	case machine.BranchBNE:
		c.jumped = lhs != rhs
	case machine.BranchBLT:
		c.jumped = lhs < rhs
	case machine.BranchBGT:
		c.jumped = lhs > rhs
	case machine.BranchBLE:
		c.jumped = lhs <= rhs
	case machine.BranchBGE:
		c.jumped = lhs >= rhs
	}

	if c.jumped {
		mc.PC += uint16(disp)
	}
}

// writeBack is a no-op: every register and memory effect is already
// committed by the time EXECUTE_INSTR returns. It exists purely so the
// six phases named in SPEC_FULL.md §4.4 are all represented.
func writeBack() {}
