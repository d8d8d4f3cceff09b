package decode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CGQAQ/500-cpu-simulator/pkg/decode"
	"github.com/CGQAQ/500-cpu-simulator/pkg/machine"
)

func TestDecodeFillWordIsIllegal(t *testing.T) {
	_, err := decode.Decode(machine.FillWord)
	require.Error(t, err)
	assert.IsType(t, decode.ErrIllegalOpcode{}, err)
}

func TestDecodeAddImmediate(t *testing.T) {
	assert := assert.New(t)

	// ADD R1,4: category ADD, type immediate, left-reg 1, immediate 4.
	// left-reg's top two bits go in L's low two bits, its bottom two bits
	// go in R's top two bits; see enc in exec_test.go for the same layout.
	l := uint8(machine.CategoryADD)<<5 | machine.ArithImmediate<<2 | (1 >> 2)
	r := uint8(1&0b11)<<6 | 4
	word := uint16(l)<<8 | uint16(r)

	in, err := decode.Decode(word)
	assert.NoError(err)
	assert.Equal(machine.CategoryADD, in.Category)
	assert.EqualValues(machine.ArithImmediate, in.Type)
	assert.EqualValues(1, in.LeftReg)
	assert.Equal(decode.RightImmediate, in.RightKind)
	assert.EqualValues(4, in.RightImm)
}

func TestDecodeArithIllegalType(t *testing.T) {
	// category 000 ADD, type 2 is reserved.
	word := uint16(0b000_010_00) << 8
	_, err := decode.Decode(word)
	assert.Error(t, err)
}

func TestDecodeMoveForms(t *testing.T) {
	assert := assert.New(t)

	// MOVE imm -> R1 = 5 : category 101, type 000, left-reg 1, imm 5
	in, err := decode.Decode(0x0045 | (0b101 << 13))
	assert.NoError(err)
	assert.Equal(machine.CategoryMOVE, in.Category)
	assert.EqualValues(machine.MoveImmToReg, in.Type)
	assert.Equal(decode.RightImmediate, in.RightKind)

	// MOVE [R2] -> R3 : category 101, type 001, left-reg 3, right reg field -> reg 2
	l := uint8(0b101<<5 | 0b001<<2 | (3 >> 2))
	r := uint8((3&0b11)<<6 | (2 << 2))
	in, err = decode.Decode(uint16(l)<<8 | uint16(r))
	assert.NoError(err)
	assert.Equal(machine.CategoryMOVE, in.Category)
	assert.EqualValues(machine.MoveMemToReg, in.Type)
	assert.Equal(decode.RightMemory, in.RightKind)
	assert.EqualValues(2, in.RightReg)
	assert.EqualValues(3, in.LeftReg)

	// MOVE types 2, 3, 6 and 7 are reserved.
	for _, badType := range []uint8{2, 3, 6, 7} {
		l := uint8(0b101<<5) | (badType << 2)
		_, err := decode.Decode(uint16(l) << 8)
		assert.Error(err, "type %d should be illegal", badType)
	}
}

func TestDecodeShift(t *testing.T) {
	assert := assert.New(t)

	l := uint8(machine.CategorySHIFT) << 5
	in, err := decode.Decode(uint16(l) << 8)
	assert.NoError(err)
	assert.EqualValues(machine.ShiftRight, in.Type)

	l = uint8(machine.CategorySHIFT)<<5 | (1 << 2)
	in, err = decode.Decode(uint16(l) << 8)
	assert.NoError(err)
	assert.EqualValues(machine.ShiftLeft, in.Type)

	l = uint8(machine.CategorySHIFT)<<5 | (2 << 2)
	_, err = decode.Decode(uint16(l) << 8)
	assert.Error(err)
}

func TestDecodeBranchTypes(t *testing.T) {
	assert := assert.New(t)

	for ty := uint8(0); ty <= 6; ty++ {
		l := uint8(machine.CategoryBRANCH)<<5 | (ty << 2)
		in, err := decode.Decode(uint16(l) << 8)
		assert.NoError(err, "type %d", ty)
		assert.Equal(machine.CategoryBRANCH, in.Category)
		assert.EqualValues(ty, in.Type)
	}

	l := uint8(machine.CategoryBRANCH)<<5 | (7 << 2)
	_, err := decode.Decode(uint16(l) << 8)
	assert.Error(err)
}

func TestSignExtend6(t *testing.T) {
	assert := assert.New(t)

	assert.EqualValues(4, decode.SignExtend6(4))
	assert.EqualValues(0, decode.SignExtend6(0))

	// 0b111110 = -2 in 6-bit two's complement
	assert.EqualValues(0xFFFE, decode.SignExtend6(0b111110))

	// 0b100000 = -32, the most negative 6-bit value
	negThirtyTwo := int16(-32)
	assert.EqualValues(uint16(negThirtyTwo), decode.SignExtend6(0b100000))

	// 0b011111 = 31, the most positive 6-bit value
	assert.EqualValues(31, decode.SignExtend6(0b011111))
}

func TestInstructionStringDoesNotPanic(t *testing.T) {
	for word := 0; word < 0x10000; word += 0x1111 {
		in, err := decode.Decode(uint16(word))
		if err != nil {
			continue
		}
		_ = in.String()
	}
}
