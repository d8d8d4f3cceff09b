// Package loader fills a machine's code and data memories from an
// io.Reader, the way SPEC_FULL.md §4.6 describes the two supported image
// formats: a raw big-endian binary for code, and a text image of
// hex-digit groups for data.
package loader

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"

	"github.com/CGQAQ/500-cpu-simulator/pkg/machine"
)

// ErrTruncatedWord is returned by LoadCode when the reader ends in the
// middle of a 16-bit word.
var ErrTruncatedWord = errors.New("loader: truncated word in code image")

// LoadCode reads a big-endian binary code image into mc.Code, one 16-bit
// word at a time, stopping at EOF or once CodeSize words have been read.
// Any code words beyond the image's length keep the FillWord the machine
// was reset with.
func LoadCode(r io.Reader, mc *machine.Machine) error {
	scratch := make([]byte, 2)

	for i := 0; i < machine.CodeSize; i++ {
		n, err := io.ReadFull(r, scratch)
		if err == io.EOF {
			return nil
		}
		if err == io.ErrUnexpectedEOF || n == 1 {
			return ErrTruncatedWord
		}
		if err != nil {
			return err
		}

		mc.Code[i] = binary.BigEndian.Uint16(scratch)
	}

	return nil
}

// LoadData reads a text data image, one line at a time, and unpacks each
// line into consecutive 16-bit data words: every run of four hex digits
// is a big-endian word (two bytes), with no separator required between
// runs. An index that runs past DataSize is ignored rather than erroring,
// so a data file can be longer than the machine's data memory without
// failing the load. A trailing run shorter than four digits is dropped,
// matching the "assumes an even number of bytes" contract of the format
// this was lifted from.
func LoadData(r io.Reader, mc *machine.Machine) error {
	scanner := bufio.NewScanner(r)

	index := 0
	for scanner.Scan() {
		line := scanner.Text()

		for i := 0; i+4 <= len(line); i += 4 {
			if index >= machine.DataSize {
				break
			}

			word, err := parseHexWord(line[i : i+4])
			if err != nil {
				return err
			}

			mc.Data[index] = word
			index++
		}
	}

	return scanner.Err()
}

func parseHexWord(digits string) (uint16, error) {
	hi, err := parseHexByte(digits[0:2])
	if err != nil {
		return 0, err
	}
	lo, err := parseHexByte(digits[2:4])
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

func parseHexByte(pair string) (byte, error) {
	hi, err := hexDigit(pair[0])
	if err != nil {
		return 0, err
	}
	lo, err := hexDigit(pair[1])
	if err != nil {
		return 0, err
	}
	return hi<<4 | lo, nil
}

func hexDigit(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	default:
		return 0, errors.New("loader: invalid hex digit in data image")
	}
}
