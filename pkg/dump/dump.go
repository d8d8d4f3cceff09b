// Package dump renders a machine's data memory as the sixteen-bytes-per-
// line hex-and-ASCII listing described in SPEC_FULL.md §6, the Go-native
// form of the original implementation's print_formatted_data.
package dump

import (
	"bytes"
	"fmt"
	"io"

	"github.com/CGQAQ/500-cpu-simulator/pkg/machine"
)

const bytesPerLine = 16

// WriteMemory writes the full data-memory dump to w.
func WriteMemory(w io.Writer, mc *machine.Machine) error {
	_, err := io.WriteString(w, FormatMemory(mc))
	return err
}

// FormatMemory renders the full data-memory dump as a string. The region
// is always the fixed DataSize*2 bytes described in §6; every byte is
// drawn straight from mc.Data (FillWord reads back as 0xff 0xff, exactly
// the fill rendering the format calls for), so there is never a partial
// final line to pad.
func FormatMemory(mc *machine.Machine) string {
	var buf bytes.Buffer

	total := machine.DataSize * 2
	for offset := 0; offset < total; offset += bytesPerLine {
		fmt.Fprintf(&buf, "%08x  ", offset)

		var ascii [bytesPerLine]byte
		for j := 0; j < bytesPerLine; j += 2 {
			hi, lo := dataBytes(mc, offset+j)
			fmt.Fprintf(&buf, "%02x %02x ", hi, lo)
			ascii[j] = validASCII(hi)
			ascii[j+1] = validASCII(lo)
		}

		fmt.Fprintf(&buf, " |%s|\n", ascii[:])
	}

	return buf.String()
}

// dataBytes returns the big-endian byte pair at the given byte offset
// into the data region.
func dataBytes(mc *machine.Machine, byteOffset int) (hi, lo byte) {
	word := mc.Data[byteOffset/2]
	return byte(word >> 8), byte(word)
}

// validASCII renders a byte as itself if printable (0x21..0x7e), or '.'
// otherwise.
func validASCII(b byte) byte {
	if b < 0x21 || b > 0x7e {
		return '.'
	}
	return b
}
