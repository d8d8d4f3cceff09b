package dump_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CGQAQ/500-cpu-simulator/pkg/dump"
	"github.com/CGQAQ/500-cpu-simulator/pkg/machine"
)

func TestFormatMemoryFillPattern(t *testing.T) {
	assert := assert.New(t)

	mc := machine.New()
	out := dump.FormatMemory(mc)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	assert.Len(lines, machine.DataSize*2/16)
	assert.True(strings.HasPrefix(lines[0], "00000000  "))
	assert.Contains(lines[0], "ff ff ff ff ff ff ff ff ff ff ff ff ff ff ff ff")
	assert.True(strings.HasSuffix(lines[0], "|................|"))
}

func TestFormatMemoryRendersPrintableAndNonPrintable(t *testing.T) {
	assert := assert.New(t)

	mc := machine.New()
	// "Hi" = 0x48 0x69, a printable pair, at the very first word.
	mc.Data[0] = 0x4869
	out := dump.FormatMemory(mc)
	firstLine := strings.SplitN(out, "\n", 2)[0]

	assert.True(strings.HasPrefix(firstLine, "00000000  48 69 "))
	assert.True(strings.HasSuffix(firstLine, "|Hi..............|"))
}

func TestFormatMemorySecondLineOffset(t *testing.T) {
	out := dump.FormatMemory(machine.New())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.True(t, strings.HasPrefix(lines[1], "00000010  "))
}

func TestWriteMemory(t *testing.T) {
	mc := machine.New()
	var buf strings.Builder

	err := dump.WriteMemory(&buf, mc)
	require.NoError(t, err)
	assert.Equal(t, dump.FormatMemory(mc), buf.String())
}
