package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPadsColumns(t *testing.T) {
	out := Format([][]string{
		{"color", "red"},
		{"priority", "10"},
	}, []Alignment{AlignLeft, AlignRight})
	assert.Equal(t, []string{
		"color     red",
		"priority   10",
	}, out)
}

func TestFormatIgnoresANSIAndCountsWideRunes(t *testing.T) {
	out := Format([][]string{
		{"\x1b[1mab\x1b[0m", "x"},
		{"日本", "y"},
		{"abcd", "z"},
	}, nil)
	assert.Equal(t, "\x1b[1mab\x1b[0m    x", out[0])
	assert.Equal(t, "日本  y", out[1])
	assert.Equal(t, "abcd  z", out[2])
}

func TestFormatRaggedRowsAndEmpty(t *testing.T) {
	assert.Nil(t, Format(nil, nil))
	out := Format([][]string{{"a"}, {"bb", "c"}}, nil)
	assert.Equal(t, []string{"a ", "bb  c"}, out)
}
