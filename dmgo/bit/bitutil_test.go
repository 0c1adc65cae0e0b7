package bit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombine(t *testing.T) {
	assert.Equal(t, uint16(0xABCD), Combine(0xAB, 0xCD))
}

func TestLowHigh(t *testing.T) {
	v := uint16(0xBEEF)
	assert.Equal(t, uint8(0xEF), Low(v))
	assert.Equal(t, uint8(0xBE), High(v))
}

func TestSetResetIsSet(t *testing.T) {
	var b uint8 = 0
	b = Set(3, b)
	assert.True(t, IsSet(3, b))
	b = Reset(3, b)
	assert.False(t, IsSet(3, b))
}

func TestSetTo(t *testing.T) {
	assert.Equal(t, uint8(0x01), SetTo(0, 0x00, true))
	assert.Equal(t, uint8(0x00), SetTo(0, 0x01, false))
}

func TestExtractBits(t *testing.T) {
	assert.Equal(t, uint8(0b101), ExtractBits(0b11010110, 6, 4))
}

func TestIsSet16(t *testing.T) {
	assert.True(t, IsSet16(9, 0x0200))
	assert.False(t, IsSet16(9, 0x01FF))
}
