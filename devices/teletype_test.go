package devices

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeletypeWriteAppendsLowByteToOutput(t *testing.T) {
	var buf bytes.Buffer
	tt := NewTeletype(1, 2, &buf)

	assert.True(t, tt.WriteReady())
	assert.True(t, tt.Write(0x1041)) // low byte 'A'

	assert.Equal(t, "A", buf.String())
}

func TestTeletypeFeedAndReadDrainsInOrder(t *testing.T) {
	tt := NewTeletype(1, 2, &bytes.Buffer{})

	assert.False(t, tt.ReadReady())

	tt.Feed(0x41)
	tt.Feed(0x42)
	assert.True(t, tt.ReadReady())

	ok, word := tt.Read()
	require.True(t, ok)
	assert.EqualValues(t, 0x41, word)
	assert.True(t, tt.ReadReady())

	ok, word = tt.Read()
	require.True(t, ok)
	assert.EqualValues(t, 0x42, word)
	assert.False(t, tt.ReadReady())
}

func TestTeletypeReadWhenEmptyReturnsFalse(t *testing.T) {
	tt := NewTeletype(1, 2, &bytes.Buffer{})
	ok, word := tt.Read()
	assert.False(t, ok)
	assert.EqualValues(t, 0, word)
}

func TestTeletypeInterruptLinesRaisedOnlyWhilePending(t *testing.T) {
	tt := NewTeletype(3, 5, &bytes.Buffer{})

	_, ok := tt.InterruptLines()
	assert.False(t, ok)

	tt.Feed(0x1)
	lines, ok := tt.InterruptLines()
	require.True(t, ok)
	assert.EqualValues(t, 1<<5, lines[3])

	tt.Read()
	_, ok = tt.InterruptLines()
	assert.False(t, ok)
}

func TestTeletypeExitStopsAcceptingWrites(t *testing.T) {
	var buf bytes.Buffer
	tt := NewTeletype(0, 0, &buf)
	tt.Exit()

	assert.False(t, tt.WriteReady())
	assert.False(t, tt.Write(0x42))
}
