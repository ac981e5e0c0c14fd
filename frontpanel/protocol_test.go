package frontpanel

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intuitionamiga/sel810/sel810"
)

func TestWriteFrameThenReadFrameRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	frame := Frame{Seq: 7, Snapshot: sel810.Snapshot{A: 42, PC: 10, Halted: true}}

	require.NoError(t, WriteFrame(&buf, frame))

	got, err := ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, frame, got)
}

func TestReadFrameRejectsOversizedLength(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF})

	_, err := ReadFrame(&buf)
	assert.Error(t, err)
}

func TestReadControlDecodesBareJSON(t *testing.T) {
	r := strings.NewReader(`{"cmd":"halt"}`)
	msg, err := ReadControl(r)
	require.NoError(t, err)
	assert.Equal(t, "halt", msg.Cmd)
}

func TestReadControlErrorsOnMalformedJSON(t *testing.T) {
	r := strings.NewReader(`not json`)
	_, err := ReadControl(r)
	assert.Error(t, err)
}
