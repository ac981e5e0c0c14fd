package devices

import (
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialNetwork(t *testing.T, n *Network) net.Conn {
	t.Helper()
	conn, err := net.Dial("tcp", n.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition never became true")
}

func TestNetworkRelaysWordsFromClientToRead(t *testing.T) {
	n, err := NewNetwork("127.0.0.1:0")
	require.NoError(t, err)
	defer n.Exit()

	conn := dialNetwork(t, n)

	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], 0x1234)
	_, err = conn.Write(buf[:])
	require.NoError(t, err)

	waitFor(t, n.ReadReady)

	ok, word := n.Read()
	require.True(t, ok)
	assert.EqualValues(t, 0x1234, word)
	assert.False(t, n.ReadReady())
}

func TestNetworkWriteFailsWithNoClient(t *testing.T) {
	n, err := NewNetwork("127.0.0.1:0")
	require.NoError(t, err)
	defer n.Exit()

	assert.False(t, n.WriteReady())
	assert.False(t, n.Write(0x1))
}

func TestNetworkWriteSendsWordToClient(t *testing.T) {
	n, err := NewNetwork("127.0.0.1:0")
	require.NoError(t, err)
	defer n.Exit()

	conn := dialNetwork(t, n)
	waitFor(t, n.WriteReady)

	require.True(t, n.Write(0xBEEF))

	var buf [2]byte
	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, err = conn.Read(buf[:])
	require.NoError(t, err)
	assert.EqualValues(t, 0xBEEF, binary.BigEndian.Uint16(buf[:]))
}

func TestNetworkExitIsIdempotent(t *testing.T) {
	n, err := NewNetwork("127.0.0.1:0")
	require.NoError(t, err)

	n.Exit()
	assert.NotPanics(t, func() { n.Exit() })
}
