package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeName_RoundTrip(t *testing.T) {
	table := make(CompressionTable)
	encoded, err := EncodeName("example.com", table, 0)
	require.NoError(t, err)

	decoded, next, err := DecodeName(encoded, 0)
	require.NoError(t, err)
	assert.Equal(t, "example.com", decoded)
	assert.Equal(t, len(encoded), next)
}

func TestEncodeName_StripsTrailingDot(t *testing.T) {
	table := make(CompressionTable)
	withDot, err := EncodeName("example.com.", table, 0)
	require.NoError(t, err)

	table2 := make(CompressionTable)
	withoutDot, err := EncodeName("example.com", table2, 0)
	require.NoError(t, err)

	assert.Equal(t, withoutDot, withDot)
}

func TestDecodeName_NoTrailingEmptyLabel(t *testing.T) {
	table := make(CompressionTable)
	encoded, err := EncodeName("example.com", table, 0)
	require.NoError(t, err)
	decoded, _, err := DecodeName(encoded, 0)
	require.NoError(t, err)
	assert.NotEqual(t, "example.com.", decoded)
	assert.Equal(t, "example.com", decoded)
}

func TestEncodeName_RejectsOverlongLabel(t *testing.T) {
	table := make(CompressionTable)
	longLabel := bytes.Repeat([]byte("a"), 64)
	_, err := EncodeName(string(longLabel)+".com", table, 0)
	assert.Error(t, err)
}

func TestEncodeName_CompressesAgainstEarlierSuffix(t *testing.T) {
	table := make(CompressionTable)
	first, err := EncodeName("example.com", table, 0)
	require.NoError(t, err)

	second, err := EncodeName("www.example.com", table, len(first))
	require.NoError(t, err)

	// second should be: 1-byte len + "www" + 2-byte pointer = 6 bytes,
	// much shorter than re-encoding "example.com" in full.
	assert.Less(t, len(second), len(first)+5)
	assert.Equal(t, byte(0xC0), second[len(second)-2]&0xC0)

	// decoding from a synthetic buffer should recover the full name
	buf := append(append([]byte{}, first...), second...)
	decoded, next, err := DecodeName(buf, len(first))
	require.NoError(t, err)
	assert.Equal(t, "www.example.com", decoded)
	assert.Equal(t, len(first)+len(second), next)
}

func TestDecodeName_PointerCycleRejected(t *testing.T) {
	// A name at offset 0 that points to itself.
	buf := []byte{0xC0, 0x00}
	_, _, err := DecodeName(buf, 0)
	assert.Error(t, err)
}

func TestDecodeName_PointerOutOfRange(t *testing.T) {
	buf := []byte{0xC0, 0xFF}
	_, _, err := DecodeName(buf, 0)
	assert.Error(t, err)
}

func TestDecodeName_ReservedLengthBits(t *testing.T) {
	buf := []byte{0x40, 0x00}
	_, _, err := DecodeName(buf, 0)
	assert.Error(t, err)
}

func TestDecodeName_TruncatedLabel(t *testing.T) {
	buf := []byte{5, 'h', 'e', 'l'} // length 5 but only 3 bytes follow
	_, _, err := DecodeName(buf, 0)
	assert.Error(t, err)
}

func TestEncodeName_Deterministic(t *testing.T) {
	table1 := make(CompressionTable)
	out1, err := EncodeName("www.example.com", table1, 0)
	require.NoError(t, err)

	table2 := make(CompressionTable)
	out2, err := EncodeName("www.example.com", table2, 0)
	require.NoError(t, err)

	assert.Equal(t, out1, out2)
}
