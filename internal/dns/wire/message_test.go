package wire

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nullhorizon/recon-dns/internal/dns/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simpleQuery(id uint16, name string, t domain.RRType) domain.Message {
	return domain.NewQueryMessage(id, domain.Question{Name: name, Type: t, Class: domain.RRClassIN})
}

func TestEncodeDecodeMessage_QueryRoundTrip(t *testing.T) {
	m := simpleQuery(0x04D2, "example.com", domain.RRTypeA)
	encoded, err := EncodeMessage(m)
	require.NoError(t, err)

	decoded, err := DecodeMessage(encoded)
	require.NoError(t, err)

	assert.Equal(t, m.Header.ID, decoded.Header.ID)
	assert.False(t, decoded.Header.QR)
	assert.True(t, decoded.Header.RD)
	assert.Equal(t, uint16(1), decoded.Header.QDCount)
	require.Len(t, decoded.Questions, 1)
	assert.Equal(t, "example.com", decoded.Questions[0].Name)
	assert.Equal(t, domain.RRTypeA, decoded.Questions[0].Type)
	assert.Equal(t, domain.RRClassIN, decoded.Questions[0].Class)
}

func TestEncodeMessage_Deterministic(t *testing.T) {
	m := simpleQuery(1, "example.com", domain.RRTypeA)
	a, err := EncodeMessage(m)
	require.NoError(t, err)
	b, err := EncodeMessage(m)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEncodeMessage_QueryLengthIsHeaderPlusQuestion(t *testing.T) {
	m := simpleQuery(1, "example.com", domain.RRTypeA)
	encoded, err := EncodeMessage(m)
	require.NoError(t, err)

	table := make(CompressionTable)
	qBytes, err := EncodeName("example.com", table, headerLength)
	require.NoError(t, err)
	// name + 2(type) + 2(class)
	assert.Equal(t, headerLength+len(qBytes)+4, len(encoded))
}

func TestEncodeDecodeMessage_WithAnswer(t *testing.T) {
	m := simpleQuery(7, "example.com", domain.RRTypeA)
	m.Header.QR = true
	m.Header.RA = true
	m.Answers = []domain.ResourceRecord{
		{Name: "example.com", Type: domain.RRTypeA, Class: domain.RRClassIN, TTL: 3600, RData: domain.AData{Address: "93.184.216.34"}},
	}

	encoded, err := EncodeMessage(m)
	require.NoError(t, err)

	decoded, err := DecodeMessage(encoded)
	require.NoError(t, err)
	require.Len(t, decoded.Answers, 1)
	assert.Equal(t, "example.com", decoded.Answers[0].Name)
	assert.Equal(t, uint32(3600), decoded.Answers[0].TTL)
	assert.Equal(t, domain.AData{Address: "93.184.216.34"}, decoded.Answers[0].RData)
}

func TestEncodeMessage_CompressionRoundTrip(t *testing.T) {
	// Seed scenario: question www.example.com A, three answers named
	// www.example.com, example.com, www.example.com.
	m := simpleQuery(1, "www.example.com", domain.RRTypeA)
	m.Header.QR = true
	mk := func(name string) domain.ResourceRecord {
		return domain.ResourceRecord{Name: name, Type: domain.RRTypeA, Class: domain.RRClassIN, TTL: 60, RData: domain.AData{Address: "1.2.3.4"}}
	}
	m.Answers = []domain.ResourceRecord{
		mk("www.example.com"),
		mk("example.com"),
		mk("www.example.com"),
	}

	compressed, err := EncodeMessage(m)
	require.NoError(t, err)

	// "example" (the shared label) appears exactly once in the buffer.
	assert.Equal(t, 1, bytes.Count(compressed, []byte("example")))

	decoded, err := DecodeMessage(compressed)
	require.NoError(t, err)
	require.Len(t, decoded.Answers, 3)
	assert.Equal(t, "www.example.com", decoded.Answers[0].Name)
	assert.Equal(t, "example.com", decoded.Answers[1].Name)
	assert.Equal(t, "www.example.com", decoded.Answers[2].Name)
}

func TestEncodeMessage_CompressionIsShorterThanUncompressed(t *testing.T) {
	m := simpleQuery(1, "a.b.example.com", domain.RRTypeA)
	m.Answers = []domain.ResourceRecord{
		{Name: "example.com", Type: domain.RRTypeA, Class: domain.RRClassIN, TTL: 60, RData: domain.AData{Address: "1.2.3.4"}},
	}
	compressed, err := EncodeMessage(m)
	require.NoError(t, err)

	uncompressedLen := headerLength
	table := make(CompressionTable)
	q, _ := EncodeName("a.b.example.com", table, 0)
	uncompressedLen += len(q) + 4
	table2 := make(CompressionTable)
	a, _ := EncodeName("example.com", table2, 0)
	uncompressedLen += len(a) + 10 + 4

	assert.Less(t, len(compressed), uncompressedLen)

	decoded, err := DecodeMessage(compressed)
	require.NoError(t, err)
	assert.Equal(t, "example.com", decoded.Answers[0].Name)
}

func TestDecodeMessage_RejectsShortBuffer(t *testing.T) {
	_, err := DecodeMessage([]byte{0x00})
	assert.Error(t, err)
}

func TestDecodeMessage_RejectsZeroQuestions(t *testing.T) {
	h := domain.Header{ID: 1}
	buf, err := EncodeMessage(domain.Message{Header: h})
	require.NoError(t, err)
	_, err = DecodeMessage(buf)
	assert.Error(t, err)
}

func TestDecodeMessage_TolerstesNonZeroZBits(t *testing.T) {
	m := simpleQuery(1, "example.com", domain.RRTypeA)
	encoded, err := EncodeMessage(m)
	require.NoError(t, err)

	// Flip the Z bits (bits 6-4 of the second flags byte, header byte 3).
	encoded[3] |= 0x70

	decoded, err := DecodeMessage(encoded)
	require.NoError(t, err)
	assert.Equal(t, m.Header.ID, decoded.Header.ID)
}

func TestDecodeMessage_NXDOMAINWithSOA(t *testing.T) {
	m := simpleQuery(2, "com", domain.RRTypeNS)
	m.Header.QR = true
	m.Header.RCode = domain.RCode(3)
	m.Authorities = []domain.ResourceRecord{
		{
			Name: "com", Type: domain.RRTypeSOA, Class: domain.RRClassIN, TTL: 900,
			RData: domain.SOAData{MName: "a.gtld-servers.net", RName: "nstld.verisign-grs.com", Serial: 1, Refresh: 2, Retry: 3, Expire: 4, Minimum: 5},
		},
	}

	encoded, err := EncodeMessage(m)
	require.NoError(t, err)

	decoded, err := DecodeMessage(encoded)
	require.NoError(t, err)
	assert.Equal(t, domain.RCode(3), decoded.Header.RCode)
	require.Len(t, decoded.Authorities, 1)
	assert.Equal(t, domain.RRTypeSOA, decoded.Authorities[0].Type)
}

func TestDecodeMessage_MalformedSingleByte(t *testing.T) {
	// Seed scenario 6: a 1-byte inbound datagram must fail to decode so
	// the UDP front-end can drop it silently.
	_, err := DecodeMessage([]byte{0x00})
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "format error"))
}
