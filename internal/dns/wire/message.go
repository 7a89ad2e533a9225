package wire

import (
	"bytes"
	"encoding/binary"

	"github.com/nullhorizon/recon-dns/internal/dns/domain"
)

const headerLength = 12

// EncodeMessage serializes m into a DNS wire-format buffer: a 12-byte
// header whose count fields are recomputed from the section slices,
// followed by the question, answer, authority, and additional sections in
// order, sharing one compression table across the whole call.
func EncodeMessage(m domain.Message) ([]byte, error) {
	h := m.WithCounts()
	var buf bytes.Buffer
	if err := writeHeader(&buf, h); err != nil {
		return nil, err
	}

	table := make(CompressionTable)

	for _, q := range m.Questions {
		if err := encodeQuestion(&buf, q, table); err != nil {
			return nil, err
		}
	}
	for _, section := range [][]domain.ResourceRecord{m.Answers, m.Authorities, m.Additionals} {
		for _, rr := range section {
			if err := encodeRR(&buf, rr, table); err != nil {
				return nil, err
			}
		}
	}
	return buf.Bytes(), nil
}

func writeHeader(buf *bytes.Buffer, h domain.Header) error {
	var fixed [headerLength]byte
	binary.BigEndian.PutUint16(fixed[0:2], h.ID)
	binary.BigEndian.PutUint16(fixed[2:4], h.Flags())
	binary.BigEndian.PutUint16(fixed[4:6], h.QDCount)
	binary.BigEndian.PutUint16(fixed[6:8], h.ANCount)
	binary.BigEndian.PutUint16(fixed[8:10], h.NSCount)
	binary.BigEndian.PutUint16(fixed[10:12], h.ARCount)
	_, err := buf.Write(fixed[:])
	return err
}

func encodeQuestion(buf *bytes.Buffer, q domain.Question, table CompressionTable) error {
	name, err := EncodeName(q.Name, table, buf.Len())
	if err != nil {
		return err
	}
	buf.Write(name)
	var rest [4]byte
	binary.BigEndian.PutUint16(rest[0:2], uint16(q.Type))
	binary.BigEndian.PutUint16(rest[2:4], uint16(q.Class))
	buf.Write(rest[:])
	return nil
}

func encodeRR(buf *bytes.Buffer, rr domain.ResourceRecord, table CompressionTable) error {
	name, err := EncodeName(rr.Name, table, buf.Len())
	if err != nil {
		return err
	}
	buf.Write(name)

	var fixed [8]byte
	binary.BigEndian.PutUint16(fixed[0:2], uint16(rr.Type))
	binary.BigEndian.PutUint16(fixed[2:4], uint16(rr.Class))
	binary.BigEndian.PutUint32(fixed[4:8], rr.TTL)
	buf.Write(fixed[:])

	rdataOffset := buf.Len() + 2 // account for the rdlength field written below
	rdata, err := EncodeRData(rr.Type, rr.RData, table, rdataOffset)
	if err != nil {
		return err
	}
	if len(rdata) > 0xFFFF {
		return domain.NewFormatErr("rdata exceeds 65535 octets")
	}
	var rdlen [2]byte
	binary.BigEndian.PutUint16(rdlen[:], uint16(len(rdata)))
	buf.Write(rdlen[:])
	buf.Write(rdata)
	return nil
}

// DecodeMessage parses a DNS wire-format buffer into a domain.Message. A
// buffer shorter than the fixed header, a question/record section that
// runs past the buffer, or a decoded header with qdcount == 0 all fail
// with a FormatErr.
func DecodeMessage(data []byte) (domain.Message, error) {
	if len(data) < headerLength {
		return domain.Message{}, domain.NewFormatErr("message shorter than fixed header")
	}
	h := readHeader(data)
	if h.QDCount == 0 {
		return domain.Message{}, domain.NewFormatErr("message has no question section")
	}

	offset := headerLength
	questions := make([]domain.Question, 0, h.QDCount)
	for i := 0; i < int(h.QDCount); i++ {
		q, next, err := decodeQuestion(data, offset)
		if err != nil {
			return domain.Message{}, err
		}
		questions = append(questions, q)
		offset = next
	}

	answers, offset, err := decodeRRs(data, offset, int(h.ANCount))
	if err != nil {
		return domain.Message{}, err
	}
	authorities, offset, err := decodeRRs(data, offset, int(h.NSCount))
	if err != nil {
		return domain.Message{}, err
	}
	additionals, _, err := decodeRRs(data, offset, int(h.ARCount))
	if err != nil {
		return domain.Message{}, err
	}

	return domain.Message{
		Header:      h,
		Questions:   questions,
		Answers:     answers,
		Authorities: authorities,
		Additionals: additionals,
	}, nil
}

func readHeader(data []byte) domain.Header {
	var h domain.Header
	h.ID = binary.BigEndian.Uint16(data[0:2])
	h.SetFlags(binary.BigEndian.Uint16(data[2:4]))
	h.QDCount = binary.BigEndian.Uint16(data[4:6])
	h.ANCount = binary.BigEndian.Uint16(data[6:8])
	h.NSCount = binary.BigEndian.Uint16(data[8:10])
	h.ARCount = binary.BigEndian.Uint16(data[10:12])
	return h
}

func decodeQuestion(data []byte, offset int) (domain.Question, int, error) {
	name, next, err := DecodeName(data, offset)
	if err != nil {
		return domain.Question{}, 0, err
	}
	if next+4 > len(data) {
		return domain.Question{}, 0, domain.NewFormatErr("question section truncated")
	}
	qtype := binary.BigEndian.Uint16(data[next : next+2])
	qclass := binary.BigEndian.Uint16(data[next+2 : next+4])
	return domain.Question{
		Name:  name,
		Type:  domain.RRType(qtype),
		Class: domain.RRClass(qclass),
	}, next + 4, nil
}

func decodeRRs(data []byte, offset int, count int) ([]domain.ResourceRecord, int, error) {
	if count == 0 {
		return nil, offset, nil
	}
	rrs := make([]domain.ResourceRecord, 0, count)
	for i := 0; i < count; i++ {
		rr, next, err := decodeRR(data, offset)
		if err != nil {
			return nil, 0, err
		}
		rrs = append(rrs, rr)
		offset = next
	}
	return rrs, offset, nil
}

func decodeRR(data []byte, offset int) (domain.ResourceRecord, int, error) {
	name, next, err := DecodeName(data, offset)
	if err != nil {
		return domain.ResourceRecord{}, 0, err
	}
	if next+10 > len(data) {
		return domain.ResourceRecord{}, 0, domain.NewFormatErr("resource record header truncated")
	}
	rrtype := domain.RRType(binary.BigEndian.Uint16(data[next : next+2]))
	rrclass := domain.RRClass(binary.BigEndian.Uint16(data[next+2 : next+4]))
	ttl := binary.BigEndian.Uint32(data[next+4 : next+8])
	rdlength := int(binary.BigEndian.Uint16(data[next+8 : next+10]))
	rdataOffset := next + 10

	rdata, err := DecodeRData(rrtype, data, rdataOffset, rdlength)
	if err != nil {
		return domain.ResourceRecord{}, 0, err
	}

	rr := domain.ResourceRecord{
		Name:  name,
		Type:  rrtype,
		Class: rrclass,
		TTL:   ttl,
		RData: rdata,
	}
	return rr, rdataOffset + rdlength, nil
}
