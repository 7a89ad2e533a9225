package domain

// Message is a full decoded DNS message: header plus the four sections.
// The header's count fields (QDCount etc.) are not authoritative on a
// Message held in memory; the wire codec (C3) recomputes them from the
// slice lengths on every encode and verifies them on every decode.
type Message struct {
	Header      Header
	Questions   []Question
	Answers     []ResourceRecord
	Authorities []ResourceRecord
	Additionals []ResourceRecord
}

// NewQueryMessage builds a single-question query message with a fresh
// header: QR=0, RD=1, the given ID, and qdcount implied by Questions.
func NewQueryMessage(id uint16, q Question) Message {
	return Message{
		Header: Header{
			ID: id,
			RD: true,
		},
		Questions: []Question{q},
	}
}

// WithCounts returns a copy of the header with count fields synchronized
// to this message's current section lengths. The wire codec calls this
// just before emission; callers assembling a response in the resolution
// engine may also call it to keep a Message internally consistent without
// reaching into internal/dns/wire.
func (m Message) WithCounts() Header {
	h := m.Header
	h.QDCount = uint16(len(m.Questions))
	h.ANCount = uint16(len(m.Answers))
	h.NSCount = uint16(len(m.Authorities))
	h.ARCount = uint16(len(m.Additionals))
	return h
}

// NameError returns a NAME_ERROR (NXDOMAIN) response to the given query,
// preserving its ID and question section, per the fatal-branch and
// cap-exceeded behavior described in the resolution engine's contract.
func NameError(query Message) Message {
	resp := Message{
		Header: Header{
			ID:    query.Header.ID,
			QR:    true,
			RA:    true,
			RCode: RCode(3),
		},
		Questions: query.Questions,
	}
	resp.Header.QDCount = uint16(len(resp.Questions))
	return resp
}
