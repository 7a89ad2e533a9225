package wire

import (
	"encoding/binary"
	"net"
	"strconv"
	"strings"

	"github.com/nullhorizon/recon-dns/internal/dns/domain"
)

// EncodeRData writes rdata's wire bytes for the given record type. table and
// rdataOffset are threaded through to EncodeName for the NS/CNAME/SOA
// variants whose rdata itself contains a compressible domain name.
func EncodeRData(rrtype domain.RRType, rdata domain.RData, table CompressionTable, rdataOffset int) ([]byte, error) {
	switch v := rdata.(type) {
	case domain.AData:
		return encodeA(v)
	case domain.AAAAData:
		return encodeAAAA(v)
	case domain.NSData:
		return EncodeName(v.NameServer, table, rdataOffset)
	case domain.CNAMEData:
		return EncodeName(v.Target, table, rdataOffset)
	case domain.SOAData:
		return encodeSOA(v, table, rdataOffset)
	case domain.TXTData:
		return v.Text, nil
	case domain.OpaqueData:
		return v.Raw, nil
	default:
		return nil, domain.NewFormatErr("unsupported rdata variant for encoding")
	}
}

// DecodeRData reads exactly rdlength bytes at rdataOffset within the full
// message buffer and parses them according to rrtype. NS/CNAME/SOA names
// are decoded against the whole buffer (not the rdata slice alone) since
// they may carry a compression pointer into an earlier part of the
// message; every other type is decoded from the rdlength-bounded slice.
func DecodeRData(rrtype domain.RRType, data []byte, rdataOffset int, rdlength int) (domain.RData, error) {
	end := rdataOffset + rdlength
	if rdlength < 0 || end > len(data) {
		return nil, domain.NewFormatErr("rdata extends beyond buffer")
	}
	raw := data[rdataOffset:end]

	switch rrtype {
	case domain.RRTypeA:
		return decodeA(raw)
	case domain.RRTypeAAAA:
		return decodeAAAA(raw)
	case domain.RRTypeNS:
		name, next, err := DecodeName(data, rdataOffset)
		if err != nil {
			return nil, err
		}
		if next > end {
			return nil, domain.NewFormatErr("NS name consumed more than rdlength")
		}
		return domain.NSData{NameServer: name}, nil
	case domain.RRTypeCNAME:
		name, next, err := DecodeName(data, rdataOffset)
		if err != nil {
			return nil, err
		}
		if next > end {
			return nil, domain.NewFormatErr("CNAME name consumed more than rdlength")
		}
		return domain.CNAMEData{Target: name}, nil
	case domain.RRTypeSOA:
		return decodeSOA(data, rdataOffset, end)
	case domain.RRTypeTXT:
		text := make([]byte, len(raw))
		copy(text, raw)
		return domain.TXTData{Text: text}, nil
	default:
		cp := make([]byte, len(raw))
		copy(cp, raw)
		return domain.OpaqueData{Type: rrtype, Raw: cp}, nil
	}
}

func encodeA(d domain.AData) ([]byte, error) {
	ip := net.ParseIP(d.Address)
	if ip == nil {
		return nil, domain.NewFormatErr("invalid A record address: " + d.Address)
	}
	v4 := ip.To4()
	if v4 == nil {
		return nil, domain.NewFormatErr("A record address is not IPv4: " + d.Address)
	}
	return []byte(v4), nil
}

func decodeA(raw []byte) (domain.RData, error) {
	if len(raw) != 4 {
		return nil, domain.NewFormatErr("A record rdata must be 4 octets")
	}
	return domain.AData{Address: net.IP(raw).String()}, nil
}

// encodeAAAA and decodeAAAA deliberately preserve the non-canonical
// byte-level colon join: each of the 16 octets rendered as a decimal
// number, joined with ':', rather than the canonical 16-bit hex groups of
// RFC 5952. Decode only ever needs to accept what encode produces.
func encodeAAAA(d domain.AAAAData) ([]byte, error) {
	parts := strings.Split(d.Address, ":")
	if len(parts) != 16 {
		if ip := net.ParseIP(d.Address); ip != nil && ip.To4() == nil {
			v6 := ip.To16()
			if v6 != nil {
				return []byte(v6), nil
			}
		}
		return nil, domain.NewFormatErr("invalid AAAA record address: " + d.Address)
	}
	out := make([]byte, 16)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 || v > 255 {
			return nil, domain.NewFormatErr("invalid AAAA record octet: " + p)
		}
		out[i] = byte(v)
	}
	return out, nil
}

func decodeAAAA(raw []byte) (domain.RData, error) {
	if len(raw) != 16 {
		return nil, domain.NewFormatErr("AAAA record rdata must be 16 octets")
	}
	parts := make([]string, 16)
	for i, b := range raw {
		parts[i] = strconv.Itoa(int(b))
	}
	return domain.AAAAData{Address: strings.Join(parts, ":")}, nil
}

func encodeSOA(d domain.SOAData, table CompressionTable, offset int) ([]byte, error) {
	mname, err := EncodeName(d.MName, table, offset)
	if err != nil {
		return nil, err
	}
	offset += len(mname)
	rname, err := EncodeName(d.RName, table, offset)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(mname)+len(rname)+20)
	out = append(out, mname...)
	out = append(out, rname...)
	var u32 [4]byte
	for _, n := range []uint32{d.Serial, d.Refresh, d.Retry, d.Expire, d.Minimum} {
		binary.BigEndian.PutUint32(u32[:], n)
		out = append(out, u32[:]...)
	}
	return out, nil
}

func decodeSOA(data []byte, rdataOffset, end int) (domain.RData, error) {
	mname, next, err := DecodeName(data, rdataOffset)
	if err != nil {
		return nil, err
	}
	rname, next2, err := DecodeName(data, next)
	if err != nil {
		return nil, err
	}
	if next2+20 > end {
		return nil, domain.NewFormatErr("SOA rdata truncated")
	}
	return domain.SOAData{
		MName:   mname,
		RName:   rname,
		Serial:  binary.BigEndian.Uint32(data[next2 : next2+4]),
		Refresh: binary.BigEndian.Uint32(data[next2+4 : next2+8]),
		Retry:   binary.BigEndian.Uint32(data[next2+8 : next2+12]),
		Expire:  binary.BigEndian.Uint32(data[next2+12 : next2+16]),
		Minimum: binary.BigEndian.Uint32(data[next2+16 : next2+20]),
	}, nil
}
