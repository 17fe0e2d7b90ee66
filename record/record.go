// Package record implements the tagged-record document decoder: walking a
// byte buffer as a sequence of 6-byte-header records and decoding each
// record body into a typed, partially-optional struct.
//
// Each record kind is a fixed struct with pointer fields for anything a
// short buffer can leave unset, dispatched by a switch on the record type
// whose default case sends unknown types to the generic decoder.
package record

import "encoding/binary"

// Type bytes for the record kinds with a dedicated decoder.
const (
	TypeLine        = 0x0A
	TypeFooter      = 0x41
	TypeHeader      = 0x44
	TypeHeaderText  = 0x54
	TypeSale        = 0x61
	TypePackaging   = 0x63
	TypeAmount      = 0x64
	TypePayment     = 0x6A
	TypeDigest      = 0x6D
	TypeCurrencySum = 0x73
	TypeVATSummary  = 0x76
	TypeSigShort    = 0x20
	TypeSigLong     = 0x74
)

// Raw is one record in stream order, before per-type decoding.
type Raw struct {
	Type uint16
	Size uint16 // total size including the 6-byte header
	Body []byte // Size-6 bytes
}

// headerSize is the fixed 6-byte record header: 2 reserved + 2 type + 2 size.
const headerSize = 6

// Split walks data as a sequence of tagged records. It requires 6 bytes
// of header at each step, stops at a declared size under 6 (malformed
// tail) or one exceeding the remaining buffer, and stops cleanly (no
// error) whenever there is not enough data left for another record.
// Everything decoded before a stopping point is returned.
func Split(data []byte) []Raw {
	var out []Raw
	offset := 0
	for offset+headerSize <= len(data) {
		typ := binary.BigEndian.Uint16(data[offset+2 : offset+4])
		size := binary.BigEndian.Uint16(data[offset+4 : offset+6])
		if size < headerSize {
			break
		}
		end := offset + int(size)
		if end > len(data) {
			break
		}
		out = append(out, Raw{Type: typ, Size: size, Body: data[offset+headerSize : end]})
		offset = end
	}
	return out
}

// Decoded is the result of decoding one record's body: a type-specific
// parsed value (nil for unrecognized types handled by Unknown) plus the
// raw (type, size) pair, so callers can audit the (type, size) of every
// record in stream order even for types they don't interpret.
type Decoded struct {
	Raw     Raw
	Header  *Header
	Footer  *Footer
	Line    *Line
	Text    *HeaderText
	Sale    *Sale
	Pack    *Packaging
	Amount  *Amount
	Payment *Payment
	Digest  *Digest
	Sum     *CurrencySum
	VAT     *VATSummary
	Sig     *Signature
	Unknown *UnknownRecord
}

// DecodeAll splits data into records and decodes each body with its
// per-type decoder. Unrecognized types fall through to the generic
// Unknown decoder.
func DecodeAll(data []byte) []Decoded {
	raws := Split(data)
	out := make([]Decoded, len(raws))
	for i, r := range raws {
		out[i] = decodeOne(r)
	}
	return out
}

func decodeOne(r Raw) Decoded {
	d := Decoded{Raw: r}
	switch r.Type {
	case TypeHeader:
		d.Header = parseHeader(r.Body)
	case TypeFooter:
		d.Footer = parseFooter(r.Body)
	case TypeLine:
		d.Line = parseLine(r.Body)
	case TypeHeaderText:
		d.Text = parseHeaderText(r.Body)
	case TypeSale:
		d.Sale = parseSale(r.Body)
	case TypePackaging:
		d.Pack = parsePackaging(r.Body)
	case TypeAmount:
		d.Amount = parseAmount(r.Body)
	case TypePayment:
		d.Payment = parsePayment(r.Body)
	case TypeDigest:
		d.Digest = parseDigest(r.Body)
	case TypeCurrencySum:
		d.Sum = parseCurrencySum(r.Body)
	case TypeVATSummary:
		d.VAT = parseVATSummary(r.Body)
	case TypeSigShort, TypeSigLong:
		d.Sig = parseSignature(r.Body)
	default:
		d.Unknown = parseUnknown(r.Body)
	}
	return d
}

// SniffDocType reads only the leading 0x44 header record from an
// already-read segment and reports its doc_type byte, without requiring
// the rest of the file.
func SniffDocType(firstSegment []byte) (docType uint8, ok bool) {
	for _, r := range Split(firstSegment) {
		if r.Type == TypeHeader && len(r.Body) >= 1 {
			return r.Body[0], true
		}
	}
	return 0, false
}
