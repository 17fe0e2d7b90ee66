package record

import "encoding/hex"

// Header is the parsed body of a 0x44 record.
// Every field is optional because a short body yields only as many
// leading fields as fit.
type Header struct {
	DocType      *uint8
	Timestamp    *uint32
	TimestampISO *string
	DocNumber    *uint32
	Mode         *uint8
	SellerTaxID  *string
	Prefix       *string
	Rest         []byte
}

func parseHeader(data []byte) *Header {
	h := &Header{}
	off := 0
	if len(data) >= off+1 {
		v := data[off]
		h.DocType = &v
		off++
	}
	if len(data) >= off+4 {
		v := beUint32(data[off : off+4])
		h.Timestamp = &v
		iso := tsFromFiscalEpoch(v)
		h.TimestampISO = &iso
		off += 4
	}
	if len(data) >= off+4 {
		v := beUint32(data[off : off+4])
		h.DocNumber = &v
		off += 4
	}
	if len(data) >= off+1 {
		v := data[off]
		h.Mode = &v
		off++
	}
	if len(data) >= off+10 {
		v := decodeCP1250(data[off : off+10])
		h.SellerTaxID = &v
		off += 10
	}
	if len(data) >= off+1 {
		v := decodeCP1250(data[off : off+1])
		h.Prefix = &v
		off++
	}
	if len(data) > off {
		h.Rest = append([]byte(nil), data[off:]...)
	}
	return h
}

// Footer is the parsed body of a 0x41 record.
type Footer struct {
	DocType      *uint8
	Mode         *uint8
	Status       *uint8
	DocNumber    *uint32
	Timestamp    *uint32
	TimestampISO *string
	UniqueNumber *string
	CashierID    *string
	CashierName  *string
	BuyerTaxID   *string
	Rest         []byte
}

func parseFooter(data []byte) *Footer {
	f := &Footer{}
	off := 0
	if len(data) >= off+1 {
		v := data[off]
		f.DocType = &v
		off++
	}
	if len(data) >= off+1 {
		v := data[off]
		f.Mode = &v
		off++
	}
	if len(data) >= off+1 {
		v := data[off]
		f.Status = &v
		off++
	}
	if len(data) >= off+4 {
		v := beUint32(data[off : off+4])
		f.DocNumber = &v
		off += 4
	}
	if len(data) >= off+4 {
		v := beUint32(data[off : off+4])
		f.Timestamp = &v
		iso := tsFromFiscalEpoch(v)
		f.TimestampISO = &iso
		off += 4
	}
	if len(data) >= off+14 {
		v := decodeCP1250(data[off : off+14])
		f.UniqueNumber = &v
		off += 14
	}
	if len(data) >= off+8 {
		v := decodeCP1250(data[off : off+8])
		f.CashierID = &v
		off += 8
	}
	if len(data) >= off+32 {
		v := decodeCP1250(data[off : off+32])
		f.CashierName = &v
		off += 32
	}
	if len(data) >= off+30 {
		v := decodeCP1250(data[off : off+30])
		f.BuyerTaxID = &v
		off += 30
	}
	if len(data) > off {
		f.Rest = append([]byte(nil), data[off:]...)
	}
	return f
}

// Line is the parsed body of a 0x0A record: a pascal string of CP-1250 text.
type Line struct {
	Text string
}

func parseLine(data []byte) *Line {
	return &Line{Text: decodeCP1250Pascal(data)}
}

// HeaderText is the parsed body of a 0x54 record.
type HeaderText struct {
	ID   *uint32
	Text *string
}

func parseHeaderText(data []byte) *HeaderText {
	t := &HeaderText{}
	if len(data) < 4 {
		return t
	}
	id := beUint32(data[0:4])
	t.ID = &id
	if len(data) > 4 {
		text := decodeCP1250(data[4:])
		t.Text = &text
	}
	return t
}

// Sale is the parsed body of a 0x61 record.
type Sale struct {
	Name        *string
	VATSymbol   *string
	Price       *float64
	Total       *float64
	Quantity    *float64
	Precision   *uint8
	Unit        *string
	Description *string
}

func parseSale(data []byte) *Sale {
	s := &Sale{}
	off := 0
	if len(data) >= off+80 {
		v := decodeCP1250(data[off : off+80])
		s.Name = &v
	} else if len(data) > off {
		v := decodeCP1250(data[off:])
		s.Name = &v
	}
	off += 80
	if len(data) >= off+1 {
		b := data[off]
		var v string
		if b >= 0x20 && b < 0x7F {
			v = string(rune(b))
		} else {
			v = hex.EncodeToString([]byte{b})
		}
		s.VATSymbol = &v
		off++
	} else {
		off++
	}
	if len(data) >= off+6 {
		v := bcdToDecimal(data[off:off+6], 2)
		s.Price = &v
	}
	off += 6
	if len(data) >= off+6 {
		v := bcdToDecimal(data[off:off+6], 2)
		s.Total = &v
	}
	off += 6
	if len(data) >= off+6 {
		v := bcdToDecimal(data[off:off+6], 2)
		s.Quantity = &v
	}
	off += 6
	if len(data) >= off+1 {
		v := data[off]
		s.Precision = &v
		off++
	} else {
		off++
	}
	if len(data) >= off+4 {
		v := decodeCP1250(data[off : off+4])
		s.Unit = &v
	}
	off += 4
	if len(data) >= off+50 {
		v := decodeCP1250(data[off : off+50])
		s.Description = &v
	} else if len(data) > off {
		v := decodeCP1250(data[off:])
		s.Description = &v
	}
	return s
}

// Packaging is the parsed body of a 0x63 record.
type Packaging struct {
	Name      *string
	Value     *float64
	Quantity  *float64
	Precision *uint8
	Total     *float64
	Sign      *uint8
	Kind      *uint8
}

func parsePackaging(data []byte) *Packaging {
	p := &Packaging{}
	off := 0
	if len(data) >= off+40 {
		v := decodeCP1250(data[off : off+40])
		p.Name = &v
	}
	off += 40
	if len(data) >= off+6 {
		v := bcdToDecimal(data[off:off+6], 2)
		p.Value = &v
	}
	off += 6
	var qtyRaw []byte
	if len(data) >= off+6 {
		qtyRaw = data[off : off+6]
	}
	off += 6
	precision := uint8(2)
	if len(data) >= off+1 {
		precision = data[off]
		p.Precision = &precision
		off++
	}
	if qtyRaw != nil {
		v := bcdToDecimal(qtyRaw, precision)
		p.Quantity = &v
	}
	if len(data) >= off+6 {
		v := bcdToDecimal(data[off:off+6], 2)
		p.Total = &v
	}
	off += 6
	if len(data) >= off+2 {
		sign := data[off]
		kind := data[off+1]
		p.Sign = &sign
		p.Kind = &kind
	}
	return p
}

// Amount is the parsed body of a 0x64 record.
type Amount struct {
	SectionType *uint8
	Value       *float64
	Currency    *string
	VATID       *uint8
}

func parseAmount(data []byte) *Amount {
	a := &Amount{}
	off := 0
	if len(data) >= off+1 {
		v := data[off]
		a.SectionType = &v
		off++
	}
	if len(data) >= off+6 {
		v := bcdToDecimal(data[off:off+6], 2)
		a.Value = &v
		off += 6
	}
	if len(data) >= off+3 {
		v := asciiTrimmed(data[off : off+3])
		a.Currency = &v
		off += 3
	}
	if len(data) >= off+1 {
		v := data[off]
		a.VATID = &v
	}
	return a
}

// Payment is the parsed body of a 0x6A record.
type Payment struct {
	CashFlag *uint8
	Type     *uint8
	Amount   *float64
	Name     *string
	Currency *string
}

func parsePayment(data []byte) *Payment {
	p := &Payment{}
	off := 0
	if len(data) >= off+1 {
		v := data[off]
		p.CashFlag = &v
		off++
	}
	if len(data) >= off+1 {
		v := data[off]
		p.Type = &v
		off++
	}
	if len(data) >= off+6 {
		v := bcdToDecimal(data[off:off+6], 2)
		p.Amount = &v
		off += 6
	}
	if len(data) >= off+25 {
		v := decodeCP1250(data[off : off+25])
		p.Name = &v
		off += 25
	}
	if len(data) >= off+3 {
		v := asciiTrimmed(data[off : off+3])
		p.Currency = &v
	}
	return p
}

// Digest is the parsed body of a 0x6D record: a raw digest surfaced as hex.
type Digest struct {
	Hex string
}

func parseDigest(data []byte) *Digest {
	n := len(data)
	if n > 32 {
		n = 32
	}
	return &Digest{Hex: hex.EncodeToString(data[:n])}
}

// CurrencySum is the parsed body of a 0x73 record.
type CurrencySum struct {
	Values   []float64
	Currency *string
	Rest     []byte
}

func parseCurrencySum(data []byte) *CurrencySum {
	c := &CurrencySum{}
	off := 0
	for len(data) >= off+6 {
		c.Values = append(c.Values, bcdToDecimal(data[off:off+6], 2))
		off += 6
	}
	if len(data) >= off+3 {
		v := asciiTrimmed(data[off : off+3])
		c.Currency = &v
		off += 3
	}
	if len(data) > off {
		c.Rest = append([]byte(nil), data[off:]...)
	}
	return c
}

// VATSummary is the parsed body of a 0x76 record.
type VATSummary struct {
	Rates    []uint16
	Numbers  []float64
	Currency *string
}

func parseVATSummary(data []byte) *VATSummary {
	v := &VATSummary{}
	off := 0
	if len(data) >= off+14*2 {
		for i := 0; i < 14; i++ {
			v.Rates = append(v.Rates, beUint16(data[off:off+2]))
			off += 2
		}
	}
	for len(data) >= off+6 {
		v.Numbers = append(v.Numbers, bcdToDecimal(data[off:off+6], 2))
		off += 6
	}
	if len(data) >= off+3 {
		cur := asciiTrimmed(data[off : off+3])
		v.Currency = &cur
	}
	return v
}

// Signature is the parsed body of a 0x20 (short/RSA512) or 0x74
// (long/RSA2048) record: the signature is surfaced verbatim, never
// validated.
type Signature struct {
	Length    int
	HexPrefix string
}

func parseSignature(data []byte) *Signature {
	n := len(data)
	if n > 16 {
		n = 16
	}
	return &Signature{Length: len(data), HexPrefix: hex.EncodeToString(data[:n])}
}

// UnknownRecord is the generic fallback for any record type without a
// dedicated decoder: a lossless hex prefix plus best-effort printable
// substrings, so no record is ever silently dropped.
type UnknownRecord struct {
	HexPrefix string
	Strings   []string
}

func parseUnknown(data []byte) *UnknownRecord {
	n := len(data)
	if n > 48 {
		n = 48
	}
	return &UnknownRecord{
		HexPrefix: hex.EncodeToString(data[:n]),
		Strings:   extractPrintableStrings(data, 4),
	}
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func beUint16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}
