package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withHeader(typ uint16, size uint16, body []byte) []byte {
	buf := make([]byte, 6)
	buf[0], buf[1] = 0, 0
	buf[2] = byte(typ >> 8)
	buf[3] = byte(typ)
	buf[4] = byte(size >> 8)
	buf[5] = byte(size)
	return append(buf, body...)
}

func TestScenario1HeaderDecode(t *testing.T) {
	body := []byte{0x01}
	body = append(body, 0x00, 0x00, 0x0E, 0x10) // timestamp 3600
	body = append(body, 0x00, 0x00, 0x00, 0x2A) // doc_number 42
	body = append(body, 0x00)                   // mode
	body = append(body, []byte("5260000000")...)
	body = append(body, []byte("A")...)

	buf := withHeader(TypeHeader, uint16(6+len(body)), body)
	decoded := DecodeAll(buf)
	require.Len(t, decoded, 1)
	h := decoded[0].Header
	require.NotNil(t, h)
	assert.Equal(t, uint8(1), *h.DocType)
	assert.Equal(t, uint32(3600), *h.Timestamp)
	assert.Equal(t, "2000-01-01T01:00:00", *h.TimestampISO)
	assert.Equal(t, uint32(42), *h.DocNumber)
	assert.Equal(t, uint8(0), *h.Mode)
	assert.Equal(t, "5260000000", *h.SellerTaxID)
	assert.Equal(t, "A", *h.Prefix)
}

func TestScenario2LineRecord(t *testing.T) {
	body := []byte{0x05, 'A', 'B', 'C', 'D', 'E'}
	buf := withHeader(TypeLine, uint16(6+len(body)), body)
	decoded := DecodeAll(buf)
	require.Len(t, decoded, 1)
	require.NotNil(t, decoded[0].Line)
	assert.Equal(t, "ABCDE", decoded[0].Line.Text)
}

func TestScenario3BCDPrice(t *testing.T) {
	b := []byte{0x00, 0x00, 0x00, 0x01, 0x23, 0x45}
	assert.Equal(t, 123.45, bcdToDecimal(b, 2))
}

func TestFiscalEpochBoundaries(t *testing.T) {
	assert.Equal(t, "2000-01-01T00:00:00", tsFromFiscalEpoch(0))
	assert.Equal(t, "2000-01-02T00:00:00", tsFromFiscalEpoch(86400))
}

func TestBCDRoundTripProperty(t *testing.T) {
	cases := [][]byte{
		{0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		{0x12, 0x34, 0x56, 0x78, 0x90, 0x12},
		{0x99, 0x99, 0x99, 0x99, 0x99, 0x99},
	}
	for _, b := range cases {
		for precision := uint8(0); precision <= 4; precision++ {
			got := bcdToDecimal(b, precision)
			want := float64(bcdToInt(b))
			for i := uint8(0); i < precision; i++ {
				want /= 10
			}
			assert.InDelta(t, want, got, 1e-9)
		}
	}
}

func TestSplitSumsToInputLength(t *testing.T) {
	var data []byte
	data = append(data, withHeader(TypeLine, 7, []byte{0x00})...)
	data = append(data, withHeader(TypeDigest, 38, make([]byte, 32))...)
	data = append(data, withHeader(TypeSigShort, 70, make([]byte, 64))...)

	raws := Split(data)
	require.Len(t, raws, 3)
	var total int
	for _, r := range raws {
		total += int(r.Size)
	}
	assert.Equal(t, len(data), total)
}

func TestSplitOnShortInputYieldsNothing(t *testing.T) {
	for n := 0; n < 6; n++ {
		assert.Empty(t, Split(make([]byte, n)))
	}
}

func TestSplitStopsOnOversizedDeclaredSize(t *testing.T) {
	buf := withHeader(TypeLine, 200, []byte{0x00})
	assert.Empty(t, Split(buf))
}

func TestSplitStopsOnUndersizedDeclaredSize(t *testing.T) {
	buf := withHeader(TypeLine, 3, []byte{0x00, 0x00, 0x00, 0x00})
	assert.Empty(t, Split(buf))
}

func TestUnknownRecordPreservesBytesLosslessly(t *testing.T) {
	body := []byte{0xDE, 0xAD, 0xBE, 0xEF, 'h', 'e', 'l', 'l', 'o', '!', '!', '!'}
	buf := withHeader(0x99, uint16(6+len(body)), body)
	decoded := DecodeAll(buf)
	require.Len(t, decoded, 1)
	require.NotNil(t, decoded[0].Unknown)
	assert.Contains(t, decoded[0].Unknown.HexPrefix, "deadbeef")
}

func TestSniffDocType(t *testing.T) {
	body := []byte{0x02}
	buf := withHeader(TypeHeader, uint16(6+len(body)), body)
	dt, ok := SniffDocType(buf)
	require.True(t, ok)
	assert.Equal(t, uint8(2), dt)
}

func TestSniffDocTypeAbsent(t *testing.T) {
	_, ok := SniffDocType([]byte{0x00, 0x01})
	assert.False(t, ok)
}
