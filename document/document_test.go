package document

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(typ uint16, body []byte) []byte {
	buf := make([]byte, 6)
	binary.BigEndian.PutUint16(buf[2:4], typ)
	binary.BigEndian.PutUint16(buf[4:6], uint16(6+len(body)))
	return append(buf, body...)
}

func TestAssembleAttachesPackagingAndValuesToCurrentItem(t *testing.T) {
	var data []byte
	// document-level packaging before any item
	data = append(data, rec(0x63, make([]byte, 49))...)
	// first item
	data = append(data, rec(0x61, make([]byte, 148))...)
	data = append(data, rec(0x63, make([]byte, 49))...) // attaches to item 1
	data = append(data, rec(0x64, make([]byte, 10))...) // attaches to item 1
	// second item
	data = append(data, rec(0x61, make([]byte, 148))...)
	data = append(data, rec(0x64, make([]byte, 10))...) // attaches to item 2
	// payment is always document-level
	data = append(data, rec(0x6A, make([]byte, 33))...)

	doc := Assemble(data)
	require.Len(t, doc.Packaging, 1, "pre-item packaging stays document-level")
	require.Len(t, doc.Items, 2)
	assert.Len(t, doc.Items[0].Packaging, 1)
	assert.Len(t, doc.Items[0].Values, 1)
	assert.Len(t, doc.Items[1].Packaging, 0)
	assert.Len(t, doc.Items[1].Values, 1)
	assert.Len(t, doc.Payments, 1)
}

func TestAssembleLastVATSummaryAndTotalsWin(t *testing.T) {
	var data []byte
	data = append(data, rec(0x76, make([]byte, 6))...)
	data = append(data, rec(0x76, []byte{0, 0, 0, 0, 0, 1})...)
	data = append(data, rec(0x73, make([]byte, 6))...)
	data = append(data, rec(0x73, []byte{0, 0, 0, 0, 0, 2})...)

	doc := Assemble(data)
	require.NotNil(t, doc.VATSummary)
	require.Len(t, doc.VATSummary.Numbers, 1)
	assert.Equal(t, 0.01, doc.VATSummary.Numbers[0])
	require.NotNil(t, doc.Totals)
	require.Len(t, doc.Totals.Values, 1)
	assert.Equal(t, 0.02, doc.Totals.Values[0])
}

func TestAssembleUnknownsPreserveType(t *testing.T) {
	data := rec(0x99, []byte("whatever data"))
	doc := Assemble(data)
	require.Len(t, doc.Unknowns, 1)
	assert.Equal(t, uint16(0x99), doc.Unknowns[0].Type)
	require.NotNil(t, doc.Unknowns[0].Parsed)
}

func TestAssembleRawRecordsMatchStream(t *testing.T) {
	var data []byte
	data = append(data, rec(0x0A, []byte{0})...)
	data = append(data, rec(0x6D, make([]byte, 32))...)

	doc := Assemble(data)
	require.Len(t, doc.RawRecords, 2)
	assert.Equal(t, uint16(0x0A), doc.RawRecords[0].Type)
	assert.Equal(t, uint16(0x6D), doc.RawRecords[1].Type)
}
