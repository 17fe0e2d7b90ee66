package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name     string
		command  uint8
		key      uint16
		sequence uint16
		position uint32
		payload  []byte
	}{
		{"empty payload", CmdGetFile, 0, 1, 0, nil},
		{"with payload", CmdListDir, 0xBEEF, 42, 1024, []byte("EJ0/DOC\x00")},
		{"max-ish fields", CmdStat, 0xFFFF, 0xFFFF, 0xFFFFFFFF, []byte{1, 2, 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := Encode(tc.command, tc.key, tc.sequence, tc.position, tc.payload)
			got, err := Decode(buf)
			require.NoError(t, err)
			assert.Equal(t, tc.command, got.Command)
			assert.Equal(t, tc.key, got.Key)
			assert.Equal(t, tc.sequence, got.Sequence)
			assert.Equal(t, tc.position, got.Position)
			if len(tc.payload) == 0 {
				assert.Empty(t, got.Payload)
			} else {
				assert.Equal(t, tc.payload, got.Payload)
			}
			assert.Equal(t, Checksum(buf), buf[offSum])
		})
	}
}

func TestScenario4PacketChecksum(t *testing.T) {
	buf := Encode(CmdGetFile, 0x0000, 0x0001, 0, nil)
	require.Len(t, buf, HeaderSize)
	want := Checksum(buf)
	assert.Equal(t, want, buf[offSum])

	got, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, uint8(CmdGetFile), got.Command)
	assert.Equal(t, uint16(1), got.Sequence)
}

func TestDecodeShortPacket(t *testing.T) {
	_, err := Decode(make([]byte, HeaderSize-1))
	assert.ErrorIs(t, err, ErrShortPacket)
}

func TestDecodeBadLength(t *testing.T) {
	buf := Encode(CmdGetFile, 0, 0, 0, []byte("hi"))
	binEncodeLen(buf, 200)
	_, err := Decode(buf)
	assert.ErrorIs(t, err, ErrBadLength)
}

func binEncodeLen(buf []byte, n uint16) {
	buf[offLen] = byte(n >> 8)
	buf[offLen+1] = byte(n)
}

func TestParseDirListingPaginationScenario5(t *testing.T) {
	// 117 entries total, end-marker only on the second page.
	page1 := buildEntries(100, false)
	page2 := buildEntries(17, true)

	entries1, end1 := ParseDirListing(page1)
	assert.Len(t, entries1, 100)
	assert.False(t, end1)

	entries2, end2 := ParseDirListing(page2)
	assert.Len(t, entries2, 17)
	assert.True(t, end2)
}

func buildEntries(n int, withEndMarker bool) []byte {
	var buf []byte
	for i := 0; i < n; i++ {
		buf = append(buf, entryBytes(uint32(i), 10, EntryTypeFile, "FILE")...)
	}
	if withEndMarker {
		buf = append(buf, entryBytes(0, 0, EntryTypeEnd, "")...)
	}
	return buf
}

func entryBytes(ts, size uint32, typ uint8, name string) []byte {
	b := make([]byte, 9)
	b[0] = byte(ts >> 24)
	b[1] = byte(ts >> 16)
	b[2] = byte(ts >> 8)
	b[3] = byte(ts)
	b[4] = byte(size >> 24)
	b[5] = byte(size >> 16)
	b[6] = byte(size >> 8)
	b[7] = byte(size)
	b[8] = typ
	b = append(b, []byte(name)...)
	b = append(b, 0)
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	return b
}

func TestParseDirListingDropsEmptyAndUnknown(t *testing.T) {
	var buf []byte
	buf = append(buf, entryBytes(1, 1, EntryTypeFile, "")...)  // empty name, dropped
	buf = append(buf, entryBytes(1, 1, 0x2A, "skip")...)       // unknown type, dropped
	buf = append(buf, entryBytes(1, 1, EntryTypeFile, "a.BIN")...)
	buf = append(buf, entryBytes(0, 0, EntryTypeEnd, "")...)

	entries, end := ParseDirListing(buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.BIN", entries[0].Name)
	assert.True(t, end)
}

func TestParseStat(t *testing.T) {
	data := append(entryBytes(3600, 42, EntryTypeFile, "")[:9])
	st, ok := ParseStat(data)
	require.True(t, ok)
	assert.Equal(t, uint32(3600), st.Timestamp)
	assert.Equal(t, uint32(42), st.Size)
	assert.Equal(t, uint8(EntryTypeFile), st.Type)
}

func TestParseStatShort(t *testing.T) {
	_, ok := ParseStat(make([]byte, 3))
	assert.False(t, ok)
}
