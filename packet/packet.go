// Package packet implements the FSP v2 wire codec: the 12-byte header,
// its additive checksum, and the directory-entry/stat payload layouts
// carried inside FSP responses.
//
// Encoding and decoding are pure functions, independent of any session
// state, so they can be tested and reused without a live connection.
package packet

import (
	"encoding/binary"
)

// FSP v2 commands used by this module.
const (
	CmdHandshake = 0x10 // version / session handshake
	CmdErr       = 0x40 // error response from server
	CmdListDir   = 0x41 // get a directory listing
	CmdGetFile   = 0x42 // get a file segment
	CmdFarewell  = 0x4A // finish a session
	CmdStat      = 0x4D // get information about a file
)

// HeaderSize is the fixed size of an FSP packet header.
const HeaderSize = 12

// byte offsets of fields within the header.
const (
	offCmd = 0
	offSum = 1
	offKey = 2
	offSeq = 4
	offLen = 6
	offPos = 8
)

// Directory entry type bytes.
const (
	EntryTypeEnd = 0x00
	EntryTypeDir = 0x02
	EntryTypeFile = 0x01
)

// Packet is a decoded FSP request or response.
type Packet struct {
	Command    uint8
	Checksum   uint8
	Key        uint16
	Sequence   uint16
	DataLength uint16
	Position   uint32
	Payload    []byte // exactly DataLength bytes
	Extra      []byte // any bytes past the declared payload
}

// Checksum computes the FSP additive checksum over buf, a fully-assembled
// packet (header+payload) whose checksum byte (offset 1) has NOT yet been
// zeroed by the caller. The byte at offset 1 is treated as zero for the
// purpose of the sum: the initial accumulator equals len(buf), then every
// byte is summed (with the checksum byte counted as zero), and the result
// is folded once by adding the high byte back into the low byte.
func Checksum(buf []byte) uint8 {
	sum := len(buf)
	for i, b := range buf {
		if i == offSum {
			continue
		}
		sum += int(b)
	}
	return uint8(sum + (sum >> 8))
}

// Encode builds a complete FSP request packet: a 12-byte header followed
// by payload, with the checksum byte computed and written into offset 1.
func Encode(command uint8, key, sequence uint16, position uint32, payload []byte) []byte {
	buf := make([]byte, HeaderSize+len(payload))
	buf[offCmd] = command
	buf[offSum] = 0
	binary.BigEndian.PutUint16(buf[offKey:], key)
	binary.BigEndian.PutUint16(buf[offSeq:], sequence)
	binary.BigEndian.PutUint16(buf[offLen:], uint16(len(payload)))
	binary.BigEndian.PutUint32(buf[offPos:], position)
	copy(buf[HeaderSize:], payload)
	buf[offSum] = Checksum(buf)
	return buf
}

// ErrShortPacket and ErrBadLength are sentinel causes wrapped by fsperr at
// the call sites that know the failing operation name; Decode itself stays
// a pure function with plain errors.
type decodeError string

func (e decodeError) Error() string { return string(e) }

const (
	// ErrShortPacket is returned when buf is smaller than HeaderSize.
	ErrShortPacket = decodeError("fsp packet shorter than header")
	// ErrBadLength is returned when the declared data length exceeds buf.
	ErrBadLength = decodeError("fsp packet data_length exceeds payload")
)

// Decode parses an FSP response. It validates the minimum length and that
// the declared data length fits within buf, but deliberately does NOT
// verify the checksum: servers in the wild compute it with a variant
// formula, so an otherwise well-formed response must not be rejected on
// checksum mismatch alone. Callers that want the informational checksum
// may call Checksum(buf) themselves and compare to buf[1].
func Decode(buf []byte) (Packet, error) {
	var p Packet
	if len(buf) < HeaderSize {
		return p, ErrShortPacket
	}
	p.Command = buf[offCmd]
	p.Checksum = buf[offSum]
	p.Key = binary.BigEndian.Uint16(buf[offKey:])
	p.Sequence = binary.BigEndian.Uint16(buf[offSeq:])
	p.DataLength = binary.BigEndian.Uint16(buf[offLen:])
	p.Position = binary.BigEndian.Uint32(buf[offPos:])
	end := HeaderSize + int(p.DataLength)
	if end > len(buf) {
		return p, ErrBadLength
	}
	p.Payload = append([]byte(nil), buf[HeaderSize:end]...)
	p.Extra = append([]byte(nil), buf[end:]...)
	return p, nil
}

// DirEntry is one parsed directory-listing record.
type DirEntry struct {
	Timestamp  uint32 // seconds since the Unix epoch
	Size       uint32
	Type       uint8
	Name       string
}

// ParseDirListing parses a directory-listing payload into a sequence of
// entries. Each entry is timestamp(4)+size(4)+type(1)+NUL-terminated
// name, padded to a multiple of 4 bytes; a type-0x00 entry ends the
// listing. Entries with empty names or unrecognized types are dropped
// without stopping the scan. endReached reports whether a type-0x00
// end-marker entry was observed.
func ParseDirListing(data []byte) (entries []DirEntry, endReached bool) {
	offset := 0
	for offset+9 <= len(data) {
		timestamp := binary.BigEndian.Uint32(data[offset:])
		size := binary.BigEndian.Uint32(data[offset+4:])
		entryType := data[offset+8]

		nameStart := offset + 9
		nameEnd := nameStart
		for nameEnd < len(data) && data[nameEnd] != 0 {
			nameEnd++
		}
		if nameEnd >= len(data) {
			// no NUL terminator found: truncated entry, stop scanning.
			break
		}
		name := string(data[nameStart:nameEnd])

		advance := nameEnd + 1 - offset
		advance = (advance + 3) &^ 3
		offset += advance

		if entryType == EntryTypeEnd {
			endReached = true
			break
		}
		if name == "" || (entryType != EntryTypeFile && entryType != EntryTypeDir) {
			continue
		}
		entries = append(entries, DirEntry{
			Timestamp: timestamp,
			Size:      size,
			Type:      entryType,
			Name:      name,
		})
	}
	return entries, endReached
}

// Stat is a parsed response to the CmdStat command.
type Stat struct {
	Timestamp uint32
	Size      uint32
	Type      uint8
}

// ParseStat decodes a stat payload's first 9 bytes into a Stat. It returns
// ok=false when fewer than 9 bytes are present.
func ParseStat(data []byte) (st Stat, ok bool) {
	if len(data) < 9 {
		return Stat{}, false
	}
	st.Timestamp = binary.BigEndian.Uint32(data[0:4])
	st.Size = binary.BigEndian.Uint32(data[4:8])
	st.Type = data[8]
	return st, true
}
