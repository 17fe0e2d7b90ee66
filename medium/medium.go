// Package medium decodes EJ0/medium.dat, the retrieval precondition:
// without a non-empty device prefix the device is considered
// unfiscalized and retrieval must abort.
package medium

import (
	"encoding/binary"
	"strings"

	"github.com/czajorlukasz/fiskread/fsperr"
)

// Size is the fixed length of a medium.dat record: 2+4+4+14+4+14+10+2 bytes.
const Size = 2 + 4 + 4 + 14 + 4 + 14 + 10 + 2

// Info is the decoded content of medium.dat.
type Info struct {
	FileVersion        uint16
	DeviceID           uint32
	MediumNumber       uint32
	DevicePrefix       string
	FirstDocNumber     uint32
	RegistrationNumber string
	TaxID              string
	OperatingMode      uint16
}

// deviceModels maps a device id to a human-readable printer model label.
var deviceModels = map[uint32]string{
	0x00000066: "Thermal HD Online 2.01",
	0x00000067: "Thermal XL2 Online 2.01",
	0x00000069: "Trio Online 1.02",
	0x0000006A: "Pospay Online 1.01",
	0x0000006B: "Vero 2.01",
	0x0000006C: "Thermal HX Online 1.01",
	0x0000006D: "Thermal XL2 S Online 2.01",
	0x0000006E: "Thermal HX S Online 1.01",
	0x0000006F: "Evo 1.01",
	0x00000070: "Thermal XL2 B 1.01",
	0x00000071: "Thermal XL2 W 1.01",
	0x00000072: "Fawag Box 1.01",
	0x00000073: "Temo Online 2.01",
	0x00000074: "Trio Online 2.01",
	0x00000075: "Pospay Online 2.01",
}

// Model returns the printer model label for a device id, or "unknown
// model" if the id is not in the known table.
func (i Info) Model() string {
	if m, ok := deviceModels[i.DeviceID]; ok {
		return m
	}
	return "unknown model"
}

// Decode parses medium.dat's bytes into an Info. It returns a ConfigError
// when data is shorter than Size, since a truncated medium.dat means the
// device prefix cannot be trusted.
func Decode(data []byte) (Info, error) {
	if len(data) < Size {
		return Info{}, fsperr.New(fsperr.KindConfig, "medium.Decode", "", errShort)
	}
	var i Info
	i.FileVersion = binary.BigEndian.Uint16(data[0:2])
	i.DeviceID = binary.BigEndian.Uint32(data[2:6])
	i.MediumNumber = binary.BigEndian.Uint32(data[6:10])
	i.DevicePrefix = asciiField(data[10:24])
	i.FirstDocNumber = binary.BigEndian.Uint32(data[24:28])
	i.RegistrationNumber = asciiField(data[28:42])
	i.TaxID = asciiField(data[42:52])
	i.OperatingMode = binary.BigEndian.Uint16(data[52:54])
	return i, nil
}

// errShort is the sentinel cause for a medium.dat shorter than Size.
type shortError string

func (e shortError) Error() string { return string(e) }

const errShort = shortError("medium.dat shorter than the fixed 54-byte record")

func asciiField(b []byte) string {
	return strings.TrimRight(string(b), "\x00")
}
