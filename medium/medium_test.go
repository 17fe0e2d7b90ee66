package medium

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/czajorlukasz/fiskread/fsperr"
)

func buildMediumDat(t *testing.T, prefix string) []byte {
	t.Helper()
	buf := make([]byte, Size)
	binary.BigEndian.PutUint16(buf[0:2], 1)
	binary.BigEndian.PutUint32(buf[2:6], 0x6A)
	binary.BigEndian.PutUint32(buf[6:10], 7)
	copy(buf[10:24], prefix)
	binary.BigEndian.PutUint32(buf[24:28], 1)
	copy(buf[28:42], "REG123")
	copy(buf[42:52], "5260000000")
	binary.BigEndian.PutUint16(buf[52:54], 0)
	return buf
}

func TestDecode(t *testing.T) {
	data := buildMediumDat(t, "AB12")
	info, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "AB12", info.DevicePrefix)
	assert.Equal(t, "REG123", info.RegistrationNumber)
	assert.Equal(t, "5260000000", info.TaxID)
	assert.Equal(t, "Pospay Online 1.01", info.Model())
}

func TestDecodeShortIsConfigError(t *testing.T) {
	_, err := Decode(make([]byte, Size-1))
	assert.ErrorIs(t, err, fsperr.New(fsperr.KindConfig, "", "", nil))
}

func TestDecodeEmptyPrefixMeansUnfiscalized(t *testing.T) {
	data := buildMediumDat(t, "")
	info, err := Decode(data)
	require.NoError(t, err)
	assert.Empty(t, info.DevicePrefix)
}

func TestModelUnknown(t *testing.T) {
	info := Info{DeviceID: 0xFFFFFFFF}
	assert.Equal(t, "unknown model", info.Model())
}
