package record

import (
	"fmt"
	"strings"
	"time"
)

// fiscalEpoch is the zero point for document timestamps.
var fiscalEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// tsFromFiscalEpoch renders a count of seconds since the fiscal epoch to
// ISO-8601 local-naive form, e.g. tsFromFiscalEpoch(0) == "2000-01-01T00:00:00".
func tsFromFiscalEpoch(seconds uint32) string {
	t := fiscalEpoch.Add(time.Duration(seconds) * time.Second)
	return t.Format("2006-01-02T15:04:05")
}

// bcdToInt decodes packed-BCD bytes (high nibble = tens, low nibble =
// units per byte) into an unsigned integer.
func bcdToInt(b []byte) uint64 {
	var digits strings.Builder
	for _, by := range b {
		digits.WriteByte('0' + (by>>4)&0xF)
		digits.WriteByte('0' + by&0xF)
	}
	s := strings.TrimLeft(digits.String(), "0")
	if s == "" {
		return 0
	}
	var v uint64
	fmt.Sscanf(s, "%d", &v)
	return v
}

// bcdToDecimal divides the integer value of b by 10^precision, yielding
// the fractional amount a BCD field encodes: bcdToDecimal(b, p) * 10^p
// equals bcdToInt(b) up to float64 rounding. The record decoders store
// only this float64 value, not the integer and precision.
func bcdToDecimal(b []byte, precision uint8) float64 {
	v := bcdToInt(b)
	if precision == 0 {
		return float64(v)
	}
	div := 1.0
	for i := uint8(0); i < precision; i++ {
		div *= 10
	}
	return float64(v) / div
}
