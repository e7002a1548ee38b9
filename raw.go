package srzone

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/clarosa/srzone/errors"
)

// RawBlock is a run of bytes that is not decoded further.
type RawBlock []byte

func (RawBlock) isPayload() {}

// Hex returns the bytes as space-separated, two-digit uppercase hex pairs.
func (b RawBlock) Hex() string {
	pairs := make([]string, len(b))
	for i := range b {
		pairs[i] = hex.EncodeToString(b[i : i+1])
	}
	return strings.ToUpper(strings.Join(pairs, " "))
}

// ParseHex decodes a string of whitespace-separated hex bytes. Any amount and
// kind of whitespace may separate the bytes.
func ParseHex(s string) (RawBlock, error) {
	fields := strings.Fields(s)
	b := make(RawBlock, len(fields))
	for i, f := range fields {
		n, err := strconv.ParseUint(f, 16, 8)
		if err != nil {
			return nil, errors.Errorf(errors.FormatViolation, "invalid hex byte %q", f)
		}
		b[i] = byte(n)
	}
	return b, nil
}
