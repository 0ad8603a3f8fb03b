package encoding

import (
	"errors"
	"fmt"
	"hash/adler32"
	"math"
)

var (
	ErrChecksumMismatch = errors.New("checksum mismatch")
	ErrChecksumTooLarge = errors.New("data too large for checksum")
)

// ChecksumSize is the size in bytes of an encoded checksum. The checksum is made up of the length of the protected
// data (four bytes) followed by the adler32 hash of the data (four bytes).
const ChecksumSize = 4 + 4

// MaxChecksumDataLen is the maximum number of bytes a single checksum can protect.
const MaxChecksumDataLen = math.MaxUint32

// Checksum describes the length and hash of the bytes of a single unit of the dataset file.
type Checksum struct {
	// The number of bytes the checksum was computed over.
	Length uint32

	// The adler32 hash of those bytes.
	Hash uint32
}

// ComputeChecksum returns the checksum over data.
func ComputeChecksum(data []byte) Checksum {
	return Checksum{
		Length: uint32(len(data)), //nolint:gosec // callers guard against MaxChecksumDataLen
		Hash:   adler32.Checksum(data),
	}
}

// AppendChecksum computes the checksum over data and appends its encoded form to dst.
func AppendChecksum(dst []byte, data []byte) ([]byte, error) {
	if len(data) > MaxChecksumDataLen {
		return dst, fmt.Errorf("%w: %d bytes", ErrChecksumTooLarge, len(data))
	}
	checksum := ComputeChecksum(data)
	dst = Endian.AppendUint32(dst, checksum.Length)
	dst = Endian.AppendUint32(dst, checksum.Hash)
	return dst, nil
}

// DecodeChecksum decodes the checksum from the first ChecksumSize bytes of buffer.
func DecodeChecksum(buffer []byte) Checksum {
	return Checksum{
		Length: Endian.Uint32(buffer[0:4]),
		Hash:   Endian.Uint32(buffer[4:8]),
	}
}

// VerifyChecksum recomputes the checksum over data and compares it with the encoded checksum in buffer. A mismatch
// is reported as a CorruptionError for the given unit.
func VerifyChecksum(buffer []byte, data []byte, unit Unit) error {
	if len(buffer) < ChecksumSize {
		return Corruption(unit, fmt.Errorf("checksum truncated to %d bytes", len(buffer)))
	}
	if want, got := DecodeChecksum(buffer), ComputeChecksum(data); want != got {
		return Corruption(unit, ErrChecksumMismatch)
	}
	return nil
}
