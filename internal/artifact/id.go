package artifact

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	projectIDLength = 12
	crockfordBase   = "0123456789abcdefghjkmnpqrstvwxyz"
)

// NewProjectID generates a time-ordered project ID: the leading 60 bits of a
// UUIDv7 encoded as 12 Crockford base32 characters. Later projects sort
// after earlier ones, and the embedded random bits keep IDs distinct when
// two projects are created in the same millisecond.
func NewProjectID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("new uuidv7: %w", err)
	}

	// UUIDv7 layout (RFC 9562): 48-bit time, 4-bit version, 12-bit rand_a,
	// 2-bit variant, 62-bit rand_b. The top 60 bits cover the full
	// timestamp plus high random bits.
	top60 := (uint64(id[0]) << 52) |
		(uint64(id[1]) << 44) |
		(uint64(id[2]) << 36) |
		(uint64(id[3]) << 28) |
		(uint64(id[4]) << 20) |
		(uint64(id[5]) << 12) |
		(uint64(id[6]&0x0f) << 8) |
		uint64(id[7])

	return encodeCrockford(top60), nil
}

func encodeCrockford(value uint64) string {
	var buf [projectIDLength]byte
	for i := projectIDLength - 1; i >= 0; i-- {
		buf[i] = crockfordBase[value&0x1f]
		value >>= 5
	}

	return string(buf[:])
}
