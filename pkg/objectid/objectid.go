package objectid

import (
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Length is the size of the hex representation of an id.
const Length = 24

// New returns a 24 character hex id: 4 bytes of big-endian unix seconds
// followed by 8 random bytes.
func New() string {
	return NewAt(time.Now())
}

func NewAt(t time.Time) string {
	var b [12]byte
	binary.BigEndian.PutUint32(b[0:4], uint32(t.Unix()))

	r := uuid.New()
	copy(b[4:], r[8:])

	return hex.EncodeToString(b[:])
}

// Timestamp extracts the creation time encoded in id.
func Timestamp(id string) (time.Time, bool) {
	if !IsValid(id) {
		return time.Time{}, false
	}
	raw, _ := hex.DecodeString(id[:8])
	return time.Unix(int64(binary.BigEndian.Uint32(raw)), 0), true
}

func IsValid(id string) bool {
	if len(id) != Length {
		return false
	}
	_, err := hex.DecodeString(id)
	return err == nil
}
