package byteutil

import "encoding/binary"

// EncodeInt64ToBytes encodes an id as a big-endian key suitable for bolt
// bucket ordering.
func EncodeInt64ToBytes(id int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

// DecodeInt64FromBytes is the inverse of EncodeInt64ToBytes.
func DecodeInt64FromBytes(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b))
}
