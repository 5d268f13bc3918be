package byteutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeInt64(t *testing.T) {
	t.Parallel()

	for _, id := range []int64{0, 1, -1, 42, -1001234567890, 1<<62 + 7} {
		b := EncodeInt64ToBytes(id)
		assert.Len(t, b, 8)
		assert.Equal(t, id, DecodeInt64FromBytes(b))
	}
}
