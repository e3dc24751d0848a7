package binary

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString_RoundTrip(t *testing.T) {
	for _, val := range []string{
		"",
		"Hi",
		"hello, world",
		"日本語のテキスト",
		"emoji \U0001F680 mixed",
	} {
		buf := make([]byte, StringSize(val))

		var offset int
		PutString(buf, val, &offset)
		assert.Equal(t, StringSize(val), offset)

		var decoded string
		offset = 0
		require.True(t, ReadString(buf, &decoded, &offset))
		assert.Equal(t, val, decoded)
		assert.Equal(t, StringSize(val), offset)
	}
}

func TestReadString_LyingPrefix(t *testing.T) {
	buf := make([]byte, StringSize("hello"))

	var offset int
	PutString(buf, "hello", &offset)

	// Bump the length prefix past the end of the buffer
	buf[0] = 0xff

	var decoded string
	offset = 0
	assert.False(t, ReadString(buf, &decoded, &offset))
	assert.Empty(t, decoded)
}

func TestReadString_ShortBuffer(t *testing.T) {
	var decoded string
	var offset int
	assert.False(t, ReadString([]byte{0x01, 0x00}, &decoded, &offset))
}

func TestFixedWidth_RoundTrip(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	buf := make([]byte, 32+8+4+4+1)

	var offset int
	PutKey32(buf, pub, &offset)
	PutUint64(buf[offset:], 1684771200, &offset)
	PutInt32(buf[offset:], -42, &offset)
	PutUint32(buf[offset:], 7, &offset)
	PutUint8(buf[offset:], 3, &offset)
	assert.Equal(t, len(buf), offset)

	var (
		key ed25519.PublicKey
		u64 uint64
		i32 int32
		u32 uint32
		u8  uint8
	)
	offset = 0
	require.True(t, ReadKey32(buf, &key, &offset))
	require.True(t, ReadUint64(buf, &u64, &offset))
	require.True(t, ReadInt32(buf, &i32, &offset))
	require.True(t, ReadUint32(buf, &u32, &offset))
	require.True(t, ReadUint8(buf, &u8, &offset))

	assert.Equal(t, pub, key)
	assert.EqualValues(t, 1684771200, u64)
	assert.EqualValues(t, -42, i32)
	assert.EqualValues(t, 7, u32)
	assert.EqualValues(t, 3, u8)
}

func TestRead_OutOfBounds(t *testing.T) {
	var (
		key    ed25519.PublicKey
		u64    uint64
		i32    int32
		u32    uint32
		offset int
	)

	short := make([]byte, 3)
	assert.False(t, ReadKey32(short, &key, &offset))
	assert.False(t, ReadUint64(short, &u64, &offset))
	assert.False(t, ReadInt32(short, &i32, &offset))
	assert.False(t, ReadUint32(short, &u32, &offset))
	assert.Equal(t, 0, offset)
}
