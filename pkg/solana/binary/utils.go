// Package binary provides little-endian field helpers for fixed-layout
// account and instruction data.
//
// The Put* helpers assume a correctly sized destination buffer. The Read*
// helpers are bounds-checked and report whether the field could be read,
// since account data fetched from the ledger is untrusted.
package binary

import (
	"crypto/ed25519"
	"encoding/binary"
)

func PutKey32(dst []byte, src []byte, offset *int) {
	copy(dst, src)
	*offset += ed25519.PublicKeySize
}

func PutUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst, v)
	*offset += 8
}

func PutUint32(dst []byte, v uint32, offset *int) {
	binary.LittleEndian.PutUint32(dst, v)
	*offset += 4
}

func PutInt32(dst []byte, v int32, offset *int) {
	binary.LittleEndian.PutUint32(dst, uint32(v))
	*offset += 4
}

func PutUint8(dst []byte, v uint8, offset *int) {
	dst[0] = v
	*offset += 1
}

// PutString writes a u32-LE length prefix followed by the raw UTF-8 bytes.
func PutString(dst []byte, v string, offset *int) {
	binary.LittleEndian.PutUint32(dst, uint32(len(v)))
	copy(dst[4:], v)
	*offset += StringSize(v)
}

// StringSize returns the encoded size of a length-prefixed string.
func StringSize(v string) int {
	return 4 + len(v)
}

func ReadKey32(src []byte, dst *ed25519.PublicKey, offset *int) bool {
	if len(src) < *offset+ed25519.PublicKeySize {
		return false
	}

	*dst = make([]byte, ed25519.PublicKeySize)
	copy(*dst, src[*offset:])
	*offset += ed25519.PublicKeySize
	return true
}

func ReadUint64(src []byte, dst *uint64, offset *int) bool {
	if len(src) < *offset+8 {
		return false
	}

	*dst = binary.LittleEndian.Uint64(src[*offset:])
	*offset += 8
	return true
}

func ReadUint32(src []byte, dst *uint32, offset *int) bool {
	if len(src) < *offset+4 {
		return false
	}

	*dst = binary.LittleEndian.Uint32(src[*offset:])
	*offset += 4
	return true
}

func ReadInt32(src []byte, dst *int32, offset *int) bool {
	var v uint32
	if !ReadUint32(src, &v, offset) {
		return false
	}

	*dst = int32(v)
	return true
}

func ReadUint8(src []byte, dst *uint8, offset *int) bool {
	if len(src) < *offset+1 {
		return false
	}

	*dst = src[*offset]
	*offset += 1
	return true
}

// ReadString reads a u32-LE length prefix and the number of bytes it claims.
// A prefix claiming more bytes than remain in the buffer fails the read; no
// partial value is produced.
func ReadString(src []byte, dst *string, offset *int) bool {
	var size uint32
	if !ReadUint32(src, &size, offset) {
		return false
	}

	if uint64(len(src)) < uint64(*offset)+uint64(size) {
		return false
	}

	*dst = string(src[*offset : *offset+int(size)])
	*offset += int(size)
	return true
}
