// Package bram defines the data model and the port protocol of a dual-port
// byte-masked block RAM with 128 words of 512 bits each.
package bram

// Geometry of the RAM. The address space is exactly 13 bits wide: 8192 bytes
// organized as 128 words of 64 bytes.
const (
	// WordBytes is the number of bytes in one word.
	WordBytes = 64

	// NumWords is the number of words in the RAM.
	NumWords = 128

	// AddrBits is the width of a byte address.
	AddrBits = 13

	// AddrMask keeps the low 13 bits of an address.
	AddrMask = (1 << AddrBits) - 1

	// WordIndexBits is the width of a word index.
	WordIndexBits = 7

	// ByteOffsetBits is the width of an intra-word byte offset.
	ByteOffsetBits = 6
)

// FullByteEnable is the byte-enable mask that selects all 64 byte lanes.
const FullByteEnable uint64 = 0xFFFFFFFFFFFFFFFF

// WordIndex extracts the 7-bit word index from a 13-bit byte address. The
// high-order bits above the address width are discarded, so the result is
// always in 0..127.
func WordIndex(addr uint64) uint64 {
	return (addr & AddrMask) >> ByteOffsetBits
}

// ByteOffset extracts the 6-bit intra-word byte offset from a byte address.
// The RAM itself never uses the offset. It is consumed by the callers that
// align data before issuing requests.
func ByteOffset(addr uint64) uint64 {
	return addr & (WordBytes - 1)
}
