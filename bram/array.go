package bram

import "log"

// A WordArray is the backing store of the RAM. It keeps 128 words of 64 bytes
// each and is only mutated through its masked-write operation.
//
// Unlike a general-purpose storage that allocates pages lazily, the capacity
// here is fixed and small, so the whole array is allocated up front.
type WordArray struct {
	words [NumWords][WordBytes]byte
}

// NewWordArray creates a WordArray with all words zeroed.
func NewWordArray() *WordArray {
	return &WordArray{}
}

// Read returns a copy of the word at the given word index.
func (a *WordArray) Read(wordIndex uint64) []byte {
	a.indexMustBeValid(wordIndex)

	data := make([]byte, WordBytes)
	copy(data, a.words[wordIndex][:])

	return data
}

// Write replaces the byte lanes of the word at the given word index that are
// selected by the byte-enable mask. Bit i of byteEnable controls byte lane i.
// Lanes with a clear bit keep their previous value.
func (a *WordArray) Write(wordIndex uint64, data []byte, byteEnable uint64) {
	a.indexMustBeValid(wordIndex)

	if len(data) != WordBytes {
		log.Panicf("write data must be %d bytes, got %d",
			WordBytes, len(data))
	}

	word := &a.words[wordIndex]
	for i := 0; i < WordBytes; i++ {
		if byteEnable&(1<<uint(i)) != 0 {
			word[i] = data[i]
		}
	}
}

func (a *WordArray) indexMustBeValid(wordIndex uint64) {
	if wordIndex >= NumWords {
		log.Panicf("word index %d out of range", wordIndex)
	}
}
