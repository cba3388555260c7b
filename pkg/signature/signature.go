// Package signature defines the signed-chunk data model shared by the
// chunker, aligner, and delta writer.
package signature

import "deltasync/pkg/strongdigest"

// SignedChunk identifies one content-defined chunk of a file. Digest is
// a fixed-size array (not a slice) specifically so SignedChunk values
// are comparable with ==, matching the equality rule below.
type SignedChunk struct {
	Fingerprint uint64
	Digest      [strongdigest.Size]byte
	StartOffset int64
	Length      int
}

// Equal reports whether two chunks are interchangeable for alignment
// purposes. StartOffset is deliberately excluded: a chunk that moved but
// kept its content and length still counts as the same chunk.
func (c SignedChunk) Equal(other SignedChunk) bool {
	return c.Fingerprint == other.Fingerprint &&
		c.Digest == other.Digest &&
		c.Length == other.Length
}

// SignatureSet is the ordered, immutable-once-built chunk sequence for a
// single file. Chunks cover the file exactly once in ascending offset
// order.
type SignatureSet struct {
	chunks []SignedChunk
}

// NewSignatureSet wraps an already-ordered chunk slice. Callers (the
// chunker) are responsible for the contiguity invariant; SignatureSet
// itself is a read-only view once constructed.
func NewSignatureSet(chunks []SignedChunk) *SignatureSet {
	return &SignatureSet{chunks: chunks}
}

// Len returns the number of chunks.
func (s *SignatureSet) Len() int { return len(s.chunks) }

// At returns the chunk at index i.
func (s *SignatureSet) At(i int) SignedChunk { return s.chunks[i] }

// Chunks returns the underlying slice. Callers must not mutate it.
func (s *SignatureSet) Chunks() []SignedChunk { return s.chunks }

// TotalBytes returns the sum of every chunk's length, i.e. the file size
// the set describes.
func (s *SignatureSet) TotalBytes() int64 {
	var total int64
	for _, c := range s.chunks {
		total += int64(c.Length)
	}
	return total
}
