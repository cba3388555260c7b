package delta

import (
	"encoding/binary"

	"deltasync/pkg/bytestream"
	"deltasync/pkg/helper/errors"
)

// Writer serializes Records to a ByteStream. Every 64-bit field is
// written little-endian regardless of host architecture, for portable
// cross-architecture interop, and a MODIFIED payload is always preceded
// by its own little-endian u64 byte length so a reader never needs to
// infer where it ends from surrounding state.
type Writer struct {
	bs *bytestream.ByteStream
}

// NewWriter wraps bs, which must already be open for writing.
func NewWriter(bs *bytestream.ByteStream) *Writer {
	return &Writer{bs: bs}
}

// WriteRecord appends one Record to the stream:
//
//	tag       u64 LE
//	signature u64 LE (Chunk.Fingerprint)
//	digest    raw bytes, len(Chunk.Digest)
//	length    u64 LE (Chunk.Length)
//	payload   Added: Chunk.Length raw bytes (r.Payload)
//	          Modified: u64 LE byte count, then that many script bytes
//	          Original/Removed: nothing
func (w *Writer) WriteRecord(r Record) error {
	var header [8]byte

	binary.LittleEndian.PutUint64(header[:], uint64(r.Tag))
	if err := w.bs.WriteChunk(header[:]); err != nil {
		return errors.Wrap(err, "delta: write tag")
	}

	binary.LittleEndian.PutUint64(header[:], r.Chunk.Fingerprint)
	if err := w.bs.WriteChunk(header[:]); err != nil {
		return errors.Wrap(err, "delta: write signature")
	}

	if err := w.bs.WriteChunk(r.Chunk.Digest[:]); err != nil {
		return errors.Wrap(err, "delta: write digest")
	}

	binary.LittleEndian.PutUint64(header[:], uint64(r.Chunk.Length))
	if err := w.bs.WriteChunk(header[:]); err != nil {
		return errors.Wrap(err, "delta: write length")
	}

	switch r.Tag {
	case Added:
		if err := w.bs.WriteChunk(r.Payload); err != nil {
			return errors.Wrap(err, "delta: write added payload")
		}
	case Modified:
		binary.LittleEndian.PutUint64(header[:], uint64(len(r.Payload)))
		if err := w.bs.WriteChunk(header[:]); err != nil {
			return errors.Wrap(err, "delta: write modified payload length")
		}
		if err := w.bs.WriteChunk(r.Payload); err != nil {
			return errors.Wrap(err, "delta: write modified payload")
		}
	case Original, Removed:
		// No payload.
	default:
		return errors.InvalidInputf("delta: unknown tag %d", r.Tag)
	}

	return nil
}

// WriteStream writes every record in s in order.
func (w *Writer) WriteStream(s Stream) error {
	for _, r := range s {
		if err := w.WriteRecord(r); err != nil {
			return err
		}
	}
	return nil
}
