package delta

import (
	"encoding/binary"
	"errors"
	"io"

	"deltasync/pkg/bytestream"
	derrors "deltasync/pkg/helper/errors"
	"deltasync/pkg/signature"
	"deltasync/pkg/strongdigest"
)

// Reader parses the Writer's little-endian, length-prefixed record
// format back into Records. It exists for tests and diagnostics; the
// producer pipeline itself never reads its own output back (that's the
// job of a delta applier, which this repository does not ship).
type Reader struct {
	bs *bytestream.ByteStream
}

// NewReader wraps bs, which must already be open for reading.
func NewReader(bs *bytestream.ByteStream) *Reader {
	return &Reader{bs: bs}
}

// ErrEndOfStream is returned by ReadRecord once every byte of bs has
// been consumed.
var ErrEndOfStream = errors.New("delta: end of stream")

func (r *Reader) readU64() (uint64, error) {
	buf, err := r.bs.ReadChunk(8)
	if err != nil {
		return 0, err
	}
	if len(buf) == 0 {
		return 0, io.EOF
	}
	if len(buf) < 8 {
		return 0, derrors.Internalf("delta: truncated u64 field (%d bytes)", len(buf))
	}
	return binary.LittleEndian.Uint64(buf), nil
}

// ReadRecord reads and decodes the next Record, or ErrEndOfStream once
// the stream is exhausted cleanly at a record boundary.
func (r *Reader) ReadRecord() (Record, error) {
	tagVal, err := r.readU64()
	if err != nil {
		if err == io.EOF {
			return Record{}, ErrEndOfStream
		}
		return Record{}, derrors.Wrap(err, "delta: read tag")
	}

	fingerprint, err := r.readU64()
	if err != nil {
		return Record{}, derrors.Wrap(err, "delta: read signature")
	}

	digestBuf, err := r.bs.ReadChunk(strongdigest.Size)
	if err != nil {
		return Record{}, derrors.Wrap(err, "delta: read digest")
	}
	if len(digestBuf) != strongdigest.Size {
		return Record{}, derrors.Internalf("delta: truncated digest (%d bytes)", len(digestBuf))
	}
	var digest [strongdigest.Size]byte
	copy(digest[:], digestBuf)

	length, err := r.readU64()
	if err != nil {
		return Record{}, derrors.Wrap(err, "delta: read length")
	}

	// StartOffset is not part of the wire format (the writer never emits
	// it), so it is left zero for records read back off the stream.
	rec := Record{
		Tag: Tag(tagVal),
		Chunk: signature.SignedChunk{
			Fingerprint: fingerprint,
			Digest:      digest,
			Length:      int(length),
		},
	}

	switch rec.Tag {
	case Added:
		payload, err := r.bs.ReadChunk(int(length))
		if err != nil {
			return Record{}, derrors.Wrap(err, "delta: read added payload")
		}
		rec.Payload = payload
	case Modified:
		payloadLen, err := r.readU64()
		if err != nil {
			return Record{}, derrors.Wrap(err, "delta: read modified payload length")
		}
		payload, err := r.bs.ReadChunk(int(payloadLen))
		if err != nil {
			return Record{}, derrors.Wrap(err, "delta: read modified payload")
		}
		rec.Payload = payload
	case Original, Removed:
		// No payload.
	default:
		return Record{}, derrors.InvalidInputf("delta: unknown tag %d", tagVal)
	}

	return rec, nil
}

// ReadStream reads every record until end of stream.
func (r *Reader) ReadStream() (Stream, error) {
	var out Stream
	for {
		rec, err := r.ReadRecord()
		if err != nil {
			if err == ErrEndOfStream {
				return out, nil
			}
			return out, err
		}
		out = append(out, rec)
	}
}
