// Package bytestream wraps a single OS file handle with the sequential
// and positioned read/write operations the chunker, aligner, and delta
// writer need, so none of them touch *os.File directly.
package bytestream

import (
	"io"
	"os"

	"deltasync/pkg/helper/errors"
)

// Mode selects how a ByteStream's underlying file is opened.
type Mode int

const (
	ReadOnly Mode = iota
	WriteOnly
	ReadWrite
)

// ByteStream owns a single *os.File for its entire lifetime. It is not
// safe for concurrent use; the pipeline never shares one across
// goroutines.
type ByteStream struct {
	f    *os.File
	eof  bool
	mode Mode
}

// Open opens path under mode, creating and truncating it first for
// WriteOnly.
func Open(path string, mode Mode) (*ByteStream, error) {
	var flag int
	switch mode {
	case ReadOnly:
		flag = os.O_RDONLY
	case WriteOnly:
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case ReadWrite:
		flag = os.O_RDWR | os.O_CREATE
	default:
		return nil, errors.InvalidInputf("bytestream: unknown mode %d", mode)
	}

	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "bytestream: open %s", path)
	}

	return &ByteStream{f: f, mode: mode}, nil
}

// Close releases the underlying handle. Close is safe to call more than
// once.
func (b *ByteStream) Close() error {
	if b.f == nil {
		return nil
	}
	err := b.f.Close()
	b.f = nil
	return err
}

// IsEOF reports whether the most recent read hit end of file.
func (b *ByteStream) IsEOF() bool { return b.eof }

// ReadByte reads a single byte from the current position.
func (b *ByteStream) ReadByte() (byte, error) {
	var buf [1]byte
	n, err := b.f.Read(buf[:])
	if n == 1 {
		return buf[0], nil
	}
	if err == io.EOF {
		b.eof = true
	}
	return 0, errors.Wrap(err, "bytestream: read byte")
}

// WriteByte writes a single byte at the current position.
func (b *ByteStream) WriteByte(c byte) error {
	_, err := b.f.Write([]byte{c})
	return errors.Wrap(err, "bytestream: write byte")
}

// ReadChunk reads up to n bytes from the current position. Unlike a raw
// io.Reader, short reads below n are not errors: at end of file the
// returned slice is simply shorter than requested, down to length zero
// once nothing remains. This mirrors the reference FileIO.read_chunk,
// whose own test fixture demonstrates the length-truncating behavior
// directly: a file advertised as 22 bytes actually carries a trailing
// newline beyond that, so the read sequence is 22, then 1, then 0.
func (b *ByteStream) ReadChunk(n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := io.ReadFull(b.f, buf)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		b.eof = true
		return buf[:read], nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "bytestream: read chunk")
	}
	return buf, nil
}

// ReadChunkAt reads up to n bytes starting at the given absolute offset,
// leaving the stream's sequential position unaffected by using a
// positioned read rather than a seek.
func (b *ByteStream) ReadChunkAt(n int, offset int64) ([]byte, error) {
	buf := make([]byte, n)
	read, err := b.f.ReadAt(buf, offset)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return buf[:read], nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "bytestream: read chunk at %d", offset)
	}
	return buf[:read], nil
}

// WriteChunk appends buf at the current position.
func (b *ByteStream) WriteChunk(buf []byte) error {
	_, err := b.f.Write(buf)
	return errors.Wrap(err, "bytestream: write chunk")
}

// Size returns the file's current size in bytes.
func (b *ByteStream) Size() (int64, error) {
	info, err := b.f.Stat()
	if err != nil {
		return 0, errors.Wrap(err, "bytestream: stat")
	}
	return info.Size(), nil
}
