// Package chunker streams a file's bytes through a RollingHash and
// StrongDigest pair, emitting the content-defined chunk boundaries that
// make up a SignatureSet.
package chunker

import (
	"context"
	"errors"
	"io"

	"github.com/valyala/bytebufferpool"

	"deltasync/pkg/bytestream"
	"deltasync/pkg/rollinghash"
	"deltasync/pkg/signature"
	"deltasync/pkg/strongdigest"
)

// Chunk reads the entirety of bs and returns the SignatureSet describing
// its content-defined chunks. rh supplies the rolling fingerprint and
// determines the window size; sd supplies the strong digest paired with
// each chunk. boundaryMask is tested against the trailing two-byte
// window (big-endian `(last<<8)|b`); a zero result marks a boundary.
//
// ctx is checked only at chunk-emission boundaries, never inside the
// rolling-hash inner loop, so cancellation never interrupts a single
// roll. A canceled context aborts with ctx.Err() once the chunk in
// progress at cancellation time has already been emitted.
func Chunk(ctx context.Context, bs *bytestream.ByteStream, rh rollinghash.RollingHash, sd strongdigest.StrongDigest, boundaryMask uint64) (*signature.SignatureSet, error) {
	windowSize := rh.WindowSize()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	var chunks []signature.SignedChunk
	var cumulative int64

	// primeWindow (re)fills buf with the next windowSize bytes and, if a
	// full window was available, initializes rh over it. It reports
	// whether the window was fully primed; a short read (including zero
	// bytes at end of file) leaves rh uninitialized for this chunk.
	primeWindow := func() (bool, error) {
		buf.Reset()
		initial, err := bs.ReadChunk(windowSize)
		if err != nil {
			return false, err
		}
		buf.Write(initial)
		cumulative += int64(len(initial))
		if len(initial) < windowSize {
			return false, nil
		}
		if err := rh.Init(initial); err != nil {
			return false, err
		}
		return true, nil
	}

	emit := func(fingerprint uint64) {
		data := append([]byte(nil), buf.B...)
		chunks = append(chunks, signature.SignedChunk{
			Fingerprint: fingerprint,
			Digest:      sd.Digest(data),
			StartOffset: cumulative - int64(len(data)),
			Length:      len(data),
		})
		buf.Reset()
	}

	primed, err := primeWindow()
	if err != nil {
		return nil, err
	}

	for primed {
		last := buf.B[buf.Len()-1]

		b, rerr := bs.ReadByte()
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				break
			}
			return nil, rerr
		}

		buf.WriteByte(b)
		cumulative++
		fp := rh.Roll(b)

		if ((uint64(last)<<8)|uint64(b))&boundaryMask == 0 {
			emit(fp)

			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}

			primed, err = primeWindow()
			if err != nil {
				return nil, err
			}
		}
	}

	if buf.Len() > 0 {
		fingerprint := uint64(0)
		if primed {
			// A window was successfully initialized for this chunk but it
			// ended at EOF before any byte rolled through it, or the last
			// roll's value is still current; either way rh.Fingerprint()
			// holds the right value. A chunk that never reached a full
			// window (primed == false) keeps fingerprint 0, matching the
			// reference's behavior for a file shorter than the window.
			fingerprint = rh.Fingerprint()
		}
		emit(fingerprint)
	}

	return signature.NewSignatureSet(chunks), nil
}
