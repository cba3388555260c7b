// Package aligner walks two SignatureSets in lockstep and produces the
// DeltaRecord stream describing how to reconstruct the new file from the
// old one.
package aligner

import (
	"deltasync/pkg/bytediff"
	"deltasync/pkg/bytestream"
	"deltasync/pkg/delta"
	"deltasync/pkg/metrics"
	"deltasync/pkg/signature"
)

// Align walks old and new with two cursors, classifying each step as a
// kept, added, modified, or removed chunk. oldFile and newFile must be
// open for positioned reads (bytestream.ReadChunkAt) over the same
// bytes the SignatureSets were built from: ADDED records read their
// raw bytes from newFile, and MODIFIED records byte-diff oldFile's
// bytes against newFile's bytes at the new chunk's offset/length.
// collector receives a RecordBytesRead call for every positioned read
// Align performs; pass metrics.NoopMetrics{} to skip recording.
func Align(old, new *signature.SignatureSet, oldFile, newFile *bytestream.ByteStream, collector metrics.MetricsCollector) (delta.Stream, error) {
	var out delta.Stream

	oi, ni := 0, 0
	oLen, nLen := old.Len(), new.Len()

	for oi < oLen || ni < nLen {
		switch {
		case oi >= oLen:
			// Case A: old exhausted, everything left in new is ADDED.
			rec, err := addedRecord(new.At(ni), newFile, collector)
			if err != nil {
				return nil, err
			}
			out = append(out, rec)
			ni++

		case ni >= nLen:
			// Case B: new exhausted, everything left in old is REMOVED.
			out = append(out, delta.Record{Tag: delta.Removed, Chunk: old.At(oi)})
			oi++

		case new.At(ni).Equal(old.At(oi)):
			// Case C: chunks at both cursors match directly.
			out = append(out, delta.Record{Tag: delta.Original, Chunk: old.At(oi)})
			oi++
			ni++

		default:
			if j, found := findMatch(old, new.At(ni), oi); found {
				// Case D: new's current chunk reappears later in old;
				// everything old skipped over is REMOVED. ni does not
				// advance so the next iteration re-enters via case C.
				for k := oi; k < j; k++ {
					out = append(out, delta.Record{Tag: delta.Removed, Chunk: old.At(k)})
				}
				oi = j
				continue
			}

			if ni+1 < nLen {
				if j, found := findMatch(old, new.At(ni+1), oi); found {
					// Case E: the next new chunk matches somewhere ahead
					// in old, so the current new chunk is treated as a
					// modification rather than a pure insert: its bytes
					// are diffed against the old file's bytes at the same
					// offset and length, and both cursors advance by one.
					rec, err := modifiedRecord(new.At(ni), oldFile, newFile, collector)
					if err != nil {
						return nil, err
					}
					out = append(out, rec)
					oi++
					ni++
					continue
				}
			}

			// Case F: no match anywhere ahead; the new chunk is a pure
			// insertion.
			rec, err := addedRecord(new.At(ni), newFile, collector)
			if err != nil {
				return nil, err
			}
			out = append(out, rec)
			ni++
		}
	}

	return out, nil
}

// findMatch returns the smallest index j in [from, old.Len()) such that
// old.At(j) equals target, searching old's remaining chunks left to
// right so the first (smallest) qualifying index wins.
func findMatch(old *signature.SignatureSet, target signature.SignedChunk, from int) (int, bool) {
	for j := from; j < old.Len(); j++ {
		if old.At(j).Equal(target) {
			return j, true
		}
	}
	return 0, false
}

func addedRecord(chunk signature.SignedChunk, newFile *bytestream.ByteStream, collector metrics.MetricsCollector) (delta.Record, error) {
	raw, err := newFile.ReadChunkAt(chunk.Length, chunk.StartOffset)
	if err != nil {
		return delta.Record{}, err
	}
	collector.RecordBytesRead("new", int64(len(raw)))
	return delta.Record{Tag: delta.Added, Chunk: chunk, Payload: raw}, nil
}

func modifiedRecord(chunk signature.SignedChunk, oldFile, newFile *bytestream.ByteStream, collector metrics.MetricsCollector) (delta.Record, error) {
	oldBytes, err := oldFile.ReadChunkAt(chunk.Length, chunk.StartOffset)
	if err != nil {
		return delta.Record{}, err
	}
	collector.RecordBytesRead("old", int64(len(oldBytes)))
	newBytes, err := newFile.ReadChunkAt(chunk.Length, chunk.StartOffset)
	if err != nil {
		return delta.Record{}, err
	}
	collector.RecordBytesRead("new", int64(len(newBytes)))
	return delta.Record{Tag: delta.Modified, Chunk: chunk, Payload: bytediff.Script(oldBytes, newBytes)}, nil
}
