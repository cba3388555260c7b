// Package delta defines the DeltaRecord data model produced by the
// aligner and consumed by the writer: a tagged stream of ORIGINAL,
// ADDED, MODIFIED, and REMOVED chunk records describing how to
// reconstruct a new file from an old one.
package delta

import "deltasync/pkg/signature"

// Tag classifies a DeltaRecord.
type Tag uint64

const (
	// Original marks a chunk shared verbatim between old and new files.
	// Carries no payload.
	Original Tag = iota
	// Added marks a chunk present only in the new file. Payload is the
	// chunk's raw bytes.
	Added
	// Modified marks a chunk whose content changed between the files at
	// the same logical position. Payload is a byte-diff script (see
	// pkg/bytediff).
	Modified
	// Removed marks an old-file chunk no longer present in the new file.
	// Carries no payload.
	Removed
)

// String renders the tag the way the CLI's `diff` output and the
// delta-record metric labels do.
func (t Tag) String() string {
	switch t {
	case Original:
		return "ORIGINAL"
	case Added:
		return "ADDED"
	case Modified:
		return "MODIFIED"
	case Removed:
		return "REMOVED"
	default:
		return "UNKNOWN"
	}
}

// Record is a single entry in the delta stream. Payload is meaningful
// only for Added and Modified; callers branch on Tag, never on whether
// Payload is nil. Payload's presence is wholly determined by Tag, not
// an independent signal.
type Record struct {
	Tag     Tag
	Chunk   signature.SignedChunk
	Payload []byte
}

// Stream is an ordered sequence of Records, the delta's in-memory form
// before (or instead of) being serialized by Writer. The reference
// pipeline holds the whole stream in memory; nothing prevents a caller
// from writing records as they're produced instead.
type Stream []Record
