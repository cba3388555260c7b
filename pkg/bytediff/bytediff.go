// Package bytediff computes a minimal per-byte edit script between two
// byte ranges, used as the MODIFIED payload in a delta record stream.
package bytediff

import "deltasync/pkg/helper/errors"

var (
	errShortScript = errors.InvalidInputf("bytediff: truncated script")
	errUnknownTag  = errors.InvalidInputf("bytediff: unknown op tag")
)

// Tag identifies one byte-diff command.
type Tag byte

const (
	// Modify marks a byte that differs at Position; Value is the old
	// range's byte there.
	Modify Tag = 'M'
	// Remove drops the byte at Position from the old range (no value).
	Remove Tag = 'R'
	// Append inserts Value at the end, at the new range's Position.
	Append Tag = 'A'
)

// Op is a single edit command. Position is always encoded on the wire as
// four big-endian bytes, each masked to 8 bits so a position never
// aliases onto adjacent bytes regardless of host word size; Value is
// meaningful only for Modify and Append.
type Op struct {
	Tag      Tag
	Position uint32
	Value    byte
}

// Diff walks old and next in lockstep, emitting a Modify op for every
// byte position where they disagree, then Remove ops for old's
// remainder (if old is longer) or Append ops for next's remainder (if
// next is longer). The two ranges need not be the same length.
func Diff(old, next []byte) []Op {
	var ops []Op

	i, j := 0, 0
	for i < len(old) && j < len(next) {
		if old[i] != next[j] {
			ops = append(ops, Op{Tag: Modify, Position: uint32(i), Value: old[i]})
		}
		i++
		j++
	}

	for i < len(old) {
		ops = append(ops, Op{Tag: Remove, Position: uint32(i)})
		i++
	}

	for j < len(next) {
		ops = append(ops, Op{Tag: Append, Position: uint32(j), Value: next[j]})
		j++
	}

	return ops
}

// Encode serializes ops into the wire byte-diff script: 6 bytes per
// Modify/Append op (tag, 4-byte big-endian position, value), 5 bytes per
// Remove op (tag, 4-byte big-endian position).
func Encode(ops []Op) []byte {
	size := 0
	for _, op := range ops {
		if op.Tag == Remove {
			size += 5
		} else {
			size += 6
		}
	}

	out := make([]byte, 0, size)
	for _, op := range ops {
		out = append(out, byte(op.Tag),
			byte(op.Position>>24)&0xFF,
			byte(op.Position>>16)&0xFF,
			byte(op.Position>>8)&0xFF,
			byte(op.Position)&0xFF,
		)
		if op.Tag != Remove {
			out = append(out, op.Value)
		}
	}
	return out
}

// Script computes Diff(old, next) and returns its wire encoding directly;
// this is the form the delta writer consumes for a MODIFIED payload.
func Script(old, next []byte) []byte {
	return Encode(Diff(old, next))
}

// Decode parses a wire byte-diff script back into Ops. It is not needed
// by the producer pipeline but exists so tests (and any future applier)
// can verify Encode/Decode round-trip without re-deriving the wire
// format by hand.
func Decode(data []byte) ([]Op, error) {
	var ops []Op
	for i := 0; i < len(data); {
		tag := Tag(data[i])
		switch tag {
		case Modify, Append:
			if i+6 > len(data) {
				return nil, errShortScript
			}
			pos := decodePosition(data[i+1 : i+5])
			ops = append(ops, Op{Tag: tag, Position: pos, Value: data[i+5]})
			i += 6
		case Remove:
			if i+5 > len(data) {
				return nil, errShortScript
			}
			pos := decodePosition(data[i+1 : i+5])
			ops = append(ops, Op{Tag: tag, Position: pos})
			i += 5
		default:
			return nil, errUnknownTag
		}
	}
	return ops, nil
}

func decodePosition(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
