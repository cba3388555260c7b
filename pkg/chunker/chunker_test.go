package chunker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deltasync/pkg/bytestream"
	"deltasync/pkg/rollinghash"
	"deltasync/pkg/strongdigest"
)

func openFixture(t *testing.T, contents []byte) *bytestream.ByteStream {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture")
	require.NoError(t, os.WriteFile(path, contents, 0o644))
	bs, err := bytestream.Open(path, bytestream.ReadOnly)
	require.NoError(t, err)
	return bs
}

// pseudoRandom produces deterministic, non-repeating-enough bytes so the
// boundary mask actually fires more than once across a few hundred bytes.
func pseudoRandom(n int) []byte {
	buf := make([]byte, n)
	state := uint32(0x2545F491)
	for i := range buf {
		state = state*1664525 + 1013904223
		buf[i] = byte(state >> 24)
	}
	return buf
}

func TestChunkEmptyFileYieldsEmptySet(t *testing.T) {
	bs := openFixture(t, nil)
	defer bs.Close()

	set, err := Chunk(context.Background(), bs, rollinghash.NewDefaultRabin(), strongdigest.Blake2b512{}, 0x1FFF)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
	assert.Equal(t, int64(0), set.TotalBytes())
}

func TestChunkFileShorterThanWindowYieldsSingleChunkWithZeroFingerprint(t *testing.T) {
	data := pseudoRandom(20) // < default window size 48
	bs := openFixture(t, data)
	defer bs.Close()

	set, err := Chunk(context.Background(), bs, rollinghash.NewDefaultRabin(), strongdigest.Blake2b512{}, 0x1FFF)
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())

	chunk := set.At(0)
	assert.Equal(t, uint64(0), chunk.Fingerprint, "no roll occurs for a file shorter than the window")
	assert.Equal(t, len(data), chunk.Length)
	assert.Equal(t, int64(0), chunk.StartOffset)

	want := strongdigest.Blake2b512{}.Digest(data)
	assert.Equal(t, want, chunk.Digest)
}

func TestChunkCoversFileExactlyOnceContiguously(t *testing.T) {
	data := pseudoRandom(200000)
	bs := openFixture(t, data)
	defer bs.Close()

	set, err := Chunk(context.Background(), bs, rollinghash.NewDefaultRabin(), strongdigest.Blake2b512{}, 0x1FFF)
	require.NoError(t, err)
	require.Greater(t, set.Len(), 1, "200000 pseudo-random bytes at the default ~8KiB mean chunk size should reliably split into more than one chunk")

	assert.Equal(t, int64(len(data)), set.TotalBytes())

	var offset int64
	for i := 0; i < set.Len(); i++ {
		c := set.At(i)
		assert.Equal(t, offset, c.StartOffset, "chunk %d must start where the previous one ended", i)
		offset += int64(c.Length)
	}
	assert.Equal(t, int64(len(data)), offset)
}

func TestChunkBoundaryHoldsOnFinalTwoBytesExceptPossiblyLast(t *testing.T) {
	data := pseudoRandom(200000)
	bs := openFixture(t, data)
	defer bs.Close()

	set, err := Chunk(context.Background(), bs, rollinghash.NewDefaultRabin(), strongdigest.Blake2b512{}, 0x1FFF)
	require.NoError(t, err)
	require.Greater(t, set.Len(), 1)

	for i := 0; i < set.Len()-1; i++ {
		c := set.At(i)
		end := c.StartOffset + int64(c.Length)
		last := data[end-2]
		b := data[end-1]
		got := (uint64(last)<<8 | uint64(b)) & 0x1FFF
		assert.Equal(t, uint64(0), got, "chunk %d's closing two bytes must satisfy the boundary predicate", i)
	}
}

func TestChunkIsIdempotent(t *testing.T) {
	data := pseudoRandom(3000)

	bs1 := openFixture(t, data)
	defer bs1.Close()
	set1, err := Chunk(context.Background(), bs1, rollinghash.NewDefaultRabin(), strongdigest.Blake2b512{}, 0x1FFF)
	require.NoError(t, err)

	bs2 := openFixture(t, data)
	defer bs2.Close()
	set2, err := Chunk(context.Background(), bs2, rollinghash.NewDefaultRabin(), strongdigest.Blake2b512{}, 0x1FFF)
	require.NoError(t, err)

	require.Equal(t, set1.Len(), set2.Len())
	for i := 0; i < set1.Len(); i++ {
		assert.Equal(t, set1.At(i), set2.At(i))
	}
}

func TestChunkWithXXHashWeakHash(t *testing.T) {
	data := pseudoRandom(4000)
	bs := openFixture(t, data)
	defer bs.Close()

	set, err := Chunk(context.Background(), bs, rollinghash.NewXXHash(256, 48), strongdigest.Blake2b512{}, 0x1FFF)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), set.TotalBytes())
}
