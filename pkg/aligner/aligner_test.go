package aligner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deltasync/pkg/bytestream"
	"deltasync/pkg/chunker"
	"deltasync/pkg/delta"
	"deltasync/pkg/metrics"
	"deltasync/pkg/rollinghash"
	"deltasync/pkg/signature"
	"deltasync/pkg/strongdigest"
)

// signAndOpen writes contents to a fresh file, builds its SignatureSet
// with a small window/boundary mask so short fixtures still get multiple
// chunks, and returns the set plus a freshly reopened read-only stream
// positioned at the start (the chunker consumes the stream it signs, so
// a second handle is needed for the aligner's positioned reads).
func signAndOpen(t *testing.T, dir, name string, contents []byte) (*signature.SignatureSet, *bytestream.ByteStream) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, contents, 0o644))

	signStream, err := bytestream.Open(path, bytestream.ReadOnly)
	require.NoError(t, err)
	defer signStream.Close()

	set, err := chunker.Chunk(context.Background(), signStream, rollinghash.NewRabin(256, 4, 123009), strongdigest.Blake2b512{}, 0x3)
	require.NoError(t, err)

	readStream, err := bytestream.Open(path, bytestream.ReadOnly)
	require.NoError(t, err)

	return set, readStream
}

func TestAlignIdenticalFilesYieldsOnlyOriginal(t *testing.T) {
	dir := t.TempDir()
	contents := []byte("the quick brown fox jumps over the lazy dog, again and again")

	oldSet, oldStream := signAndOpen(t, dir, "old", contents)
	defer oldStream.Close()
	newSet, newStream := signAndOpen(t, dir, "new", contents)
	defer newStream.Close()

	stream, err := Align(oldSet, newSet, oldStream, newStream, metrics.NoopMetrics{})
	require.NoError(t, err)

	require.NotEmpty(t, stream)
	for _, rec := range stream {
		assert.Equal(t, delta.Original, rec.Tag)
		assert.Empty(t, rec.Payload)
	}
}

func TestAlignAppendedTailYieldsOriginalThenAdded(t *testing.T) {
	dir := t.TempDir()
	base := []byte("the quick brown fox jumps over the lazy dog")
	appended := append(append([]byte(nil), base...), []byte(" and a bit more text at the tail")...)

	oldSet, oldStream := signAndOpen(t, dir, "old", base)
	defer oldStream.Close()
	newSet, newStream := signAndOpen(t, dir, "new", appended)
	defer newStream.Close()

	stream, err := Align(oldSet, newSet, oldStream, newStream, metrics.NoopMetrics{})
	require.NoError(t, err)
	require.NotEmpty(t, stream)

	seenAdded := false
	for _, rec := range stream {
		if rec.Tag == delta.Added {
			seenAdded = true
			assert.NotEmpty(t, rec.Payload)
			continue
		}
		assert.False(t, seenAdded, "an ORIGINAL record must not follow an ADDED one for a pure tail append")
		assert.Equal(t, delta.Original, rec.Tag)
	}
	assert.True(t, seenAdded)
}

func TestAlignTruncatedNewYieldsTrailingRemoved(t *testing.T) {
	dir := t.TempDir()
	full := []byte("the quick brown fox jumps over the lazy dog and then some more")
	prefix := full[:20]

	oldSet, oldStream := signAndOpen(t, dir, "old", full)
	defer oldStream.Close()
	newSet, newStream := signAndOpen(t, dir, "new", prefix)
	defer newStream.Close()

	stream, err := Align(oldSet, newSet, oldStream, newStream, metrics.NoopMetrics{})
	require.NoError(t, err)
	require.NotEmpty(t, stream)

	assert.Equal(t, delta.Removed, stream[len(stream)-1].Tag)
}

func TestAlignEmptyFilesYieldsEmptyStream(t *testing.T) {
	dir := t.TempDir()
	oldSet, oldStream := signAndOpen(t, dir, "old", nil)
	defer oldStream.Close()
	newSet, newStream := signAndOpen(t, dir, "new", nil)
	defer newStream.Close()

	stream, err := Align(oldSet, newSet, oldStream, newStream, metrics.NoopMetrics{})
	require.NoError(t, err)
	assert.Empty(t, stream)
}

func TestAlignCoverageMatchesNewFileLength(t *testing.T) {
	dir := t.TempDir()
	oldData := []byte("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	newData := []byte("aaaaaaaaaaaaaaaZZZZZZaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

	oldSet, oldStream := signAndOpen(t, dir, "old", oldData)
	defer oldStream.Close()
	newSet, newStream := signAndOpen(t, dir, "new", newData)
	defer newStream.Close()

	stream, err := Align(oldSet, newSet, oldStream, newStream, metrics.NoopMetrics{})
	require.NoError(t, err)

	var covered int
	for _, rec := range stream {
		if rec.Tag == delta.Original || rec.Tag == delta.Added || rec.Tag == delta.Modified {
			covered += rec.Chunk.Length
		}
	}
	assert.Equal(t, len(newData), covered)
}
