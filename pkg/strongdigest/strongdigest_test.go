package strongdigest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlake2b512Deterministic(t *testing.T) {
	var d Blake2b512
	input := []byte("the quick brown fox jumps over the lazy dog")

	a := d.Digest(input)
	b := d.Digest(input)

	assert.Equal(t, a, b)
	assert.Equal(t, Size, d.OutputSize())
	assert.Equal(t, 64, len(a))
}

func TestBlake2b512DistinguishesInput(t *testing.T) {
	var d Blake2b512
	a := d.Digest([]byte("chunk a"))
	b := d.Digest([]byte("chunk b"))
	assert.NotEqual(t, a, b)
}

func TestBlake2b512EmptyInputIsDeterministic(t *testing.T) {
	var d Blake2b512
	a := d.Digest(nil)
	b := d.Digest([]byte{})
	assert.Equal(t, a, b)
}

func TestFormatDigest(t *testing.T) {
	var d Blake2b512
	raw := d.Digest([]byte("hello"))

	formatted := FormatDigest(raw)
	assert.True(t, strings.HasPrefix(string(formatted), "blake2b-512:"))
	assert.Equal(t, 128, len(formatted.Encoded()))
}

var _ StrongDigest = Blake2b512{}
