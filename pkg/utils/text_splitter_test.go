package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitText_ShortTextSingleChunk(t *testing.T) {
	chunks := SplitText("hello world", 100, 10)

	assert.Len(t, chunks, 1)
	assert.Equal(t, "hello world", chunks[0])
}

func TestSplitText_ChunksWithOverlap(t *testing.T) {
	text := strings.Repeat("a", 250)
	chunks := SplitText(text, 100, 20)

	assert.Len(t, chunks, 3)
	assert.Equal(t, 100, len(chunks[0]))
	assert.Equal(t, 100, len(chunks[1]))
	// last chunk is the remainder
	assert.Equal(t, 90, len(chunks[2]))
}

func TestSplitText_OverlapLargerThanChunkSize(t *testing.T) {
	text := strings.Repeat("b", 50)
	chunks := SplitText(text, 10, 15)

	// falls back to non-overlapping steps instead of looping forever
	assert.Len(t, chunks, 5)
}

func TestSplitText_Multibyte(t *testing.T) {
	text := strings.Repeat("ü", 30)
	chunks := SplitText(text, 10, 0)

	for _, c := range chunks {
		assert.Equal(t, 10, len([]rune(c)))
	}
}
