package chunk_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modo/internal/infra/chunk"
)

func TestSplit_ShortTextIsSingleChunk(t *testing.T) {
	text := "A short article about a local bakery opening downtown."
	chunks := chunk.Split(text, chunk.DefaultParams)

	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0].Text)
	assert.Equal(t, 0, chunks[0].ChunkIndex)
}

func TestSplit_EmptyTextProducesNoChunks(t *testing.T) {
	assert.Empty(t, chunk.Split("", chunk.DefaultParams))
	assert.Empty(t, chunk.Split("   \n\t  ", chunk.DefaultParams))
}

func TestSplit_LongTextProducesOverlappingChunks(t *testing.T) {
	sentence := "This is a sentence about the news of the day. "
	text := strings.Repeat(sentence, 60) // well over max=1200 chars

	chunks := chunk.Split(text, chunk.DefaultParams)
	require.Greater(t, len(chunks), 1)

	for i, c := range chunks {
		assert.Equal(t, i, c.ChunkIndex)
		assert.NotEmpty(t, c.Text)
		assert.LessOrEqual(t, len(c.Text), chunk.DefaultParams.Max)
	}

	// consecutive chunks overlap: the tail of chunk i reappears near the
	// head of chunk i+1 because the cursor rewinds by overlap chars.
	for i := 0; i < len(chunks)-1; i++ {
		assert.Less(t, chunks[i].StartPos, chunks[i+1].StartPos)
		assert.Less(t, chunks[i+1].StartPos, chunks[i].EndPos)
	}
}

func TestSplit_PrefersSentenceBoundaryOverHardBreak(t *testing.T) {
	// Build text where a sentence boundary sits inside the last-200-chars
	// search window of the first max-sized slice.
	head := strings.Repeat("word ", 190) // ~950 chars, past min=800
	text := head + "End of that thought. " + strings.Repeat("more filler text here. ", 40)

	chunks := chunk.Split(text, chunk.DefaultParams)
	require.NotEmpty(t, chunks)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(chunks[0].Text), "."))
}

func TestSplit_ForwardProgressGuaranteed(t *testing.T) {
	text := strings.Repeat("x", 5000)
	chunks := chunk.Split(text, chunk.DefaultParams)
	require.NotEmpty(t, chunks)
	for i := 1; i < len(chunks); i++ {
		assert.Greater(t, chunks[i].StartPos, chunks[i-1].StartPos)
	}
}
