package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_CollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "one two three", Normalize("one\t two\n\n  three"))
}

func TestNormalize_StripsUnsupportedCharacters(t *testing.T) {
	assert.Equal(t, "price 100, rating 5!", Normalize("price #100, rating ★5!"))
	assert.Equal(t, "keep (this) - and 'that'", Normalize("keep (this) - and 'that'"))
}

func TestNormalize_EmptyInput(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("   \n\t  "))
}

func TestSplitSentences_TerminalPunctuation(t *testing.T) {
	sentences := SplitSentences("First sentence. Second one! Third?? Fourth")
	assert.Equal(t, []string{"First sentence", "Second one", "Third", "Fourth"}, sentences)
}

func TestSplitSentences_DropsEmptyFragments(t *testing.T) {
	sentences := SplitSentences("One... Two. . !")
	assert.Equal(t, []string{"One", "Two"}, sentences)
}

func TestSplitSentences_StaysNaive(t *testing.T) {
	// Abbreviations and decimals are split too; chunk boundaries rely on
	// this behavior staying stable.
	sentences := SplitSentences("Dr. Smith scored 3.5 points")
	assert.Equal(t, []string{"Dr", "Smith scored 3", "5 points"}, sentences)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, Config{ChunkSize: 0, Overlap: 0}.Validate())
	assert.Error(t, Config{ChunkSize: 100, Overlap: 100}.Validate())
	assert.Error(t, Config{ChunkSize: 100, Overlap: -1}.Validate())
}

func TestChunk_ShortTextSingleChunk(t *testing.T) {
	c := New(DefaultConfig())
	chunks := c.Chunk("A short course description. Nothing more.", map[string]any{"title": "Intro"})

	require.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].ChunkIndex)
	assert.Equal(t, "A short course description. Nothing more.", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].StartPos)
	assert.Equal(t, len(chunks[0].Text), chunks[0].EndPos)
	assert.Equal(t, 6, chunks[0].WordCount)
	assert.Equal(t, "Intro", chunks[0].Metadata["title"])
}

func TestChunk_EmptyInput(t *testing.T) {
	c := New(DefaultConfig())
	assert.Nil(t, c.Chunk("", nil))
	assert.Nil(t, c.Chunk("  \n ", nil))
	assert.Nil(t, c.Chunk("§§§", nil))
}

// buildSentences produces text of roughly n characters made of uniform
// sentences so boundary behavior is predictable.
func buildSentences(n int) string {
	var b strings.Builder
	i := 0
	for b.Len() < n {
		fmt.Fprintf(&b, "sentence number %04d has a fixed width body here. ", i)
		i++
	}
	return b.String()
}

func TestChunk_LongTextProducesMultipleChunks(t *testing.T) {
	c := New(Config{ChunkSize: 1000, Overlap: 200})
	text := buildSentences(1500)

	chunks := c.Chunk(text, nil)
	require.Equal(t, 2, len(chunks))

	first := []rune(chunks[0].Text)
	tail := string(first[len(first)-200:])
	assert.True(t, strings.HasPrefix(chunks[1].Text, strings.TrimLeft(tail, " ")),
		"second chunk must start with the first chunk's trailing overlap")
}

func TestChunk_IndexesAreContiguous(t *testing.T) {
	c := New(Config{ChunkSize: 300, Overlap: 60})
	chunks := c.Chunk(buildSentences(2400), nil)

	require.Greater(t, len(chunks), 3)
	for i, ch := range chunks {
		assert.Equal(t, i, ch.ChunkIndex)
	}
}

func TestChunk_SizeBound(t *testing.T) {
	cfg := Config{ChunkSize: 300, Overlap: 60}
	c := New(cfg)
	text := buildSentences(3000)
	sentences := SplitSentences(Normalize(text))

	longest := 0
	for _, s := range sentences {
		if len(s) > longest {
			longest = len(s)
		}
	}

	for _, ch := range c.Chunk(text, nil) {
		assert.LessOrEqual(t, len(ch.Text), cfg.ChunkSize+cfg.Overlap+longest+2,
			"only a single oversized sentence may push a chunk over budget")
	}
}

func TestChunk_OverlapIsPrefixOfNextChunk(t *testing.T) {
	cfg := Config{ChunkSize: 400, Overlap: 100}
	c := New(cfg)
	chunks := c.Chunk(buildSentences(2000), nil)
	require.Greater(t, len(chunks), 1)

	for i := 0; i < len(chunks)-1; i++ {
		runes := []rune(chunks[i].Text)
		if len(runes) < cfg.Overlap {
			continue
		}
		tail := strings.TrimLeft(string(runes[len(runes)-cfg.Overlap:]), " ")
		assert.True(t, strings.HasPrefix(chunks[i+1].Text, tail),
			"chunk %d tail must prefix chunk %d", i, i+1)
	}
}

func TestChunk_CoverageNoDroppedSentences(t *testing.T) {
	c := New(Config{ChunkSize: 250, Overlap: 50})
	text := buildSentences(1800)
	chunks := c.Chunk(text, nil)

	all := strings.Join(collectTexts(chunks), " ")
	for _, sentence := range SplitSentences(Normalize(text)) {
		assert.Contains(t, all, sentence)
	}
}

func TestChunk_OversizedSentenceEmittedWhole(t *testing.T) {
	c := New(Config{ChunkSize: 50, Overlap: 10})
	long := strings.Repeat("word ", 30) // ~150 chars, no terminal punctuation
	chunks := c.Chunk("Short intro. "+long, nil)

	require.Greater(t, len(chunks), 1)
	last := chunks[len(chunks)-1]
	assert.Greater(t, len(last.Text), 50, "oversized sentence is not split further")
}

func TestChunk_MetadataCopiedPerChunk(t *testing.T) {
	meta := map[string]any{"course_id": "c-1", "tags": "algebra"}
	c := New(Config{ChunkSize: 300, Overlap: 60})
	chunks := c.Chunk(buildSentences(1200), meta)
	require.Greater(t, len(chunks), 1)

	chunks[0].Metadata["course_id"] = "mutated"
	assert.Equal(t, "c-1", chunks[1].Metadata["course_id"], "metadata maps must not alias")
	assert.Equal(t, "c-1", meta["course_id"], "caller's map must not be mutated")
}

func TestChunk_WordCountMatchesText(t *testing.T) {
	c := New(DefaultConfig())
	chunks := c.Chunk("Counting words in this chunk.", nil)
	require.Len(t, chunks, 1)
	assert.Equal(t, len(strings.Fields(chunks[0].Text)), chunks[0].WordCount)
}

func collectTexts(chunks []Candidate) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}
