package chunker

import (
	"fmt"
	"strings"
)

// Config controls chunk sizing. ChunkSize and Overlap are pipeline-wide
// settings, not per-call parameters.
type Config struct {
	ChunkSize int
	Overlap   int
}

// DefaultConfig provides the standard chunk sizing.
func DefaultConfig() Config {
	return Config{
		ChunkSize: 1000,
		Overlap:   200,
	}
}

// Validate checks the sizing invariants.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("overlap cannot be negative, got %d", c.Overlap)
	}
	if c.Overlap >= c.ChunkSize {
		return fmt.Errorf("overlap (%d) must be smaller than chunk size (%d)", c.Overlap, c.ChunkSize)
	}
	return nil
}

// Candidate is a chunk before embedding and persistence.
type Candidate struct {
	Text       string
	ChunkIndex int
	StartPos   int
	EndPos     int
	WordCount  int
	Metadata   map[string]any
}

// Chunker packs sentences into chunks according to its Config.
type Chunker struct {
	cfg Config
}

// New creates a Chunker, falling back to defaults for a zero Config.
func New(cfg Config) *Chunker {
	if cfg.ChunkSize <= 0 {
		cfg = DefaultConfig()
	}
	return &Chunker{cfg: cfg}
}

// Chunk normalizes text and packs it into overlapping chunks. Each candidate
// carries its own copy of metadata. A nil slice is returned for input that
// normalizes to empty.
//
// Sentences are accumulated greedily with ". " re-appended. When adding a
// sentence would push the buffer past ChunkSize, the buffer is flushed and
// the next buffer is seeded with the flushed chunk's trailing Overlap
// characters. A single sentence longer than ChunkSize is emitted as its own
// oversized chunk rather than split further.
func (c *Chunker) Chunk(text string, metadata map[string]any) []Candidate {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}

	if runeLen(normalized) <= c.cfg.ChunkSize {
		return []Candidate{{
			Text:       normalized,
			ChunkIndex: 0,
			StartPos:   0,
			EndPos:     runeLen(normalized),
			WordCount:  countWords(normalized),
			Metadata:   copyMetadata(metadata),
		}}
	}

	sentences := SplitSentences(normalized)

	var chunks []Candidate
	var buf string
	start := 0
	index := 0

	flush := func(seed string) {
		chunkText := strings.TrimSpace(buf)
		if chunkText == "" {
			buf = seed
			return
		}
		chunks = append(chunks, Candidate{
			Text:       chunkText,
			ChunkIndex: index,
			StartPos:   start,
			EndPos:     start + runeLen(chunkText),
			WordCount:  countWords(chunkText),
			Metadata:   copyMetadata(metadata),
		})
		advance := runeLen(chunkText)
		if c.cfg.Overlap > 0 && advance > c.cfg.Overlap {
			advance -= c.cfg.Overlap
		}
		start += advance
		index++
		buf = seed
	}

	for _, sentence := range sentences {
		withSentence := buf + sentence + ". "
		if runeLen(withSentence) <= c.cfg.ChunkSize {
			buf = withSentence
			continue
		}
		if buf == "" {
			// Oversized single sentence: emit as its own chunk.
			buf = sentence + ". "
			flush("")
			continue
		}
		seed := c.overlapTail(strings.TrimSpace(buf))
		if seed != "" {
			seed += " "
		}
		flush(seed + sentence + ". ")
	}

	if strings.TrimSpace(buf) != "" {
		flush("")
	}

	return chunks
}

// overlapTail returns the trailing Overlap characters of a flushed chunk,
// used to seed the next buffer.
func (c *Chunker) overlapTail(chunkText string) string {
	if c.cfg.Overlap <= 0 {
		return ""
	}
	runes := []rune(chunkText)
	if len(runes) <= c.cfg.Overlap {
		return chunkText
	}
	return string(runes[len(runes)-c.cfg.Overlap:])
}

func runeLen(s string) int {
	return len([]rune(s))
}

func countWords(s string) int {
	return len(strings.Fields(s))
}

func copyMetadata(metadata map[string]any) map[string]any {
	out := make(map[string]any, len(metadata))
	for k, v := range metadata {
		out[k] = v
	}
	return out
}
