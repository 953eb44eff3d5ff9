package domain

import "time"

// SourceType discriminates which entity a chunk's SourceID refers to.
type SourceType string

const (
	SourceTypeCourse  SourceType = "course"
	SourceTypeChapter SourceType = "chapter"
	SourceTypeUpload  SourceType = "upload"
)

// EmbeddingDimensions is the fixed length of every stored embedding vector.
const EmbeddingDimensions = 768

// Chunk represents a bounded slice of normalized source text prepared for
// retrieval. Chunks are created only by indexing a source and replaced
// wholesale when the source is reindexed.
type Chunk struct {
	ID         string
	SourceID   string
	SourceType SourceType
	ChunkIndex int
	Text       string
	StartPos   int
	EndPos     int
	WordCount  int
	Embedding  []float32
	Metadata   map[string]any
	CreatedAt  time.Time
}

// ChunkMatch pairs a chunk with its similarity score from a vector search.
type ChunkMatch struct {
	Chunk
	Score float32
}

// ValidateChunk validates a Chunk instance before persistence.
func ValidateChunk(c *Chunk) error {
	if c == nil {
		return NewDomainError(ErrCodeValidation, "chunk cannot be nil")
	}
	if c.SourceID == "" {
		return NewDomainError(ErrCodeValidation, "chunk SourceID is required")
	}
	if !IsValidSourceType(c.SourceType) {
		return ErrInvalidSourceType
	}
	if c.ChunkIndex < 0 {
		return NewDomainError(ErrCodeValidation, "chunk ChunkIndex cannot be negative")
	}
	if c.Text == "" {
		return NewDomainError(ErrCodeValidation, "chunk Text cannot be empty")
	}
	if len(c.Embedding) != EmbeddingDimensions {
		return NewDomainError(ErrCodeValidation, "chunk Embedding has wrong dimensionality")
	}
	return nil
}

// IsValidSourceType checks if a SourceType is one of the known values.
func IsValidSourceType(t SourceType) bool {
	switch t {
	case SourceTypeCourse, SourceTypeChapter, SourceTypeUpload:
		return true
	}
	return false
}
