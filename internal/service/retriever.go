package service

import (
	"context"
	"strings"

	"github.com/studyhub-ai/studyhub/internal/domain"
	"github.com/studyhub-ai/studyhub/internal/telemetry"
)

// DefaultContextLimit is the number of chunks concatenated into a context
// string when the caller does not specify a limit.
const DefaultContextLimit = 5

// ChunkFilter narrows a vector search. Empty fields match everything.
type ChunkFilter struct {
	SourceType domain.SourceType
	SourceID   string
}

// ChunkSearcher defines the repository interface for vector search.
type ChunkSearcher interface {
	Search(ctx context.Context, embedding []float32, filter ChunkFilter, limit int) ([]*domain.ChunkMatch, error)
}

// Scope restricts context retrieval to a single course or upload.
type Scope struct {
	CourseID string
	UploadID string
}

// Retriever serves retrieval-context queries over the chunk index.
type Retriever struct {
	embedder TextEmbedder
	searcher ChunkSearcher
}

func NewRetriever(embedder TextEmbedder, searcher ChunkSearcher) *Retriever {
	return &Retriever{
		embedder: embedder,
		searcher: searcher,
	}
}

// Search returns the top matching chunks for a query.
func (r *Retriever) Search(ctx context.Context, query string, filter ChunkFilter, limit int) ([]*domain.ChunkMatch, error) {
	ctx, span := telemetry.StartSpan(ctx, "Retriever.Search", telemetry.SpanAttributes{
		SourceID:   filter.SourceID,
		SourceType: string(filter.SourceType),
		Operation:  "search",
	})
	defer span.End()

	if strings.TrimSpace(query) == "" {
		return []*domain.ChunkMatch{}, nil
	}
	if limit <= 0 {
		limit = DefaultContextLimit
	}

	embedding := r.embedder.Embed(ctx, query)
	matches, err := r.searcher.Search(ctx, embedding, filter, limit)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return matches, nil
}

// GetRelevantContext retrieves the top chunks for a query and concatenates
// their text, blank-line separated, for prompt injection. A scoped course or
// upload narrows the search by source type and id. No matches yield an empty
// string, never an error.
func (r *Retriever) GetRelevantContext(ctx context.Context, query string, scope Scope, limit int) (string, error) {
	filter := ChunkFilter{}
	switch {
	case scope.CourseID != "":
		filter.SourceType = domain.SourceTypeCourse
		filter.SourceID = scope.CourseID
	case scope.UploadID != "":
		filter.SourceType = domain.SourceTypeUpload
		filter.SourceID = scope.UploadID
	}

	matches, err := r.Search(ctx, query, filter, limit)
	if err != nil {
		return "", err
	}

	texts := make([]string, 0, len(matches))
	for _, m := range matches {
		texts = append(texts, m.Text)
	}
	return strings.Join(texts, "\n\n"), nil
}
