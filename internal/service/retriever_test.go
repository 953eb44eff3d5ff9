package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/studyhub-ai/studyhub/internal/domain"
)

type MockChunkSearcher struct {
	mock.Mock
}

func (m *MockChunkSearcher) Search(ctx context.Context, embedding []float32, filter ChunkFilter, limit int) ([]*domain.ChunkMatch, error) {
	args := m.Called(ctx, embedding, filter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ChunkMatch), args.Error(1)
}

func match(text string, score float32) *domain.ChunkMatch {
	return &domain.ChunkMatch{
		Chunk: domain.Chunk{Text: text},
		Score: score,
	}
}

func TestRetriever_Search_EmptyQuery(t *testing.T) {
	searcher := new(MockChunkSearcher)
	retriever := NewRetriever(fixedEmbedder{}, searcher)

	matches, err := retriever.Search(context.Background(), "   ", ChunkFilter{}, 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
	searcher.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRetriever_Search_DefaultsLimit(t *testing.T) {
	searcher := new(MockChunkSearcher)
	searcher.On("Search", mock.Anything, mock.Anything, ChunkFilter{}, DefaultContextLimit).
		Return([]*domain.ChunkMatch{match("a", 0.9)}, nil)

	retriever := NewRetriever(fixedEmbedder{}, searcher)
	matches, err := retriever.Search(context.Background(), "what is a derivative", ChunkFilter{}, 0)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
	searcher.AssertExpectations(t)
}

func TestRetriever_GetRelevantContext_CourseScope(t *testing.T) {
	searcher := new(MockChunkSearcher)
	wantFilter := ChunkFilter{SourceType: domain.SourceTypeCourse, SourceID: "course-1"}
	searcher.On("Search", mock.Anything, mock.Anything, wantFilter, 3).
		Return([]*domain.ChunkMatch{match("first chunk", 0.9), match("second chunk", 0.8)}, nil)

	retriever := NewRetriever(fixedEmbedder{}, searcher)
	ctxText, err := retriever.GetRelevantContext(context.Background(), "query", Scope{CourseID: "course-1"}, 3)
	require.NoError(t, err)
	assert.Equal(t, "first chunk\n\nsecond chunk", ctxText)
	searcher.AssertExpectations(t)
}

func TestRetriever_GetRelevantContext_UploadScope(t *testing.T) {
	searcher := new(MockChunkSearcher)
	wantFilter := ChunkFilter{SourceType: domain.SourceTypeUpload, SourceID: "upload-7"}
	searcher.On("Search", mock.Anything, mock.Anything, wantFilter, DefaultContextLimit).
		Return([]*domain.ChunkMatch{match("notes", 0.7)}, nil)

	retriever := NewRetriever(fixedEmbedder{}, searcher)
	ctxText, err := retriever.GetRelevantContext(context.Background(), "query", Scope{UploadID: "upload-7"}, 0)
	require.NoError(t, err)
	assert.Equal(t, "notes", ctxText)
}

func TestRetriever_GetRelevantContext_NoMatches(t *testing.T) {
	searcher := new(MockChunkSearcher)
	searcher.On("Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*domain.ChunkMatch{}, nil)

	retriever := NewRetriever(fixedEmbedder{}, searcher)
	ctxText, err := retriever.GetRelevantContext(context.Background(), "query", Scope{}, 5)
	require.NoError(t, err)
	assert.Empty(t, ctxText)
}
