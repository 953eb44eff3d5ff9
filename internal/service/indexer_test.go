package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/studyhub-ai/studyhub/internal/chunker"
	"github.com/studyhub-ai/studyhub/internal/domain"
)

type MockChunkStore struct {
	mock.Mock
}

func (m *MockChunkStore) ReplaceSourceChunks(ctx context.Context, sourceID string, sourceType domain.SourceType, chunks []domain.Chunk) error {
	args := m.Called(ctx, sourceID, sourceType, chunks)
	return args.Error(0)
}

func (m *MockChunkStore) FindBySource(ctx context.Context, sourceID string, sourceType domain.SourceType) ([]*domain.Chunk, error) {
	args := m.Called(ctx, sourceID, sourceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Chunk), args.Error(1)
}

func (m *MockChunkStore) DeleteBySource(ctx context.Context, sourceID string, sourceType domain.SourceType) error {
	args := m.Called(ctx, sourceID, sourceType)
	return args.Error(0)
}

// fixedEmbedder returns the same vector for every text.
type fixedEmbedder struct{}

func (fixedEmbedder) Embed(_ context.Context, _ string) []float32 {
	vec := make([]float32, domain.EmbeddingDimensions)
	for i := range vec {
		vec[i] = 0.5
	}
	return vec
}

func (f fixedEmbedder) EmbedBatch(ctx context.Context, texts []string) [][]float32 {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.Embed(ctx, texts[i])
	}
	return out
}

func newTestIndexer(store ChunkStore) *Indexer {
	return NewIndexer(chunker.DefaultConfig(), fixedEmbedder{}, store)
}

func TestIndexer_IndexSource_StoresChunks(t *testing.T) {
	store := new(MockChunkStore)
	store.On("ReplaceSourceChunks", mock.Anything, "course-1", domain.SourceTypeCourse, mock.Anything).Return(nil)

	indexer := newTestIndexer(store)
	meta := map[string]any{"title": "Algebra"}

	indexed, err := indexer.IndexSource(context.Background(), "course-1", domain.SourceTypeCourse, "Linear equations describe straight lines. Quadratic equations describe parabolas.", meta)
	require.NoError(t, err)
	assert.True(t, indexed)

	store.AssertExpectations(t)
	chunks := store.Calls[0].Arguments.Get(3).([]domain.Chunk)
	require.NotEmpty(t, chunks)
	for i, c := range chunks {
		assert.NotEmpty(t, c.ID)
		assert.Equal(t, "course-1", c.SourceID)
		assert.Equal(t, domain.SourceTypeCourse, c.SourceType)
		assert.Equal(t, i, c.ChunkIndex)
		assert.Len(t, c.Embedding, domain.EmbeddingDimensions)
		assert.Equal(t, "Algebra", c.Metadata["title"])
	}
}

func TestIndexer_IndexSource_EmptyTextWritesNothing(t *testing.T) {
	store := new(MockChunkStore)
	indexer := newTestIndexer(store)

	indexed, err := indexer.IndexSource(context.Background(), "course-1", domain.SourceTypeCourse, "   \n\t  ", nil)
	require.NoError(t, err)
	assert.False(t, indexed)

	store.AssertNotCalled(t, "ReplaceSourceChunks", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestIndexer_IndexSource_RejectsMissingSourceID(t *testing.T) {
	store := new(MockChunkStore)
	indexer := newTestIndexer(store)

	_, err := indexer.IndexSource(context.Background(), "", domain.SourceTypeCourse, "text", nil)
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeValidation, domainErr.Code)
}

func TestIndexer_IndexSource_RejectsInvalidSourceType(t *testing.T) {
	store := new(MockChunkStore)
	indexer := newTestIndexer(store)

	_, err := indexer.IndexSource(context.Background(), "x", domain.SourceType("webinar"), "text", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidSourceType)
}

func TestIndexer_IndexSource_PropagatesStoreError(t *testing.T) {
	store := new(MockChunkStore)
	store.On("ReplaceSourceChunks", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("db down"))

	indexer := newTestIndexer(store)
	_, err := indexer.IndexSource(context.Background(), "course-1", domain.SourceTypeCourse, "Some content worth indexing.", nil)
	assert.Error(t, err)
}

func TestIndexer_IndexSource_ReindexReplaces(t *testing.T) {
	store := new(MockChunkStore)
	store.On("ReplaceSourceChunks", mock.Anything, "upload-1", domain.SourceTypeUpload, mock.Anything).Return(nil).Twice()

	indexer := newTestIndexer(store)

	_, err := indexer.IndexSource(context.Background(), "upload-1", domain.SourceTypeUpload, "First revision of the notes.", nil)
	require.NoError(t, err)
	_, err = indexer.IndexSource(context.Background(), "upload-1", domain.SourceTypeUpload, "Second revision of the notes.", nil)
	require.NoError(t, err)

	store.AssertExpectations(t)
	first := store.Calls[0].Arguments.Get(3).([]domain.Chunk)
	second := store.Calls[1].Arguments.Get(3).([]domain.Chunk)
	assert.NotEqual(t, first[0].Text, second[0].Text)
}

func TestIndexer_DeleteSource(t *testing.T) {
	store := new(MockChunkStore)
	store.On("DeleteBySource", mock.Anything, "chapter-9", domain.SourceTypeChapter).Return(nil)

	indexer := newTestIndexer(store)
	require.NoError(t, indexer.DeleteSource(context.Background(), "chapter-9", domain.SourceTypeChapter))
	store.AssertExpectations(t)
}

func TestIndexer_IndexCourse_IndexesCourseAndChapters(t *testing.T) {
	store := new(MockChunkStore)
	store.On("ReplaceSourceChunks", mock.Anything, "c1", domain.SourceTypeCourse, mock.Anything).Return(nil)
	store.On("ReplaceSourceChunks", mock.Anything, "ch1", domain.SourceTypeChapter, mock.Anything).Return(nil)
	store.On("ReplaceSourceChunks", mock.Anything, "ch2", domain.SourceTypeChapter, mock.Anything).Return(nil)

	indexer := newTestIndexer(store)
	course := &domain.Course{ID: "c1", OwnerID: "u1", Title: "Go basics", Description: "An introduction.", Level: domain.CourseLevelBeginner}
	chapters := []*domain.Chapter{
		{ID: "ch1", CourseID: "c1", Title: "Syntax", Content: "Go programs start in package main."},
		{ID: "ch2", CourseID: "c1", Title: "Types", Content: "Go is statically typed."},
	}

	require.NoError(t, indexer.IndexCourse(context.Background(), course, chapters))
	store.AssertExpectations(t)
}

func TestBuildCourseContent(t *testing.T) {
	course := &domain.Course{Title: "Go basics", Description: "An introduction.", Outline: "1. Syntax\n2. Types"}
	content := BuildCourseContent(course)

	assert.Contains(t, content, "Title: Go basics")
	assert.Contains(t, content, "Description: An introduction.")
	assert.Contains(t, content, "Outline: 1. Syntax")

	assert.Equal(t, "Title: Only", BuildCourseContent(&domain.Course{Title: "Only"}))
}
