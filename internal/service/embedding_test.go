package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/studyhub-ai/studyhub/internal/domain"
)

type MockEmbeddingClient struct {
	mock.Mock
}

func (m *MockEmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func validVector() []float32 {
	vec := make([]float32, domain.EmbeddingDimensions)
	for i := range vec {
		vec[i] = float32(i) / float32(domain.EmbeddingDimensions)
	}
	return vec
}

func TestEmbedder_Embed_Success(t *testing.T) {
	client := new(MockEmbeddingClient)
	want := validVector()
	client.On("GenerateEmbedding", mock.Anything, "hello").Return(want, nil)

	embedder := NewEmbedder(client)
	got := embedder.Embed(context.Background(), "hello")

	assert.Equal(t, want, got)
	client.AssertExpectations(t)
}

func TestEmbedder_Embed_FallsBackOnError(t *testing.T) {
	client := new(MockEmbeddingClient)
	client.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(nil, errors.New("backend down"))

	embedder := NewEmbedder(client)
	got := embedder.Embed(context.Background(), "hello")

	assert.Len(t, got, domain.EmbeddingDimensions)
	for _, v := range got {
		assert.Equal(t, float32(PlaceholderComponent), v)
	}
}

func TestEmbedder_Embed_FallsBackOnWrongDimensions(t *testing.T) {
	client := new(MockEmbeddingClient)
	client.On("GenerateEmbedding", mock.Anything, mock.Anything).Return([]float32{1, 2, 3}, nil)

	embedder := NewEmbedder(client)
	got := embedder.Embed(context.Background(), "hello")

	assert.Len(t, got, domain.EmbeddingDimensions)
	assert.Equal(t, float32(PlaceholderComponent), got[0])
}

func TestEmbedder_Embed_NilClient(t *testing.T) {
	embedder := NewEmbedder(nil)
	got := embedder.Embed(context.Background(), "hello")

	assert.Len(t, got, domain.EmbeddingDimensions)
	for _, v := range got {
		assert.Equal(t, float32(PlaceholderComponent), v)
	}
}

func TestEmbedder_EmbedBatch_IsolatesFailures(t *testing.T) {
	client := new(MockEmbeddingClient)
	want := validVector()
	client.On("GenerateEmbedding", mock.Anything, "good").Return(want, nil)
	client.On("GenerateEmbedding", mock.Anything, "bad").Return(nil, errors.New("boom"))

	embedder := NewEmbedder(client)
	got := embedder.EmbedBatch(context.Background(), []string{"good", "bad", "good"})

	assert.Len(t, got, 3)
	assert.Equal(t, want, got[0])
	assert.Equal(t, float32(PlaceholderComponent), got[1][0])
	assert.Equal(t, want, got[2])
}

func TestEmbedder_EmbedBatch_Empty(t *testing.T) {
	embedder := NewEmbedder(nil)
	got := embedder.EmbedBatch(context.Background(), nil)
	assert.Empty(t, got)
}
