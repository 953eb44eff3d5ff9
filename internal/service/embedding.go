package service

import (
	"context"
	"log"

	"github.com/studyhub-ai/studyhub/internal/domain"
)

// EmbeddingClient defines the interface for generating embeddings
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// PlaceholderComponent is the value every component of a fallback vector is
// set to when the embedding backend is unavailable.
const PlaceholderComponent = 0.1

// Embedder converts text into fixed-length vectors. Failures never propagate:
// the embedder degrades to a deterministic placeholder vector so indexing and
// search can continue without the backend.
type Embedder struct {
	client     EmbeddingClient
	dimensions int
}

// NewEmbedder creates an Embedder. A nil client always yields placeholder
// vectors, mirroring a deployment without API credentials.
func NewEmbedder(client EmbeddingClient) *Embedder {
	return &Embedder{
		client:     client,
		dimensions: domain.EmbeddingDimensions,
	}
}

// Embed returns a vector of exactly the configured dimensionality. On any
// backend failure the placeholder vector is returned and the failure is
// logged.
func (e *Embedder) Embed(ctx context.Context, text string) []float32 {
	if e.client == nil {
		return e.placeholder()
	}

	embedding, err := e.client.GenerateEmbedding(ctx, text)
	if err != nil {
		log.Printf("embedding unavailable, using placeholder vector: %v", err)
		return e.placeholder()
	}
	if len(embedding) != e.dimensions {
		log.Printf("embedding has wrong dimensionality (%d), using placeholder vector", len(embedding))
		return e.placeholder()
	}
	return embedding
}

// EmbedBatch embeds each text independently, preserving order. A failure on
// one item does not affect the others.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) [][]float32 {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = e.Embed(ctx, text)
	}
	return embeddings
}

func (e *Embedder) placeholder() []float32 {
	vec := make([]float32, e.dimensions)
	for i := range vec {
		vec[i] = PlaceholderComponent
	}
	return vec
}
