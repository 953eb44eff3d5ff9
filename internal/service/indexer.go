package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/studyhub-ai/studyhub/internal/chunker"
	"github.com/studyhub-ai/studyhub/internal/domain"
	"github.com/studyhub-ai/studyhub/internal/telemetry"
)

// ChunkStore defines the repository interface for the document index.
type ChunkStore interface {
	ReplaceSourceChunks(ctx context.Context, sourceID string, sourceType domain.SourceType, chunks []domain.Chunk) error
	FindBySource(ctx context.Context, sourceID string, sourceType domain.SourceType) ([]*domain.Chunk, error)
	DeleteBySource(ctx context.Context, sourceID string, sourceType domain.SourceType) error
}

// TextEmbedder produces fixed-length vectors and never fails.
type TextEmbedder interface {
	Embed(ctx context.Context, text string) []float32
	EmbedBatch(ctx context.Context, texts []string) [][]float32
}

// Indexer runs the chunk-embed-store pipeline for courses, chapters and
// uploads.
type Indexer struct {
	chunker  *chunker.Chunker
	embedder TextEmbedder
	store    ChunkStore
	uuidGen  UUIDGenerator

	// locks serializes reindexing per (sourceID, sourceType) so two
	// concurrent reindex calls for the same source cannot interleave their
	// delete-then-insert sequences.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewIndexer creates an Indexer with the given chunking configuration.
func NewIndexer(cfg chunker.Config, embedder TextEmbedder, store ChunkStore) *Indexer {
	return &Indexer{
		chunker:  chunker.New(cfg),
		embedder: embedder,
		store:    store,
		uuidGen:  &DefaultUUIDGenerator{},
		locks:    make(map[string]*sync.Mutex),
	}
}

// IndexSource chunks rawText, embeds every chunk and replaces the source's
// chunks in the index. It returns false without writing anything when the
// text normalizes to empty. Persistence errors propagate to the caller.
func (s *Indexer) IndexSource(ctx context.Context, sourceID string, sourceType domain.SourceType, rawText string, metadata map[string]any) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "Indexer.IndexSource", telemetry.SpanAttributes{
		SourceID:   sourceID,
		SourceType: string(sourceType),
		Operation:  "index",
	})
	defer span.End()

	if sourceID == "" {
		return false, domain.NewDomainError(domain.ErrCodeValidation, "source ID is required")
	}
	if !domain.IsValidSourceType(sourceType) {
		return false, domain.ErrInvalidSourceType
	}

	candidates := s.chunker.Chunk(rawText, metadata)
	if len(candidates) == 0 {
		return false, nil
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Text
	}
	embeddings := s.embedder.EmbedBatch(ctx, texts)

	createdAt := time.Now().UTC()
	chunks := make([]domain.Chunk, len(candidates))
	for i, c := range candidates {
		chunk := domain.Chunk{
			ID:         s.uuidGen.NewString(),
			SourceID:   sourceID,
			SourceType: sourceType,
			ChunkIndex: c.ChunkIndex,
			Text:       c.Text,
			StartPos:   c.StartPos,
			EndPos:     c.EndPos,
			WordCount:  c.WordCount,
			Embedding:  embeddings[i],
			Metadata:   c.Metadata,
			CreatedAt:  createdAt,
		}
		if err := domain.ValidateChunk(&chunk); err != nil {
			return false, err
		}
		chunks[i] = chunk
	}

	unlock := s.lockSource(sourceID, sourceType)
	defer unlock()

	if err := s.store.ReplaceSourceChunks(ctx, sourceID, sourceType, chunks); err != nil {
		span.SetError(err)
		return false, fmt.Errorf("failed to replace chunks for %s %s: %w", sourceType, sourceID, err)
	}
	return true, nil
}

// DeleteSource removes a source's chunks. Callers cascade this when the
// source entity itself is deleted.
func (s *Indexer) DeleteSource(ctx context.Context, sourceID string, sourceType domain.SourceType) error {
	unlock := s.lockSource(sourceID, sourceType)
	defer unlock()
	return s.store.DeleteBySource(ctx, sourceID, sourceType)
}

// IndexCourse indexes a course's own material (title, description, outline)
// and each of its chapters as separate sources.
func (s *Indexer) IndexCourse(ctx context.Context, course *domain.Course, chapters []*domain.Chapter) error {
	content := BuildCourseContent(course)
	meta := map[string]any{
		"course_id": course.ID,
		"title":     course.Title,
		"level":     string(course.Level),
		"tags":      strings.Join(course.Tags, ","),
	}
	if _, err := s.IndexSource(ctx, course.ID, domain.SourceTypeCourse, content, meta); err != nil {
		return err
	}

	for _, ch := range chapters {
		if _, err := s.IndexChapter(ctx, ch); err != nil {
			return err
		}
	}
	return nil
}

// IndexChapter indexes a single chapter's content.
func (s *Indexer) IndexChapter(ctx context.Context, ch *domain.Chapter) (bool, error) {
	meta := map[string]any{
		"course_id": ch.CourseID,
		"title":     ch.Title,
		"position":  ch.Position,
	}
	return s.IndexSource(ctx, ch.ID, domain.SourceTypeChapter, ch.Content, meta)
}

// IndexUpload indexes an upload's extracted text.
func (s *Indexer) IndexUpload(ctx context.Context, upload *domain.Upload) (bool, error) {
	meta := map[string]any{
		"upload_id": upload.ID,
		"filename":  upload.Filename,
		"file_type": upload.ContentType,
		"user_id":   upload.UserID,
	}
	return s.IndexSource(ctx, upload.ID, domain.SourceTypeUpload, upload.ExtractedText, meta)
}

// BuildCourseContent combines a course's searchable fields the same way the
// index and the reindex command do.
func BuildCourseContent(course *domain.Course) string {
	var parts []string
	if course.Title != "" {
		parts = append(parts, "Title: "+course.Title)
	}
	if course.Description != "" {
		parts = append(parts, "Description: "+course.Description)
	}
	if course.Outline != "" {
		parts = append(parts, "Outline: "+course.Outline)
	}
	return strings.Join(parts, "\n\n")
}

func (s *Indexer) lockSource(sourceID string, sourceType domain.SourceType) func() {
	key := string(sourceType) + ":" + sourceID

	s.mu.Lock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
