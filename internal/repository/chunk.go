package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/studyhub-ai/studyhub/internal/domain"
	"github.com/studyhub-ai/studyhub/internal/service"
)

// ChunkRepository persists embedded text chunks and serves vector search.
type ChunkRepository struct {
	pool *pgxpool.Pool
}

func NewChunkRepository(pool *pgxpool.Pool) *ChunkRepository {
	return &ChunkRepository{pool: pool}
}

// ReplaceSourceChunks deletes all chunks for a source and inserts the new
// generation inside one transaction, so readers never observe chunks from two
// indexing generations mixed for the same source.
func (r *ChunkRepository) ReplaceSourceChunks(ctx context.Context, sourceID string, sourceType domain.SourceType, chunks []domain.Chunk) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`DELETE FROM chunks WHERE source_id = $1 AND source_type = $2`,
		sourceID, sourceType,
	)
	if err != nil {
		return err
	}

	for _, c := range chunks {
		metadata, err := json.Marshal(c.Metadata)
		if err != nil {
			return err
		}
		createdAt := c.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO chunks
				(id, source_id, source_type, chunk_index, text, start_pos, end_pos, word_count, embedding, metadata, created_at)
			 VALUES
				($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			c.ID,
			sourceID,
			sourceType,
			c.ChunkIndex,
			c.Text,
			c.StartPos,
			c.EndPos,
			c.WordCount,
			pgvector.NewVector(c.Embedding),
			metadata,
			createdAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// FindBySource returns a source's chunks ordered by chunk index.
func (r *ChunkRepository) FindBySource(ctx context.Context, sourceID string, sourceType domain.SourceType) ([]*domain.Chunk, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, source_id, source_type, chunk_index, text, start_pos, end_pos, word_count, embedding, metadata, created_at
		 FROM chunks
		 WHERE source_id = $1 AND source_type = $2
		 ORDER BY chunk_index ASC`,
		sourceID, sourceType,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []*domain.Chunk
	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

// DeleteBySource removes all chunks for a source.
func (r *ChunkRepository) DeleteBySource(ctx context.Context, sourceID string, sourceType domain.SourceType) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM chunks WHERE source_id = $1 AND source_type = $2`,
		sourceID, sourceType,
	)
	return err
}

// Search ranks chunks by cosine similarity to the query embedding. Ties are
// broken by insertion order. An empty filter field matches everything.
func (r *ChunkRepository) Search(ctx context.Context, embedding []float32, filter service.ChunkFilter, limit int) ([]*domain.ChunkMatch, error) {
	if limit <= 0 {
		limit = 5
	}

	vec := pgvector.NewVector(embedding)

	rows, err := r.pool.Query(ctx,
		`SELECT id, source_id, source_type, chunk_index, text, start_pos, end_pos, word_count, embedding, metadata, created_at,
		        1.0 / (1.0 + (embedding <=> $1)) AS score
		 FROM chunks
		 WHERE ($2 = '' OR source_type = $2)
		   AND ($3 = '' OR source_id = $3)
		 ORDER BY embedding <=> $1 ASC, created_at ASC, chunk_index ASC
		 LIMIT $4`,
		vec, string(filter.SourceType), filter.SourceID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*domain.ChunkMatch
	for rows.Next() {
		m, err := scanChunkMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// CountBySourceType returns chunk counts grouped by source type, used by the
// admin stats command.
func (r *ChunkRepository) CountBySourceType(ctx context.Context) (map[domain.SourceType]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT source_type, COUNT(*) FROM chunks GROUP BY source_type`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.SourceType]int64)
	for rows.Next() {
		var sourceType string
		var count int64
		if err := rows.Scan(&sourceType, &count); err != nil {
			return nil, err
		}
		counts[domain.SourceType(sourceType)] = count
	}
	return counts, rows.Err()
}

func scanChunk(rows pgx.Rows) (*domain.Chunk, error) {
	var c domain.Chunk
	var vec pgvector.Vector
	var metadata []byte
	if err := rows.Scan(&c.ID, &c.SourceID, &c.SourceType, &c.ChunkIndex, &c.Text,
		&c.StartPos, &c.EndPos, &c.WordCount, &vec, &metadata, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Embedding = vec.Slice()
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &c.Metadata); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

func scanChunkMatch(rows pgx.Rows) (*domain.ChunkMatch, error) {
	var m domain.ChunkMatch
	var vec pgvector.Vector
	var metadata []byte
	if err := rows.Scan(&m.ID, &m.SourceID, &m.SourceType, &m.ChunkIndex, &m.Text,
		&m.StartPos, &m.EndPos, &m.WordCount, &vec, &metadata, &m.CreatedAt, &m.Score); err != nil {
		return nil, err
	}
	m.Embedding = vec.Slice()
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &m.Metadata); err != nil {
			return nil, err
		}
	}
	return &m, nil
}
