package admin

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/studyhub-ai/studyhub/internal/chunker"
	"github.com/studyhub-ai/studyhub/internal/config"
	"github.com/studyhub-ai/studyhub/internal/database"
	"github.com/studyhub-ai/studyhub/internal/genai"
	"github.com/studyhub-ai/studyhub/internal/repository"
	"github.com/studyhub-ai/studyhub/internal/service"
)

// ReindexCmd returns the reindex command
func ReindexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the chunk index",
		Long:  "Re-chunk and re-embed every course, chapter and completed upload",
		RunE:  runReindex,
	}

	cmd.Flags().Bool("courses", true, "Reindex courses and chapters")
	cmd.Flags().Bool("uploads", true, "Reindex completed uploads")

	return cmd
}

func runReindex(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, 0)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	var embeddingClient service.EmbeddingClient
	if cfg.HasOpenAI() {
		embeddingClient = genai.NewClient(cfg.OpenAIAPIKey)
	} else {
		log.Println("warning: OPENAI_API_KEY not set, reindexing with placeholder embeddings")
	}

	chunkCfg := chunker.Config{ChunkSize: cfg.ChunkSize, Overlap: cfg.ChunkOverlap}
	if err := chunkCfg.Validate(); err != nil {
		return fmt.Errorf("invalid chunking config: %w", err)
	}

	courseRepo := repository.NewCourseRepository(pool)
	uploadRepo := repository.NewUploadRepository(pool)
	chunkRepo := repository.NewChunkRepository(pool)
	indexer := service.NewIndexer(chunkCfg, service.NewEmbedder(embeddingClient), chunkRepo)

	doCourses, _ := cmd.Flags().GetBool("courses")
	doUploads, _ := cmd.Flags().GetBool("uploads")

	if doCourses {
		courses, err := courseRepo.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to list courses: %w", err)
		}

		for _, course := range courses {
			chapters, err := courseRepo.ListChapters(ctx, course.ID)
			if err != nil {
				return fmt.Errorf("failed to list chapters for course %s: %w", course.ID, err)
			}
			if err := indexer.IndexCourse(ctx, course, chapters); err != nil {
				return fmt.Errorf("failed to index course %s: %w", course.ID, err)
			}
			log.Printf("reindexed course %s (%d chapters)", course.ID, len(chapters))
		}
		log.Printf("reindexed %d courses", len(courses))
	}

	if doUploads {
		uploads, err := uploadRepo.ListCompleted(ctx)
		if err != nil {
			return fmt.Errorf("failed to list uploads: %w", err)
		}

		indexed := 0
		for _, upload := range uploads {
			ok, err := indexer.IndexUpload(ctx, upload)
			if err != nil {
				return fmt.Errorf("failed to index upload %s: %w", upload.ID, err)
			}
			if ok {
				indexed++
			}
		}
		log.Printf("reindexed %d of %d uploads", indexed, len(uploads))
	}

	return nil
}
