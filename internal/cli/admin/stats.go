package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/studyhub-ai/studyhub/internal/config"
	"github.com/studyhub-ai/studyhub/internal/database"
	"github.com/studyhub-ai/studyhub/internal/repository"
)

// StatsCmd returns the stats command
func StatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show index statistics",
		Long:  "Print chunk counts per source type and index job counts per status",
		RunE:  runStats,
	}

	cmd.Flags().Bool("json", false, "Output as JSON")

	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
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

	chunkRepo := repository.NewChunkRepository(pool)
	jobRepo := repository.NewIndexJobRepository(pool)

	chunks, err := chunkRepo.CountBySourceType(ctx)
	if err != nil {
		return fmt.Errorf("failed to count chunks: %w", err)
	}

	jobs, err := jobRepo.CountByStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to count jobs: %w", err)
	}

	outputJSON, _ := cmd.Flags().GetBool("json")
	if outputJSON {
		out := map[string]any{
			"chunks_by_source_type": chunks,
			"jobs_by_status":        jobs,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Println("Chunks by source type:")
	if len(chunks) == 0 {
		fmt.Println("  (none)")
	}
	for sourceType, count := range chunks {
		fmt.Printf("  %-10s %d\n", sourceType, count)
	}

	fmt.Println("Index jobs by status:")
	if len(jobs) == 0 {
		fmt.Println("  (none)")
	}
	for status, count := range jobs {
		fmt.Printf("  %-10s %d\n", status, count)
	}

	return nil
}
