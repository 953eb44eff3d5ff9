package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// SearchRequest represents the search API request.
type SearchRequest struct {
	Query      string `json:"query"`
	SourceType string `json:"source_type,omitempty"`
	SourceID   string `json:"source_id,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

// SearchResult represents a single ranked chunk.
type SearchResult struct {
	ChunkID    string  `json:"chunk_id"`
	SourceID   string  `json:"source_id"`
	SourceType string  `json:"source_type"`
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Score      float32 `json:"score"`
}

// SearchResponse represents the search API response.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

// SearchCmd creates the search command.
func SearchCmd() *cobra.Command {
	var (
		sourceType string
		sourceID   string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search indexed material",
		Long:  "Searches indexed chunks by embedding similarity.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args[0], sourceType, sourceID, limit)
		},
	}

	cmd.Flags().StringVarP(&sourceType, "type", "t", "", "Filter by source type (course, chapter or upload)")
	cmd.Flags().StringVar(&sourceID, "source", "", "Filter by source ID")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of results")

	return cmd
}

func runSearch(cmd *cobra.Command, query, sourceType, sourceID string, limit int) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Post("/search", SearchRequest{
		Query:      query,
		SourceType: sourceType,
		SourceID:   sourceID,
		Limit:      limit,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	var searchResp SearchResponse
	if err := json.Unmarshal(resp.Data, &searchResp); err != nil {
		return fmt.Errorf("failed to parse search results: %w", err)
	}

	outputJSON, _ := cmd.Flags().GetBool("output")
	if outputJSON {
		out, _ := json.MarshalIndent(searchResp, "", "  ")
		fmt.Println(string(out))
		return nil
	}

	if len(searchResp.Results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("Found %d results:\n\n", len(searchResp.Results))
	for i, result := range searchResp.Results {
		text := strings.TrimSpace(result.Text)
		if len(text) > 200 {
			text = text[:197] + "..."
		}
		fmt.Printf("%d. [%s/%d] (%.3f)\n", i+1, result.SourceType, result.ChunkIndex, result.Score)
		fmt.Printf("   %s\n", text)
		fmt.Printf("   Source: %s\n", result.SourceID)
		if i < len(searchResp.Results)-1 {
			fmt.Println(strings.Repeat("-", 40))
		}
	}

	return nil
}

// ContextCmd creates the context command.
func ContextCmd() *cobra.Command {
	var (
		courseID string
		uploadID string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "context <query>",
		Short: "Fetch retrieval context for a query",
		Long:  "Prints the joined chunk context the chat pipeline would use for the query.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContext(cmd, args[0], courseID, uploadID, limit)
		},
	}

	cmd.Flags().StringVar(&courseID, "course", "", "Restrict to a course")
	cmd.Flags().StringVar(&uploadID, "upload", "", "Restrict to an upload")
	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Maximum number of chunks")

	return cmd
}

func runContext(cmd *cobra.Command, query, courseID, uploadID string, limit int) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Post("/context", map[string]any{
		"query":     query,
		"course_id": courseID,
		"upload_id": uploadID,
		"limit":     limit,
	})
	if err != nil {
		return fmt.Errorf("context request failed: %w", err)
	}

	var out struct {
		Context string `json:"context"`
	}
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if out.Context == "" {
		fmt.Println("No relevant material found.")
		return nil
	}
	fmt.Println(out.Context)
	return nil
}
