package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/studyhub-ai/studyhub/internal/cli"
	"github.com/studyhub-ai/studyhub/internal/cli/client"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "studyhub",
		Short: "Studyhub CLI - course material search, chat and quizzes",
		Long: `Studyhub CLI talks to a studyhub API server.

Environment variables:
  STUDYHUB_API_TOKEN   Access token for authentication
  STUDYHUB_API_URL     API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("token", "", "Access token (overrides env and config)")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env and config)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.LoginCmd())
	rootCmd.AddCommand(client.LogoutCmd())
	rootCmd.AddCommand(client.WhoamiCmd())
	rootCmd.AddCommand(client.SearchCmd())
	rootCmd.AddCommand(client.ContextCmd())
	rootCmd.AddCommand(client.AskCmd())
	rootCmd.AddCommand(client.CourseCmd())
	rootCmd.AddCommand(client.UploadCmd())
	rootCmd.AddCommand(client.QuizCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
