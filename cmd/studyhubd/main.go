package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/studyhub-ai/studyhub/internal/cli"
	"github.com/studyhub-ai/studyhub/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "studyhubd",
		Short: "Studyhub daemon and admin CLI",
		Long:  "Studyhub daemon for running the API server, the index worker and admin tasks",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.ReindexCmd())
	rootCmd.AddCommand(admin.StatsCmd())
	rootCmd.AddCommand(admin.UserCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
