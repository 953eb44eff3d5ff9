package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

type sessionResponse struct {
	ID       string `json:"id"`
	CourseID string `json:"course_id,omitempty"`
	UploadID string `json:"upload_id,omitempty"`
	Title    string `json:"title"`
	Mode     string `json:"mode"`
}

type messageResponse struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AskCmd creates the ask command.
func AskCmd() *cobra.Command {
	var (
		sessionID string
		courseID  string
		uploadID  string
		mode      string
	)

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question about indexed material",
		Long: `Sends a question to the chat endpoint and prints the answer.

Without --session a new chat session is created; pass --course or --upload
to scope the answer to that material. Use --session to continue an earlier
conversation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, args[0], sessionID, courseID, uploadID, mode)
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Existing chat session ID")
	cmd.Flags().StringVar(&courseID, "course", "", "Scope a new session to a course")
	cmd.Flags().StringVar(&uploadID, "upload", "", "Scope a new session to an upload")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Chat mode for a new session (strict or hybrid)")

	return cmd
}

func runAsk(cmd *cobra.Command, question, sessionID, courseID, uploadID, mode string) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	if sessionID == "" {
		resp, err := api.Post("/chat/sessions", map[string]any{
			"course_id": courseID,
			"upload_id": uploadID,
			"mode":      mode,
		})
		if err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}

		var session sessionResponse
		if err := json.Unmarshal(resp.Data, &session); err != nil {
			return fmt.Errorf("failed to parse session: %w", err)
		}
		sessionID = session.ID
		fmt.Printf("Session: %s (%s)\n\n", session.ID, session.Mode)
	}

	resp, err := api.Post("/chat/sessions/"+sessionID+"/messages", map[string]any{
		"content": question,
	})
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	var answer messageResponse
	if err := json.Unmarshal(resp.Data, &answer); err != nil {
		return fmt.Errorf("failed to parse answer: %w", err)
	}

	outputJSON, _ := cmd.Flags().GetBool("output")
	if outputJSON {
		out, _ := json.MarshalIndent(map[string]any{
			"session_id": sessionID,
			"answer":     answer.Content,
		}, "", "  ")
		fmt.Println(string(out))
		return nil
	}

	fmt.Println(answer.Content)
	return nil
}
