package client

import (
	"encoding/json"
	"fmt"
	"mime"
	"path/filepath"

	"github.com/spf13/cobra"
)

type uploadResponse struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// UploadCmd creates the upload command group.
func UploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Manage uploads",
		Long:  "Upload study material files and manage existing uploads",
	}

	cmd.AddCommand(uploadAddCmd())
	cmd.AddCommand(uploadListCmd())
	cmd.AddCommand(uploadDownloadCmd())
	cmd.AddCommand(uploadDeleteCmd())

	return cmd
}

func uploadAddCmd() *cobra.Command {
	var contentType string

	cmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Upload a file",
		Long:  "Uploads a file; text files are indexed for search and chat.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUploadAdd(cmd, args[0], contentType)
		},
	}

	cmd.Flags().StringVarP(&contentType, "type", "t", "", "Content type (guessed from the extension if omitted)")

	return cmd
}

func runUploadAdd(cmd *cobra.Command, filePath, contentType string) error {
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(filePath))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.PostFile("/uploads", filePath, contentType)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	var upload uploadResponse
	if err := json.Unmarshal(resp.Data, &upload); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Printf("Uploaded %s (%s, status: %s)\n", upload.Filename, upload.ID, upload.Status)
	if upload.Status == "failed" {
		fmt.Println("Note: this content type is stored but not indexed for search.")
	}
	return nil
}

func uploadListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your uploads",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUploadList(cmd)
		},
	}
	return cmd
}

func runUploadList(cmd *cobra.Command) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Get("/uploads")
	if err != nil {
		return err
	}

	var uploads []uploadResponse
	if err := json.Unmarshal(resp.Data, &uploads); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	outputJSON, _ := cmd.Flags().GetBool("output")
	if outputJSON {
		out, _ := json.MarshalIndent(uploads, "", "  ")
		fmt.Println(string(out))
		return nil
	}

	if len(uploads) == 0 {
		fmt.Println("No uploads found.")
		return nil
	}

	fmt.Println("Uploads:")
	for _, upload := range uploads {
		fmt.Printf("  %s: %s (%s, %d bytes, %s)\n",
			upload.ID, upload.Filename, upload.ContentType, upload.SizeBytes, upload.Status)
	}
	return nil
}

func uploadDownloadCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download <id>",
		Short: "Download an upload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUploadDownload(cmd, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output-file", "o", "", "Output path (defaults to the original filename)")

	return cmd
}

func runUploadDownload(cmd *cobra.Command, id, output string) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	if output == "" {
		resp, err := api.Get("/uploads/" + id)
		if err != nil {
			return err
		}
		var upload uploadResponse
		if err := json.Unmarshal(resp.Data, &upload); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		output = upload.Filename
	}

	if err := api.DownloadFile("/uploads/"+id+"/download", output); err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	fmt.Printf("Saved to %s\n", output)
	return nil
}

func uploadDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an upload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			if _, err := api.Delete("/uploads/" + args[0]); err != nil {
				return err
			}
			fmt.Println("Upload deleted.")
			return nil
		},
	}
	return cmd
}
