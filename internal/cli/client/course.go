package client

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

type courseResponse struct {
	ID          string   `json:"id"`
	OwnerID     string   `json:"owner_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Level       string   `json:"level"`
	Tags        []string `json:"tags,omitempty"`
	CreatedAt   string   `json:"created_at"`
}

type courseListResponse struct {
	Courses []courseResponse `json:"courses"`
	Cursor  string           `json:"cursor,omitempty"`
	HasMore bool             `json:"has_more"`
}

type chapterResponse struct {
	ID       string `json:"id"`
	CourseID string `json:"course_id"`
	Title    string `json:"title"`
	Position int    `json:"position"`
}

// CourseCmd creates the course command group.
func CourseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "course",
		Short: "Manage courses",
		Long:  "Create, list and inspect courses and their chapters",
	}

	cmd.AddCommand(courseListCmd())
	cmd.AddCommand(courseCreateCmd())
	cmd.AddCommand(courseGetCmd())
	cmd.AddCommand(courseDeleteCmd())
	cmd.AddCommand(chapterAddCmd())

	return cmd
}

func courseListCmd() *cobra.Command {
	var (
		limit  int
		cursor string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your courses",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCourseList(cmd, limit, cursor)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of results")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor from previous response")

	return cmd
}

func runCourseList(cmd *cobra.Command, limit int, cursor string) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/courses?limit=%d", limit)
	if cursor != "" {
		path += "&cursor=" + cursor
	}

	resp, err := api.Get(path)
	if err != nil {
		return err
	}

	var list courseListResponse
	if err := json.Unmarshal(resp.Data, &list); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	outputJSON, _ := cmd.Flags().GetBool("output")
	if outputJSON {
		out, _ := json.MarshalIndent(list, "", "  ")
		fmt.Println(string(out))
		return nil
	}

	if len(list.Courses) == 0 {
		fmt.Println("No courses found.")
		return nil
	}

	fmt.Println("Courses:")
	for _, course := range list.Courses {
		line := fmt.Sprintf("  %s: %s [%s]", course.ID, course.Title, course.Level)
		if len(course.Tags) > 0 {
			line += " (" + strings.Join(course.Tags, ", ") + ")"
		}
		fmt.Println(line)
	}
	if list.HasMore && list.Cursor != "" {
		fmt.Printf("\nMore results available. Use --cursor %s\n", list.Cursor)
	}

	return nil
}

func courseCreateCmd() *cobra.Command {
	var (
		description string
		outline     string
		level       string
		tags        []string
	)

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCourseCreate(cmd, args[0], description, outline, level, tags)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Course description")
	cmd.Flags().StringVar(&outline, "outline", "", "Course outline text")
	cmd.Flags().StringVar(&level, "level", "", "Course level (beginner, intermediate or advanced)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag (repeatable)")

	return cmd
}

func runCourseCreate(cmd *cobra.Command, title, description, outline, level string, tags []string) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Post("/courses", map[string]any{
		"title":       title,
		"description": description,
		"outline":     outline,
		"level":       level,
		"tags":        tags,
	})
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	var course courseResponse
	if err := json.Unmarshal(resp.Data, &course); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Printf("Course created: %s (%s)\n", course.Title, course.ID)
	return nil
}

func courseGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a course and its chapters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCourseGet(cmd, args[0])
		},
	}
	return cmd
}

func runCourseGet(cmd *cobra.Command, id string) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Get("/courses/" + id)
	if err != nil {
		return err
	}

	var course courseResponse
	if err := json.Unmarshal(resp.Data, &course); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	chaptersResp, err := api.Get("/courses/" + id + "/chapters")
	if err != nil {
		return err
	}

	var chapters []chapterResponse
	if err := json.Unmarshal(chaptersResp.Data, &chapters); err != nil {
		return fmt.Errorf("failed to parse chapters: %w", err)
	}

	outputJSON, _ := cmd.Flags().GetBool("output")
	if outputJSON {
		out, _ := json.MarshalIndent(map[string]any{
			"course":   course,
			"chapters": chapters,
		}, "", "  ")
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("%s [%s]\n", course.Title, course.Level)
	if course.Description != "" {
		fmt.Printf("%s\n", course.Description)
	}
	fmt.Printf("ID: %s\n", course.ID)
	if len(chapters) > 0 {
		fmt.Println("\nChapters:")
		for _, ch := range chapters {
			fmt.Printf("  %d. %s (%s)\n", ch.Position, ch.Title, ch.ID)
		}
	}
	return nil
}

func courseDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			if _, err := api.Delete("/courses/" + args[0]); err != nil {
				return err
			}
			fmt.Println("Course deleted.")
			return nil
		},
	}
	return cmd
}

func chapterAddCmd() *cobra.Command {
	var (
		contentFile string
		position    int
	)

	cmd := &cobra.Command{
		Use:   "add-chapter <course-id> <title>",
		Short: "Add a chapter to a course",
		Long:  "Adds a chapter; content is read from --content-file or stdin.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChapterAdd(cmd, args[0], args[1], contentFile, position)
		},
	}

	cmd.Flags().StringVarP(&contentFile, "content-file", "f", "", "File containing the chapter content")
	cmd.Flags().IntVar(&position, "position", 0, "Chapter position within the course")

	return cmd
}

func runChapterAdd(cmd *cobra.Command, courseID, title, contentFile string, position int) error {
	var content []byte
	var err error
	if contentFile != "" {
		content, err = os.ReadFile(contentFile)
	} else {
		content, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}

	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Post("/courses/"+courseID+"/chapters", map[string]any{
		"title":    title,
		"content":  string(content),
		"position": position,
	})
	if err != nil {
		return fmt.Errorf("failed to add chapter: %w", err)
	}

	var chapter chapterResponse
	if err := json.Unmarshal(resp.Data, &chapter); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Printf("Chapter created: %s (%s)\n", chapter.Title, chapter.ID)
	return nil
}
