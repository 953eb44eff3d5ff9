package client

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

type quizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type quizResponse struct {
	ID        string         `json:"id"`
	CourseID  string         `json:"course_id"`
	Title     string         `json:"title"`
	Questions []quizQuestion `json:"questions"`
}

type submissionResponse struct {
	ID    string `json:"id"`
	Score int    `json:"score"`
	Total int    `json:"total"`
}

// QuizCmd creates the quiz command group.
func QuizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Generate and take quizzes",
		Long:  "Generate quizzes from course material and submit answers",
	}

	cmd.AddCommand(quizGenerateCmd())
	cmd.AddCommand(quizTakeCmd())

	return cmd
}

func quizGenerateCmd() *cobra.Command {
	var (
		title     string
		questions int
	)

	cmd := &cobra.Command{
		Use:   "generate <course-id>",
		Short: "Generate a quiz for a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuizGenerate(cmd, args[0], title, questions)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Quiz title")
	cmd.Flags().IntVarP(&questions, "questions", "n", 5, "Number of questions")

	return cmd
}

func runQuizGenerate(cmd *cobra.Command, courseID, title string, questions int) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Post("/quizzes", map[string]any{
		"course_id":      courseID,
		"title":          title,
		"question_count": questions,
	})
	if err != nil {
		return fmt.Errorf("failed to generate quiz: %w", err)
	}

	var quiz quizResponse
	if err := json.Unmarshal(resp.Data, &quiz); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Printf("Quiz created: %s (%s, %d questions)\n", quiz.Title, quiz.ID, len(quiz.Questions))
	return nil
}

func quizTakeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "take <quiz-id>",
		Short: "Take a quiz interactively",
		Long:  "Prints each question, reads answers from stdin and submits them for grading.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuizTake(cmd, args[0])
		},
	}
	return cmd
}

func runQuizTake(cmd *cobra.Command, quizID string) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Get("/quizzes/" + quizID)
	if err != nil {
		return err
	}

	var quiz quizResponse
	if err := json.Unmarshal(resp.Data, &quiz); err != nil {
		return fmt.Errorf("failed to parse quiz: %w", err)
	}

	if len(quiz.Questions) == 0 {
		return fmt.Errorf("quiz %s has no questions", quizID)
	}

	fmt.Printf("%s\n\n", quiz.Title)

	reader := bufio.NewReader(os.Stdin)
	answers := make([]int, 0, len(quiz.Questions))
	for i, q := range quiz.Questions {
		fmt.Printf("%d. %s\n", i+1, q.Question)
		for j, opt := range q.Options {
			fmt.Printf("   %d) %s\n", j+1, opt)
		}

		answer := -1
		for answer < 0 {
			fmt.Printf("Answer [1-%d]: ", len(q.Options))
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read answer: %w", err)
			}
			n, err := strconv.Atoi(strings.TrimSpace(line))
			if err == nil && n >= 1 && n <= len(q.Options) {
				answer = n - 1
			}
		}
		answers = append(answers, answer)
		fmt.Println()
	}

	submitResp, err := api.Post("/quizzes/"+quizID+"/submissions", map[string]any{
		"answers": answers,
	})
	if err != nil {
		return fmt.Errorf("failed to submit answers: %w", err)
	}

	var result submissionResponse
	if err := json.Unmarshal(submitResp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse result: %w", err)
	}

	fmt.Printf("Score: %d/%d\n", result.Score, result.Total)
	return nil
}
