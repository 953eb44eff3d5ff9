package admin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studyhub-ai/studyhub/internal/config"
	"github.com/studyhub-ai/studyhub/internal/database"
	"github.com/studyhub-ai/studyhub/internal/domain"
	"github.com/studyhub-ai/studyhub/internal/repository"
	"github.com/studyhub-ai/studyhub/internal/service"
)

func UserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
		Long:  "Create user accounts without going through the API",
	}

	cmd.AddCommand(UserCreateCmd())

	return cmd
}

func UserCreateCmd() *cobra.Command {
	var (
		name     string
		password string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "create <email>",
		Short: "Create a new user",
		Long:  "Create a new user account with the specified email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, _ := cmd.Flags().GetString("output")
			return runUserCreate(args[0], name, password, role, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name (defaults to the email)")
	cmd.Flags().StringVar(&password, "password", "", "Password (required)")
	cmd.Flags().StringVar(&role, "role", string(domain.UserRoleStudent), "Role (student, instructor or admin)")
	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func runUserCreate(email, name, password, role, outputFormat string) error {
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

	if name == "" {
		name = email
	}

	userRepo := repository.NewUserRepository(pool)
	authSvc := service.NewAuthService(userRepo, &service.DefaultUUIDGenerator{})

	user, err := authSvc.Register(ctx, email, name, password, domain.UserRole(role))
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if outputFormat == "json" {
		data := map[string]interface{}{
			"id":         user.ID,
			"email":      user.Email,
			"name":       user.Name,
			"role":       user.Role,
			"created_at": user.CreatedAt,
		}
		jsonBytes, _ := json.MarshalIndent(data, "", "  ")
		fmt.Println(string(jsonBytes))
	} else {
		fmt.Printf("User created: %s (%s)\n", user.Email, user.ID)
	}

	return nil
}
