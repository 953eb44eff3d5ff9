package client

import (
	"encoding/json"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type loginResponse struct {
	Token string    `json:"token"`
	User  *userInfo `json:"user"`
}

// LoginCmd creates the login command.
func LoginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Log in and save an access token",
		Long:  "Authenticates against the API and stores the access token in the global config.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiURL, _ := cmd.Flags().GetString("api-url")
			return runLogin(args[0], password, apiURL)
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Password (prompted if omitted)")

	return cmd
}

func runLogin(email, password, apiURL string) error {
	if apiURL == "" {
		apiURL = os.Getenv(envAPIURL)
	}
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = string(raw)
	}

	// Login is unauthenticated, so no token is needed yet.
	api := NewAPIClientWithConfig("", apiURL)

	resp, err := api.Post("/auth/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	var login loginResponse
	if err := json.Unmarshal(resp.Data, &login); err != nil {
		return fmt.Errorf("failed to parse login response: %w", err)
	}

	if !IsValidAPIToken(login.Token) {
		return fmt.Errorf("server returned a malformed access token")
	}

	if err := SaveGlobalConfig(&GlobalConfig{APIToken: login.Token, APIURL: apiURL}); err != nil {
		return err
	}

	configPath, _ := GetConfigPath()
	fmt.Printf("Logged in as %s\n", login.User.Email)
	fmt.Printf("Token saved to %s\n", configPath)
	return nil
}

// LogoutCmd creates the logout command.
func LogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the saved access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(cmd)
		},
	}
}

func runLogout(cmd *cobra.Command) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err == nil {
		// Best effort: revoke server-side before dropping the local copy.
		if _, err := api.Post("/auth/logout", nil); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to revoke token: %v\n", err)
		}
	}

	if err := DeleteGlobalConfig(); err != nil {
		return err
	}

	fmt.Println("Logged out.")
	return nil
}

// WhoamiCmd creates the whoami command.
func WhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami(cmd)
		},
	}
}

func runWhoami(cmd *cobra.Command) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Get("/auth/me")
	if err != nil {
		return err
	}

	var user userInfo
	if err := json.Unmarshal(resp.Data, &user); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	outputJSON, _ := cmd.Flags().GetBool("output")
	if outputJSON {
		out, _ := json.MarshalIndent(user, "", "  ")
		fmt.Println(string(out))
	} else {
		fmt.Printf("%s <%s> (%s)\n", user.Name, user.Email, user.Role)
	}
	return nil
}
