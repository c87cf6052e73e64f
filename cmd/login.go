package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"budgetchat/internal/auth"
	"budgetchat/internal/config"
)

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the budget assistant",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			email, _ := cmd.Flags().GetString("email")
			if email == "" {
				email, err = promptLine("Email: ")
				if err != nil {
					return err
				}
			}
			password, err := promptPassword()
			if err != nil {
				return err
			}

			svc := auth.NewService(newGatewayClient(cfg))
			user, err := svc.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("logging in: %w", err)
			}

			fmt.Printf("Logged in as %s\n", user.Name)
			return nil
		},
	}

	cmd.Flags().String("email", "", "Account email")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			name, _ := cmd.Flags().GetString("name")
			if name == "" {
				name, err = promptLine("Name: ")
				if err != nil {
					return err
				}
			}
			email, _ := cmd.Flags().GetString("email")
			if email == "" {
				email, err = promptLine("Email: ")
				if err != nil {
					return err
				}
			}
			password, err := promptPassword()
			if err != nil {
				return err
			}

			svc := auth.NewService(newGatewayClient(cfg))
			user, err := svc.Register(cmd.Context(), name, email, password)
			if err != nil {
				return fmt.Errorf("registering: %w", err)
			}

			fmt.Printf("Welcome, %s\n", user.Name)
			return nil
		},
	}

	cmd.Flags().String("name", "", "Display name")
	cmd.Flags().String("email", "", "Account email")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if err := auth.NewService(newGatewayClient(cfg)).Logout(); err != nil {
				return fmt.Errorf("logging out: %w", err)
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}

func promptLine(label string) (string, error) {
	fmt.Print(label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func promptPassword() (string, error) {
	fmt.Print("Password: ")
	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(pw), nil
}
