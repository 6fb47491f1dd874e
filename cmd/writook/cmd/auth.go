package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"writook/internal/controller"
)

var loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Log in and persist the session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		password := loginPassword
		if password == "" {
			fmt.Fprint(os.Stderr, "Password: ")
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}
		return controller.NewAuthController(a.deps).Login(cmd.Context(), args[0], password)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Drop the persisted session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		controller.NewAuthController(a.deps).Logout(cmd.Context())
		return nil
	},
}

var registerEmail string

var registerCmd = &cobra.Command{
	Use:   "register [username]",
	Short: "Create an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		password := loginPassword
		if password == "" {
			fmt.Fprint(os.Stderr, "Password: ")
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}
		return controller.NewAuthController(a.deps).Register(cmd.Context(), args[0], registerEmail, password)
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		a.restore(cmd.Context())
		snap := a.sessions.Current()
		if !snap.LoggedIn() {
			fmt.Println("not logged in")
			os.Exit(1)
		}
		fmt.Println(snap.User.Username)
		if snap.User.Email != "" {
			fmt.Println(snap.User.Email)
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "password (prompted when omitted)")
	registerCmd.Flags().StringVar(&loginPassword, "password", "", "password (prompted when omitted)")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "account email address")
	registerCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(loginCmd, logoutCmd, registerCmd, whoamiCmd)
}
