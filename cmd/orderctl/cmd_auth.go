package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	registerName     string
	registerEmail    string
	registerPassword string
	registerAdmin    bool

	loginEmail    string
	loginPassword string
)

// orderctl register creates an account and signs in.
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, session, err := newClient()
		if err != nil {
			return err
		}

		role := ""
		if registerAdmin {
			role = "admin"
		}
		if err := c.Register(cmd.Context(), registerName, registerEmail, registerPassword, role); err != nil {
			return err
		}
		if err := saveSession(session); err != nil {
			return err
		}

		fmt.Printf("Registered and logged in as %s (%s)\n", session.User.Email, session.User.Role)
		return nil
	},
}

// orderctl login
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, session, err := newClient()
		if err != nil {
			return err
		}

		if err := c.Login(cmd.Context(), loginEmail, loginPassword); err != nil {
			return err
		}
		if err := saveSession(session); err != nil {
			return err
		}

		fmt.Printf("Logged in as %s (%s)\n", session.User.Email, session.User.Role)
		return nil
	},
}

// orderctl logout
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the refresh token and clear the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, session, err := requireSession()
		if err != nil {
			return err
		}

		if err := c.Logout(cmd.Context()); err != nil {
			return err
		}
		if err := saveSession(session); err != nil {
			return err
		}

		fmt.Println("Logged out")
		return nil
	},
}

// orderctl whoami
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, session, err := newClient()
		if err != nil {
			return err
		}
		if !session.Active() {
			fmt.Println("Not logged in")
			return nil
		}
		fmt.Printf("%s <%s> role=%s\n", session.User.Name, session.User.Email, session.User.Role)
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerName, "name", "", "display name")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "email address")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "password (min 6 characters)")
	registerCmd.Flags().BoolVar(&registerAdmin, "admin", false, "register with the admin role")
	_ = registerCmd.MarkFlagRequired("name")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("password")

	loginCmd.Flags().StringVar(&loginEmail, "email", "", "email address")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")
}
