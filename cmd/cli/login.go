package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Verify an admin key and cache it",
	Long: `Verify an admin key with the server and cache it for later commands.

The key is stored in the key file (see --key-file) readable only by you.

Examples:
  telugudb login --key s3cret`,
	Args: cobra.NoArgs,
	RunE: runLoginCmd,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the cached admin key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := clearKey(keyPath); err != nil {
			return fmt.Errorf("logout failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd)
	loginCmd.Flags().String("key", "", "Admin key")
	_ = loginCmd.MarkFlagRequired("key")
}

func runLoginCmd(cmd *cobra.Command, _ []string) error {
	key, _ := cmd.Flags().GetString("key")
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("admin key is required")
	}

	client := NewClient(serverURL)
	if err := client.Verify(cmd.Context(), key); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := saveKey(keyPath, key); err != nil {
		return fmt.Errorf("save key: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged in")
	return nil
}
