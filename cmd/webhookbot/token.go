package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bjaus/webhookbot/internal/keychain"
)

var errMissingToken = errors.New("missing telegram.token (set via --telegram-token, WEBHOOKBOT_TELEGRAM_TOKEN or `webhookbot token set`)")

// resolveToken reads the bot token from flags, environment or config, and
// falls back to the system keychain.
func resolveToken() (string, error) {
	if token := strings.TrimSpace(viper.GetString("telegram.token")); token != "" {
		return token, nil
	}
	token, err := keychain.Token(viper.GetString("telegram.keychain_account"))
	if err != nil || strings.TrimSpace(token) == "" {
		return "", errMissingToken
	}
	return strings.TrimSpace(token), nil
}

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the bot token stored in the system keychain",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set",
		Short: "Store the bot token read from stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			token := strings.TrimSpace(line)
			if token == "" {
				if err != nil {
					return fmt.Errorf("read token: %w", err)
				}
				return errors.New("empty token")
			}
			account := viper.GetString("telegram.keychain_account")
			if err := keychain.SetToken(account, token); err != nil {
				return fmt.Errorf("store token: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "token stored for account %q\n", account)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete",
		Short: "Remove the stored bot token",
		RunE: func(cmd *cobra.Command, args []string) error {
			account := viper.GetString("telegram.keychain_account")
			if err := keychain.DeleteToken(account); err != nil {
				return fmt.Errorf("delete token: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "token removed for account %q\n", account)
			return nil
		},
	})

	return cmd
}
