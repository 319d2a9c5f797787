package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bjaus/webhookbot/telegram"
)

func clientFromViper() (*telegram.Client, error) {
	token, err := resolveToken()
	if err != nil {
		return nil, err
	}
	return telegram.New(token).WithBaseURL(viper.GetString("telegram.api_url")), nil
}

func newSetWebhookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-webhook",
		Short: "Point the bot's updates at a public URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			webhookURL := strings.TrimSpace(flagOrViperString(cmd, "url", "telegram.webhook_url"))
			if webhookURL == "" {
				return errors.New("missing --url (or telegram.webhook_url)")
			}
			client, err := clientFromViper()
			if err != nil {
				return err
			}
			if err := client.SetWebhook(cmd.Context(), webhookURL, flagOrViperString(cmd, "secret", "telegram.secret")); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "webhook set to %s\n", webhookURL)
			return nil
		},
	}
	cmd.Flags().String("url", "", "Public HTTPS URL of the webhook.")
	cmd.Flags().String("secret", "", "Secret token the platform sends with each delivery.")
	return cmd
}

func newDeleteWebhookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-webhook",
		Short: "Remove the bot's webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFromViper()
			if err != nil {
				return err
			}
			if err := client.DeleteWebhook(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "webhook deleted")
			return nil
		},
	}
}
