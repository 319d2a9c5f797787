package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/bjaus/webhookbot"
	"github.com/bjaus/webhookbot/telegram"
	"github.com/bjaus/webhookbot/webhook"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Receive webhook deliveries and answer them",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := loggerFromViper()
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			token, err := resolveToken()
			if err != nil {
				return err
			}

			reg, err := buildRegistry(flagOrViperBool(cmd, "current-probe", "dispatch.current_probe"))
			if err != nil {
				return fmt.Errorf("register handlers: %w", err)
			}
			dispatcher := webhookbot.New(reg,
				webhookbot.WithHandlerTimeout(flagOrViperDuration(cmd, "handler-timeout", "dispatch.handler_timeout")),
				webhookbot.LogHooks(logger),
			)

			client := telegram.New(token).WithBaseURL(viper.GetString("telegram.api_url"))
			secret := flagOrViperString(cmd, "secret", "telegram.secret")

			handler := webhook.NewHandler(dispatcher, client, logger).
				WithSecret(secret).
				WithMaxBody(viper.GetInt64("server.max_body"))

			path := strings.TrimSpace(flagOrViperString(cmd, "path", "server.path"))
			if path == "" {
				path = "/"
			}
			mux := http.NewServeMux()
			mux.Handle(path, handler)
			mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			srv := webhook.NewServer(flagOrViperString(cmd, "addr", "server.addr"), mux, logger)
			cert := flagOrViperString(cmd, "tls-cert", "server.tls_cert")
			key := flagOrViperString(cmd, "tls-key", "server.tls_key")
			if cert != "" || key != "" {
				if cert == "" || key == "" {
					return fmt.Errorf("server.tls_cert and server.tls_key must be set together")
				}
				srv.WithTLS(cert, key)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return srv.Run(ctx)
			})
			if webhookURL := strings.TrimSpace(flagOrViperString(cmd, "webhook-url", "telegram.webhook_url")); webhookURL != "" {
				g.Go(func() error {
					if err := client.SetWebhook(ctx, webhookURL, secret); err != nil {
						return fmt.Errorf("register webhook: %w", err)
					}
					logger.Info("webhook_registered", "url", webhookURL)
					return nil
				})
			}

			logger.Info("serving", "commands", reg.Commands(), "path", path)
			return g.Wait()
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default :8443).")
	cmd.Flags().String("path", "", "Webhook path (default /).")
	cmd.Flags().String("tls-cert", "", "PEM certificate file; enables HTTPS with --tls-key.")
	cmd.Flags().String("tls-key", "", "PEM key file.")
	cmd.Flags().String("secret", "", "Secret token expected in the X-Telegram-Bot-Api-Secret-Token header.")
	cmd.Flags().String("webhook-url", "", "Register this public URL as the bot's webhook on startup.")
	cmd.Flags().Duration("handler-timeout", 0, "Per-handler timeout (default 30s).")
	cmd.Flags().Bool("current-probe", true, "Answer /current with the active command.")

	return cmd
}
