package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix = "WEBHOOKBOT"
)

func Execute() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "webhookbot",
		Short:        "Telegram webhook bot",
		SilenceUsage: true,
	}

	cobra.OnInitialize(initConfig)

	cmd.PersistentFlags().String("config", "", "Config file path (optional).")
	_ = viper.BindPFlag("config", cmd.PersistentFlags().Lookup("config"))

	cmd.PersistentFlags().String("log-level", "", "Logging level: debug|info|warn|error (defaults to info).")
	cmd.PersistentFlags().String("log-format", "text", "Logging format: text|json.")
	cmd.PersistentFlags().Bool("log-add-source", false, "Include source file:line in logs.")
	_ = viper.BindPFlag("logging.level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", cmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("logging.add_source", cmd.PersistentFlags().Lookup("log-add-source"))

	cmd.PersistentFlags().String("telegram-token", "", "Bot API token (falls back to the system keychain).")
	cmd.PersistentFlags().String("telegram-api-url", "", "Bot API base URL.")
	cmd.PersistentFlags().String("keychain-account", "", "Keychain account holding the bot token.")
	_ = viper.BindPFlag("telegram.token", cmd.PersistentFlags().Lookup("telegram-token"))
	_ = viper.BindPFlag("telegram.api_url", cmd.PersistentFlags().Lookup("telegram-api-url"))
	_ = viper.BindPFlag("telegram.keychain_account", cmd.PersistentFlags().Lookup("keychain-account"))

	initViperDefaults()

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newSetWebhookCmd())
	cmd.AddCommand(newDeleteWebhookCmd())
	cmd.AddCommand(newTokenCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func initViperDefaults() {
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.add_source", false)

	viper.SetDefault("server.addr", ":8443")
	viper.SetDefault("server.path", "/")
	viper.SetDefault("server.max_body", 1<<20)

	viper.SetDefault("telegram.api_url", "https://api.telegram.org")
	viper.SetDefault("telegram.keychain_account", "default")

	viper.SetDefault("dispatch.handler_timeout", 30*time.Second)
	viper.SetDefault("dispatch.current_probe", true)
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	cfgFile := strings.TrimSpace(viper.GetString("config"))
	if cfgFile == "" {
		return
	}

	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
	}
}

// flagOrViperString prefers an explicitly set command flag over the viper
// key, so commands can share config keys without rebinding them.
func flagOrViperString(cmd *cobra.Command, flagName, viperKey string) string {
	if cmd != nil {
		if f := cmd.Flags().Lookup(flagName); f != nil && f.Changed {
			v, _ := cmd.Flags().GetString(flagName)
			return v
		}
	}
	return viper.GetString(viperKey)
}

func flagOrViperBool(cmd *cobra.Command, flagName, viperKey string) bool {
	if cmd != nil {
		if f := cmd.Flags().Lookup(flagName); f != nil && f.Changed {
			v, _ := cmd.Flags().GetBool(flagName)
			return v
		}
	}
	return viper.GetBool(viperKey)
}

func flagOrViperDuration(cmd *cobra.Command, flagName, viperKey string) time.Duration {
	if cmd != nil {
		if f := cmd.Flags().Lookup(flagName); f != nil && f.Changed {
			v, _ := cmd.Flags().GetDuration(flagName)
			return v
		}
	}
	return viper.GetDuration(viperKey)
}
