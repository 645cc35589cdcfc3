package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lustre-atelier/backoffice/internal/config"
	"github.com/lustre-atelier/backoffice/internal/feedback"
	"github.com/lustre-atelier/backoffice/internal/utils"
)

const (
	ErrorBindingFlag = "unable to bind flag"
)

// Design notes:
// - Every resource command group (blogs, products, banners, appointments) drives one store
// - A command builds a session (authenticated client, feedback channel, stores), dispatches
//   one intent and renders the resulting snapshot
// - The `shell` command keeps a single session alive so the stores accumulate state across
//   commands, like the back-office screens do
// - Feedback notifications are rendered on stderr, results on stdout

var rootCmd = &cobra.Command{
	Use:               "backoffice",
	Short:             "Manage the jewelry store catalog, banners, blog and appointments",
	SilenceUsage:      true,
	PersistentPreRunE: RootCmdPersistentPreRunE,
}

func RootCmdPersistentPreRunE(cmd *cobra.Command, args []string) error {
	logLevelArg := viper.GetString("logLevel")
	urlString := viper.GetString("url")
	if err := setLogLevel(logLevelArg); err != nil {
		return err
	}
	if err := validateURL(urlString); err != nil {
		return err
	}

	slog.Debug("Application initialized", "logLevel", logLevelArg, "url", urlString)

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var (
	validLogLevels = map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	validLogLevelsStr = strings.Join(utils.SortedKeys(validLogLevels), "|")
)

func init() {
	SetupRootCmdFlags(rootCmd)

	rootCmd.AddCommand(NewResourceCmds()...)
	rootCmd.AddCommand(NewUploadCmd(), NewDashboardCmd(), NewShellCmd())

	viper.AddConfigPath("./")
	viper.SetConfigName("config")

	viper.SetEnvPrefix("backoffice")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func SetupRootCmdFlags(command *cobra.Command) {
	command.PersistentFlags().StringP("logLevel", "l", "info", fmt.Sprintf("set log level (%s)", validLogLevelsStr))
	if err := viper.BindPFlag("logLevel", command.PersistentFlags().Lookup("logLevel")); err != nil {
		slog.Error(ErrorBindingFlag, "error", err)
	}

	command.PersistentFlags().StringP("url", "u", "", "Root URL of the API server")
	if err := viper.BindPFlag("url", command.PersistentFlags().Lookup("url")); err != nil {
		slog.Error(ErrorBindingFlag, "error", err)
	}

	command.PersistentFlags().String("token", "", "Bearer token, skips the login")
	if err := viper.BindPFlag("token", command.PersistentFlags().Lookup("token")); err != nil {
		slog.Error(ErrorBindingFlag, "error", err)
	}

	command.PersistentFlags().String("username", "", "Username to log in with")
	if err := viper.BindPFlag("username", command.PersistentFlags().Lookup("username")); err != nil {
		slog.Error(ErrorBindingFlag, "error", err)
	}

	command.PersistentFlags().String("password", "", "Password to log in with")
	if err := viper.BindPFlag("password", command.PersistentFlags().Lookup("password")); err != nil {
		slog.Error(ErrorBindingFlag, "error", err)
	}

	command.PersistentFlags().StringP("output", "o", config.OutputTable, "Output format (table|json|yaml)")
	if err := viper.BindPFlag("output", command.PersistentFlags().Lookup("output")); err != nil {
		slog.Error(ErrorBindingFlag, "error", err)
	}

	command.PersistentFlags().Bool("sequenced", false, "Discard responses overtaken by a newer request for the same resource")
	if err := viper.BindPFlag("sequenced", command.PersistentFlags().Lookup("sequenced")); err != nil {
		slog.Error(ErrorBindingFlag, "error", err)
	}

	command.PersistentFlags().Duration("toast-ttl", feedback.DefaultTTL, "How long notifications stay visible")
	if err := viper.BindPFlag("toast-ttl", command.PersistentFlags().Lookup("toast-ttl")); err != nil {
		slog.Error(ErrorBindingFlag, "error", err)
	}
}

// setLogLevel sets the log level
func setLogLevel(logLevel string) error {
	level, exists := validLogLevels[logLevel]
	if !exists {
		return fmt.Errorf("invalid log level: %s. Valid log levels are: %s", logLevel, validLogLevelsStr)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

// validateURL validates a URL is not empty and is a valid URL
func validateURL(urlStr string) error {
	if urlStr == "" {
		return errors.New("URL cannot be empty")
	}

	_, err := url.ParseRequestURI(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}
	return nil
}
