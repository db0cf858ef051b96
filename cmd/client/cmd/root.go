package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slog"

	"aggyweb/cmd/client/cmd/types"
	"aggyweb/internal/app/client"
	"aggyweb/internal/config"
	"aggyweb/internal/domain/form"
	"aggyweb/internal/utils/logger"
)

const cliLogLevel = "warn"

var (
	cfgFile  string
	cfg      *config.Config
	log      *slog.Logger
	app      *client.App
	aggyURL  string
	debugLog bool
)

var rootCmd = &cobra.Command{
	Use:   "aggyctl",
	Short: "aggyctl - терминальный клиент aggy",
	Long: `aggyctl работает с сервисами aggy и epigram напрямую: регистрация,
вход, лента постов, треды ответов.

Сессия хранится локально в sqlite, как cookie в браузере.`,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: closeApp,
	SilenceUsage:       true,
	SilenceErrors:      true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = loadConfig()
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	if aggyURL != "" {
		cfg.Aggy.BaseURL = aggyURL
	}
	// терминалу нужны только предупреждения, если уровень не задан явно
	level := cfg.Logger.LogLevel
	if level == "" {
		level = cliLogLevel
	}
	if debugLog {
		cfg.Env = config.EnvDev
		level = "debug"
	}

	log = logger.New(cfg.Env, level)

	app, err = client.New(cfg, log)
	if err != nil {
		return fmt.Errorf("ошибка инициализации приложения: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, types.ClientAppKey, app))
	return nil
}

func closeApp(_ *cobra.Command, _ []string) error {
	if app == nil {
		return nil
	}
	return app.Close()
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}

		viper.AddConfigPath(filepath.Join(home, ".aggyctl"))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return config.Load(viper.GetViper())
}

// printError показывает ошибки aggy так же, как их увидел бы пользователь
// веб-формы.
func printError(err error) {
	red := color.New(color.FgRed)

	res, outcome := form.Resolve(err, form.DefaultMessages)
	if outcome != form.Handled || res.Empty() {
		_, _ = red.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		return
	}

	_, _ = red.Fprintln(os.Stderr, res.FormError)
	fields := make([]string, 0, len(res.FieldErrors))
	for f := range res.FieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		for _, msg := range res.FieldErrors[f] {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", color.YellowString(f), msg)
		}
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "конфигурационный файл")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "включить отладочный режим")
	rootCmd.PersistentFlags().StringVar(&aggyURL, "aggy", "", "базовый URL сервиса aggy")
}
