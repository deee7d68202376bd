package cmd

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/analyzer"
	"github.com/spigell/resume-analyzer/internal/logger"
	"github.com/spigell/resume-analyzer/internal/render"
	"github.com/spigell/resume-analyzer/internal/secrets"
)

const (
	app = "resume-analyzer"

	tokenEnv = "RESUME_ANALYZER_TOKEN"
)

type Config struct {
	APIURL       string        `mapstructure:"api-url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	HistoryLimit int           `mapstructure:"history-limit"`
	UserAgent    string        `mapstructure:"user-agent"`
	TokenFile    string        `mapstructure:"token-file"`
	NoColor      bool          `mapstructure:"no-color"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-analyzer scores a resume against a job description and keeps the history of analyses",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	for key, env := range map[string]string{
		"api-url":    "RESUME_ANALYZER_API_URL",
		"token-file": "RESUME_ANALYZER_TOKEN_FILE",
		"timeout":    "RESUME_ANALYZER_TIMEOUT",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("api-url", analyzer.DefaultAPIURL)
	viper.SetDefault("timeout", analyzer.DefaultTimeout)
	viper.SetDefault("history-limit", analyzer.DefaultHistoryLimit)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-analyzer.yaml in current directory)")
	rootCmd.PersistentFlags().String("api-url", "", "address of the analysis service (default "+analyzer.DefaultAPIURL+")")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	viper.BindPFlag("api-url", rootCmd.PersistentFlags().Lookup("api-url"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("no-color", rootCmd.PersistentFlags().Lookup("no-color"))
}

func initConfig() {
	// A missing .env is fine, variables may come from the environment itself.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		// We can't proceed if the given config file parsed with error.
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigName(app)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.HistoryLimit <= 0 {
		config.HistoryLimit = analyzer.DefaultHistoryLimit
	}
	if config.Timeout <= 0 {
		config.Timeout = analyzer.DefaultTimeout
	}

	return config, nil
}

// bootstrap builds what every command needs: the logger, the config and the
// API client.
func bootstrap() (*zap.Logger, *Config, *analyzer.Client) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	token, err := resolveToken(config)
	if err != nil {
		logger.Fatal(
			"loading api token",
			zap.Error(err),
			zap.String("hint", "check RESUME_ANALYZER_TOKEN_FILE environment variable or the 'token-file' key in the configuration file"),
		)
	}

	client := analyzer.New(logger, config.APIURL, token)
	client.HTTPClient.Timeout = config.Timeout
	if config.UserAgent != "" {
		client.UserAgent = config.UserAgent
	}

	logger.Debug("using analysis service",
		zap.String("api_url", client.APIURL),
		zap.Duration("timeout", config.Timeout),
		zap.Bool("token", token != ""),
	)

	return logger, config, client
}

// resolveToken loads the optional bearer token. Without one the service is
// called anonymously.
func resolveToken(config *Config) (string, error) {
	return secrets.Load(secrets.Source{
		Name:     "api token",
		File:     strings.TrimSpace(config.TokenFile),
		Env:      tokenEnv,
		Optional: true,
	})
}

func newPrinter(config *Config) *render.Printer {
	return render.New(os.Stdout, !config.NoColor)
}

// signalContext is cancelled on interrupt so a running request is aborted.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
