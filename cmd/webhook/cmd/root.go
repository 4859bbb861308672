package cmd

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/netguru/external-dns-webhook-sdk/internal/memoryprovider"
	"github.com/netguru/external-dns-webhook-sdk/pkg/api"
	"github.com/netguru/external-dns-webhook-sdk/pkg/endpoint"
)

var (
	listenAddress string
	dryRun        bool
	logLevel      string
	domainFilter  []string
	ttl           int
	workers       int
)

var rootCmd = &cobra.Command{
	Use:   "external-dns-webhook",
	Short: "Webhook provider for ExternalDNS backed by an in-memory record store",
	Long:  "Serves the ExternalDNS webhook protocol over an in-memory record store, for driver development and protocol testing",
	Run: func(cmd *cobra.Command, args []string) {
		logger := getLogger()
		defer func() {
			if err := logger.Sync(); err != nil {
				fmt.Printf("Failed to sync logger: %v\n", err)
			}
		}()

		if listenAddress == "" {
			logger.Fatal("ERROR: Listen address is required but not set. Please set WEBHOOK_LISTEN_ADDRESS_PORT or WEBHOOK_LISTEN_ADDRESS environment variable.")
		}

		provider := memoryprovider.New(
			logger.With(zap.String("component", "memoryprovider")),
			memoryprovider.Config{
				DomainFilter: endpoint.NewDomainFilter(domainFilter),
				DryRun:       dryRun,
				TTL:          endpoint.TTL(ttl),
				Workers:      workers,
			},
		)

		app := api.New(logger.With(zap.String("component", "api")), provider)

		logger.Info("Starting webhook server", zap.String("address", listenAddress))
		if err := app.Listen(listenAddress); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	},
}

// getLogger creates a new logger with the configured log level
func getLogger() *zap.Logger {
	cfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(getZapLogLevel()),
		Development:       false,
		DisableCaller:     false,
		DisableStacktrace: false,
		Encoding:          "json",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := cfg.Build()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	logger.Info("Logger initialized", zap.String("level", logLevel))
	return logger
}

// getZapLogLevel converts the string log level to a zap log level
func getZapLogLevel() zapcore.Level {
	switch strings.ToLower(logLevel) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&listenAddress, "listen-address", "", "The address to listen on for HTTP requests")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "If true, only print the changes that would be made")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "The log level to use (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringSliceVar(&domainFilter, "domain-filter", []string{}, "Filter domain names to manage")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "Number of workers applying changes in parallel")
}

func initConfig() {
	// .env support is for local development; absent in production.
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: .env file not found, using environment variables")
	} else {
		log.Printf("Loaded configuration from .env file")
	}

	viper.SetEnvPrefix("WEBHOOK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if os.Getenv("WEBHOOK_LISTEN_ADDRESS_PORT") != "" {
		listenAddress = ":" + os.Getenv("WEBHOOK_LISTEN_ADDRESS_PORT")
	} else if os.Getenv("WEBHOOK_LISTEN_ADDRESS") != "" {
		listenAddress = os.Getenv("WEBHOOK_LISTEN_ADDRESS")
	}

	if listenAddress == "" {
		listenAddress = ":8080"
		log.Printf("No listen address configured, using default: %s", listenAddress)
	}

	if os.Getenv("DRY_RUN") == "true" && !dryRun {
		dryRun = true
	}

	if os.Getenv("LOG_LEVEL") != "" && logLevel == "info" {
		logLevel = os.Getenv("LOG_LEVEL")
	}

	if os.Getenv("DOMAIN_FILTER") != "" && len(domainFilter) == 0 {
		domainFilter = strings.Split(os.Getenv("DOMAIN_FILTER"), ",")
	}

	if os.Getenv("TTL") != "" {
		ttlvar, _ := strconv.Atoi(os.Getenv("TTL"))
		if ttlvar > 0 {
			ttl = ttlvar
		}
	} else {
		ttl = 300
		log.Printf("No TTL configured, using default: %d", ttl)
	}

	if os.Getenv("WORKERS") != "" && workers == 0 {
		if w, err := strconv.Atoi(os.Getenv("WORKERS")); err == nil && w > 0 {
			workers = w
		}
	}

	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if !f.Changed && viper.IsSet(f.Name) {
			val := viper.Get(f.Name)
			if err := rootCmd.PersistentFlags().Set(f.Name, fmt.Sprint(val)); err != nil {
				log.Printf("Warning: Failed to set flag %s from environment variable: %v", f.Name, err)
			}
		}
	})
}
