package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/frahmantamala/expenses-tracker/internal"
	"github.com/frahmantamala/expenses-tracker/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "EXPENSES"

var (
	configDir string
	profile   string
	logLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "expenses-tracker",
	Short: "Expenses Tracker",
	Long: `Track personal expenses kept on a remote expense service.

Expenses are always fetched from the remote service; month, range and search
reports with totals are computed locally.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.allowed_origins", "*")
	v.SetDefault("http_server.read_header_timeout", 5*time.Second)
	v.SetDefault("http_server.read_timeout", 15*time.Second)
	v.SetDefault("http_server.write_timeout", 30*time.Second)
	v.SetDefault("http_server.idle_timeout", 60*time.Second)

	v.SetDefault("database.driver", internal.DriverSQLite)
	v.SetDefault("database.source", "expenses-tracker.db")
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("gateway.base_url", "http://localhost:5000")
	v.SetDefault("gateway.uploads_url", "")
	v.SetDefault("gateway.timeout", 15*time.Second)

	v.SetDefault("session.profile", "default")

	v.SetDefault("observability.logging.level", "warn")
	v.SetDefault("observability.logging.format", "text")
}

// loadConfig layers defaults, an optional config.yml under path, a .env file
// and EXPENSES_* environment variables, in increasing precedence.
func loadConfig(path string) (*internal.Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if profile != "" {
		cfg.Session.Profile = profile
	}
	if logLevel != "" {
		cfg.Observability.Logging.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}

	return &cfg, nil
}

func initLogger(cfg *internal.Config) {
	logger.Init(logger.Options{
		Level:  cfg.Observability.Logging.Level,
		Format: cfg.Observability.Logging.Format,
	})
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "directory holding config.yml")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "session profile (overrides session.profile)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(httpServerCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
	rootCmd.AddCommand(expensesCmd)
}
