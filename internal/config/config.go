package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Значения по умолчанию
const (
	DefaultRunAddr       = ":8080"
	DefaultSessionSecret = "default_session_secret"
	DefaultCheckTimeout  = 10 * time.Second
	DefaultUserAgent     = "pageanalyzer/1.0"
	DefaultLogLevel      = "info"
)

// Config содержит настройки приложения
type Config struct {
	RunAddr         string
	DatabaseDSN     string
	FileStoragePath string
	SessionSecret   string
	TrustedSubnet   string
	GRPCAddr        string
	CheckTimeout    time.Duration
	UserAgent       string
	LogLevel        string
}

// NewConfig читает флаги командной строки и переменные окружения процесса.
// Переменные окружения имеют приоритет над флагами.
func NewConfig() (*Config, error) {
	return Load(os.Args[1:], os.Getenv)
}

// Load разбирает переданные аргументы и переменные окружения
func Load(args []string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}

	fs := flag.NewFlagSet("pageanalyzer", flag.ContinueOnError)
	fs.StringVar(&cfg.RunAddr, "a", DefaultRunAddr, "address and port to run server")
	fs.StringVar(&cfg.DatabaseDSN, "d", "", "database DSN for PostgreSQL")
	fs.StringVar(&cfg.FileStoragePath, "f", "", "path to file for storing URLs and checks")
	fs.StringVar(&cfg.SessionSecret, "s", DefaultSessionSecret, "secret key for signed flash cookies")
	fs.StringVar(&cfg.TrustedSubnet, "t", "", "trusted subnet in CIDR notation")
	fs.StringVar(&cfg.GRPCAddr, "g", "", "address and port to run gRPC server")
	fs.DurationVar(&cfg.CheckTimeout, "timeout", DefaultCheckTimeout, "timeout of a single page check")
	fs.StringVar(&cfg.UserAgent, "ua", DefaultUserAgent, "User-Agent header for page checks")
	fs.StringVar(&cfg.LogLevel, "l", DefaultLogLevel, "log level")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Проверяем переменные окружения
	if addr := getenv("SERVER_ADDRESS"); addr != "" {
		cfg.RunAddr = addr
	} else if port := getenv("PORT"); port != "" {
		cfg.RunAddr = port
	}
	if dsn := getenv("DATABASE_URL"); dsn != "" {
		cfg.DatabaseDSN = dsn
	}
	if path := getenv("FILE_STORAGE_PATH"); path != "" {
		cfg.FileStoragePath = path
	}
	if secret := getenv("SESSION_SECRET"); secret != "" {
		cfg.SessionSecret = secret
	}
	if subnet := getenv("TRUSTED_SUBNET"); subnet != "" {
		cfg.TrustedSubnet = subnet
	}
	if addr := getenv("GRPC_ADDRESS"); addr != "" {
		cfg.GRPCAddr = addr
	}
	if timeout := getenv("CHECK_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid CHECK_TIMEOUT %q: %w", timeout, err)
		}
		cfg.CheckTimeout = d
	}
	if ua := getenv("USER_AGENT"); ua != "" {
		cfg.UserAgent = ua
	}
	if level := getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	// Валидация значений
	cfg.RunAddr = normalizeAddr(cfg.RunAddr)
	if cfg.GRPCAddr != "" {
		cfg.GRPCAddr = normalizeAddr(cfg.GRPCAddr)
	}
	if cfg.CheckTimeout <= 0 {
		return nil, fmt.Errorf("check timeout must be positive, got %s", cfg.CheckTimeout)
	}
	if cfg.FileStoragePath != "" && cfg.DatabaseDSN == "" {
		// Создаём директорию для файла, если она не существует
		dir := filepath.Dir(cfg.FileStoragePath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func normalizeAddr(addr string) string {
	if !strings.Contains(addr, ":") {
		return ":" + addr
	}
	return addr
}
