package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Generator GeneratorConfig
	Quiz      QuizConfig
	Logger    LoggerConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN string
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
}

// GeneratorConfig selects and configures the quiz generator capability.
// Source is either "subprocess" (external generator process) or "ollama"
// (in-process LLM call).
type GeneratorConfig struct {
	Source  string
	Command string
	Args    []string
	Timeout time.Duration
	Ollama  OllamaConfig
}

type OllamaConfig struct {
	ServerURL string
	Model     string
}

type QuizConfig struct {
	MinQuestions int
	CacheTTL     time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", "20s")
	viper.SetDefault("server.write_timeout", "20s")
	viper.SetDefault("auth.access_token_ttl", "1h")
	viper.SetDefault("generator.source", "subprocess")
	viper.SetDefault("generator.command", "python")
	viper.SetDefault("generator.args", []string{"generate_quiz.py"})
	viper.SetDefault("generator.timeout", "120s")
	viper.SetDefault("generator.ollama.model", "qwen3:0.6b")
	viper.SetDefault("quiz.min_questions", 20)
	viper.SetDefault("quiz.cache_ttl", "24h")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional when every value comes from the
		// environment; only a malformed file is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout"),
			WriteTimeout: viper.GetDuration("server.write_timeout"),
		},
		Database: DatabaseConfig{
			DSN: viper.GetString("database.dsn"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Auth: AuthConfig{
			JWTSecret:      viper.GetString("auth.jwt_secret"),
			AccessTokenTTL: viper.GetDuration("auth.access_token_ttl"),
		},
		Generator: GeneratorConfig{
			Source:  viper.GetString("generator.source"),
			Command: viper.GetString("generator.command"),
			Args:    viper.GetStringSlice("generator.args"),
			Timeout: viper.GetDuration("generator.timeout"),
			Ollama: OllamaConfig{
				ServerURL: viper.GetString("generator.ollama.server_url"),
				Model:     viper.GetString("generator.ollama.model"),
			},
		},
		Quiz: QuizConfig{
			MinQuestions: viper.GetInt("quiz.min_questions"),
			CacheTTL:     viper.GetDuration("quiz.cache_ttl"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = viper.GetString("JWT_SECRET")
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = viper.GetString("DATABASE_DSN")
	}

	return cfg, nil
}
