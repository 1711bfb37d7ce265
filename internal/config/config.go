package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DB            DBConfig
	Server        ServerConfig
	Redis         RedisConfig
	Logger        LoggerConfig
	Auth          AuthConfig
	Transcription TranscriptionConfig
	Analysis      AnalysisConfig
	Insight       InsightConfig
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type LoggerConfig struct {
	Level string
	Env   string
}

type AuthConfig struct {
	JWTSecret string
}

// TranscriptionConfig configures the speech-to-text provider.
type TranscriptionConfig struct {
	Provider string // currently only "whisper"
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// AnalysisConfig configures the text-analysis provider.
type AnalysisConfig struct {
	Provider string // currently only "gemini"
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// InsightConfig tunes the insight generation workflow.
type InsightConfig struct {
	SessionWindow  int           // most recent N sessions considered
	LookbackDays   int           // trailing window in days
	TTL            time.Duration // default expiry on generated insights
	StatsCacheTTL  time.Duration // redis TTL for the stats overview
	LatestCacheTTL time.Duration // redis TTL for the latest insight
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()

	viper.SetDefault("db.sslmode", "require")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 20)
	viper.SetDefault("server.body_limit_mb", 30)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")
	viper.SetDefault("transcription.provider", "whisper")
	viper.SetDefault("transcription.model", "whisper-1")
	viper.SetDefault("transcription.timeout", 60)
	viper.SetDefault("analysis.provider", "gemini")
	viper.SetDefault("analysis.model", "gemini-2.0-flash")
	viper.SetDefault("analysis.timeout", 30)
	viper.SetDefault("insight.session_window", 10)
	viper.SetDefault("insight.lookback_days", 7)
	viper.SetDefault("insight.ttl_days", 7)
	viper.SetDefault("insight.stats_cache_ttl", 300)
	viper.SetDefault("insight.latest_cache_ttl", 600)

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional when everything arrives via env.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{
		DB: DBConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetInt("db.port"),
			User:     viper.GetString("db.user"),
			Password: viper.GetString("db.password"),
			DBName:   viper.GetString("db.name"),
			SSLMode:  viper.GetString("db.sslmode"),
		},
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
			BodyLimit:    viper.GetInt("server.body_limit_mb") * 1024 * 1024,
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		Auth: AuthConfig{
			JWTSecret: viper.GetString("auth.jwt_secret"),
		},
		Transcription: TranscriptionConfig{
			Provider: viper.GetString("transcription.provider"),
			APIKey:   viper.GetString("transcription.api_key"),
			Model:    viper.GetString("transcription.model"),
			Timeout:  viper.GetDuration("transcription.timeout") * time.Second,
		},
		Analysis: AnalysisConfig{
			Provider: viper.GetString("analysis.provider"),
			APIKey:   viper.GetString("analysis.api_key"),
			Model:    viper.GetString("analysis.model"),
			Timeout:  viper.GetDuration("analysis.timeout") * time.Second,
		},
		Insight: InsightConfig{
			SessionWindow:  viper.GetInt("insight.session_window"),
			LookbackDays:   viper.GetInt("insight.lookback_days"),
			TTL:            viper.GetDuration("insight.ttl_days") * 24 * time.Hour,
			StatsCacheTTL:  viper.GetDuration("insight.stats_cache_ttl") * time.Second,
			LatestCacheTTL: viper.GetDuration("insight.latest_cache_ttl") * time.Second,
		},
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides lets plain environment variables win over the
// config file, matching how the service is deployed.
func applyEnvOverrides(config *Config) {
	if host := os.Getenv("DB_HOST"); host != "" {
		config.DB.Host = host
	}
	if user := os.Getenv("DB_USER"); user != "" {
		config.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		config.DB.Password = password
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		config.DB.DBName = dbname
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.Auth.JWTSecret = secret
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		config.Transcription.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Analysis.APIKey = key
	}
}

// Validate reports missing credentials before any service is built.
// Credential absence is a configuration error, not a call-time error.
func (c *Config) Validate() error {
	if c.Transcription.APIKey == "" {
		return fmt.Errorf("transcription API key is not configured (set OPENAI_API_KEY)")
	}
	if c.Analysis.APIKey == "" {
		return fmt.Errorf("analysis API key is not configured (set GEMINI_API_KEY)")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is not configured (set JWT_SECRET)")
	}
	return nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User,
		c.DB.Password,
		c.DB.Host,
		c.DB.Port,
		c.DB.DBName,
		c.DB.SSLMode,
	)
}
