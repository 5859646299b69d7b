package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime settings.
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	ServerPort  string `mapstructure:"SERVER_PORT"`

	// Logging
	LogDir   string `mapstructure:"LOG_DIR"`
	LogLevel string `mapstructure:"LOG_LEVEL"` // debug, info, warn, error

	// Database
	DBDriver   string `mapstructure:"DB_DRIVER"` // mysql, postgres, sqlite
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBPath     string `mapstructure:"DB_PATH"` // sqlite file

	// Redis
	RedisHost     string `mapstructure:"REDIS_HOST"`
	RedisPort     string `mapstructure:"REDIS_PORT"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	JWTSecret string `mapstructure:"JWT_SECRET"`

	// Emotion classifier
	ClassifierBackend string        `mapstructure:"CLASSIFIER_BACKEND"` // http, llm
	ClassifierURL     string        `mapstructure:"CLASSIFIER_URL"`
	ClassifierTimeout time.Duration `mapstructure:"CLASSIFIER_TIMEOUT"`
	VisionAPIKey      string        `mapstructure:"VISION_API_KEY"`
	VisionAPIEndpoint string        `mapstructure:"VISION_API_ENDPOINT"`
	VisionModel       string        `mapstructure:"VISION_MODEL"`

	RecentWindow       time.Duration `mapstructure:"RECENT_WINDOW"`
	RateLimitPerMinute int           `mapstructure:"RATE_LIMIT_PER_MINUTE"`

	// Capture agent
	AgentServerURL string        `mapstructure:"AGENT_SERVER_URL"`
	AgentToken     string        `mapstructure:"AGENT_TOKEN"`
	AgentInterval  time.Duration `mapstructure:"AGENT_INTERVAL"`
	AgentDuration  time.Duration `mapstructure:"AGENT_DURATION"`
	AgentFrameDir  string        `mapstructure:"AGENT_FRAME_DIR"`
}

var defaults = map[string]any{
	"ENVIRONMENT":           "development",
	"SERVER_PORT":           "8080",
	"LOG_DIR":               "logs",
	"LOG_LEVEL":             "info",
	"DB_DRIVER":             "sqlite",
	"DB_HOST":               "127.0.0.1",
	"DB_PORT":               "3306",
	"DB_USER":               "root",
	"DB_PASSWORD":           "",
	"DB_NAME":               "emotion_tracker",
	"DB_PATH":               "emotion_tracker.db",
	"REDIS_HOST":            "127.0.0.1",
	"REDIS_PORT":            "6379",
	"REDIS_PASSWORD":        "",
	"REDIS_DB":              0,
	"JWT_SECRET":            "",
	"CLASSIFIER_BACKEND":    "http",
	"CLASSIFIER_URL":        "http://127.0.0.1:5001/classify",
	"CLASSIFIER_TIMEOUT":    "10s",
	"VISION_API_KEY":        "",
	"VISION_API_ENDPOINT":   "",
	"VISION_MODEL":          "gpt-4o-mini",
	"RECENT_WINDOW":         "2m",
	"RATE_LIMIT_PER_MINUTE": 60,
	"AGENT_SERVER_URL":      "http://127.0.0.1:8080",
	"AGENT_TOKEN":           "",
	"AGENT_INTERVAL":        "5s",
	"AGENT_DURATION":        "2m",
	"AGENT_FRAME_DIR":       "frames",
}

// LoadConfig reads path/.env and the process environment. A missing .env file is not an error.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	err = v.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
	}

	err = v.Unmarshal(&config)
	return
}

// GetDBConnString returns the DSN for the configured driver.
func (c *Config) GetDBConnString() string {
	switch c.DBDriver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
	case "sqlite":
		return c.DBPath
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
	}
}

// GetRedisConnString returns host:port for Redis.
func (c *Config) GetRedisConnString() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
