package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// PostgresConfig хранит конфигурацию для PostgreSQL
type PostgresConfig struct {
	DatabaseURL string
}

// RabbitMQConfig хранит конфигурацию для RabbitMQ
type RabbitMQConfig struct {
	URL string
}

type RESTconfig struct {
	PORT string
}

// CrawlerConfig - параметры планировщика обхода
type CrawlerConfig struct {
	Workers       int
	RequestDelay  time.Duration
	CheckpointDir string
	// Расписание в формате cron; пустая строка отключает планировщик
	CrawlSchedule     string
	AnalyticsSchedule string
}

type StdoutLogConfig struct {
	Level string // По умолчанию DEBUG
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string // По умолчанию INFO
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	Postgres     PostgresConfig
	RabbitMQ     RabbitMQConfig
	Rest         RESTconfig
	Crawler      CrawlerConfig
	FluentBit    FluentBitConfig
	AppName      string
	StdoutLogger StdoutLogConfig
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}

	if err != nil {
		log.Printf("Info: Could not load .env file (path: %v): %v.\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "market-core")

	cfg.Postgres.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.Postgres.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
	if cfg.RabbitMQ.URL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL environment variable is required")
	}

	cfg.Rest.PORT = getEnvAsString("PORT", "5000")

	cfg.Crawler.Workers = getEnvAsInt("CRAWL_WORKERS", 4)
	cfg.Crawler.RequestDelay = time.Duration(getEnvAsInt("CRAWL_REQUEST_DELAY_SECONDS", 3)) * time.Second
	cfg.Crawler.CheckpointDir = getEnvAsString("CRAWL_CHECKPOINT_DIR", "checkpoints")
	cfg.Crawler.CrawlSchedule = getEnvAsString("CRAWL_SCHEDULE", "")
	cfg.Crawler.AnalyticsSchedule = getEnvAsString("ANALYTICS_SCHEDULE", "")

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}

		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt читает переменную окружения как int или возвращает значение по умолчанию
// Логирует ошибку, если переменная есть, но не может быть преобразована в int
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

// getEnvAsBool читает переменную окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}
