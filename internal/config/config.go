package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Scheduler SchedulerConfig
	CallAPI   CallAPIConfig
}

type ServerConfig struct {
	Address string
}

type DatabaseConfig struct {
	PostgresURL string
}

type RedisConfig struct {
	Enabled  bool
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

type SchedulerConfig struct {
	Interval    time.Duration
	BatchSize   int
	Concurrency int
}

type CallAPIConfig struct {
	URL     string
	Timeout time.Duration
}

func LoadAll() (*Config, error) {
	var errs []error

	postgresURL, err := requireEnv("POSTGRES_URL")
	if err != nil {
		errs = append(errs, err)
	}
	callAPIURL, err := requireEnv("CALL_API_URL")
	if err != nil {
		errs = append(errs, err)
	}

	callTimeout, err := getEnvInt("CALL_TIMEOUT_SECONDS", 5)
	if err != nil {
		errs = append(errs, err)
	}
	interval, err := getEnvInt("SCHED_INTERVAL_SECONDS", 10)
	if err != nil {
		errs = append(errs, err)
	}
	batchSize, err := getEnvInt("SCHED_BATCH_SIZE", 50)
	if err != nil {
		errs = append(errs, err)
	}
	concurrency, err := getEnvInt("DISPATCH_CONCURRENCY", 8)
	if err != nil {
		errs = append(errs, err)
	}

	redisCfg, err := loadRedisConfig()
	if err != nil {
		errs = append(errs, err)
	}

	if err := joinErrors(errs); err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Address: getEnv("SERVER_ADDRESS", ":8080"),
		},
		Database: DatabaseConfig{
			PostgresURL: postgresURL,
		},
		CallAPI: CallAPIConfig{
			URL:     callAPIURL,
			Timeout: time.Duration(callTimeout) * time.Second,
		},
		Scheduler: SchedulerConfig{
			Interval:    time.Duration(interval) * time.Second,
			BatchSize:   batchSize,
			Concurrency: concurrency,
		},
		Redis: redisCfg,
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadRedisConfig() (RedisConfig, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return RedisConfig{Enabled: false}, nil
	}

	db, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return RedisConfig{}, err
	}
	ttl, err := getEnvInt("REDIS_TTL_SECONDS", 300)
	if err != nil {
		return RedisConfig{}, err
	}

	return RedisConfig{
		Enabled:  true,
		Address:  addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
		TTL:      time.Duration(ttl) * time.Second,
	}, nil
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Scheduler.Interval <= 0 {
		errs = append(errs, errors.New("SCHED_INTERVAL_SECONDS must be > 0"))
	}
	if cfg.Scheduler.BatchSize <= 0 {
		errs = append(errs, errors.New("SCHED_BATCH_SIZE must be > 0"))
	}
	if cfg.Scheduler.Concurrency <= 0 {
		errs = append(errs, errors.New("DISPATCH_CONCURRENCY must be > 0"))
	}
	if cfg.CallAPI.Timeout <= 0 {
		errs = append(errs, errors.New("CALL_TIMEOUT_SECONDS must be > 0"))
	}

	return joinErrors(errs)
}

func requireEnv(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("missing required env var: %s", key)
	}
	return val, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid int for env %s: %s", key, v)
	}
	return i, nil
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
