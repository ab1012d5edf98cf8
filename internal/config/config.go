package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultMaxUploadBytes = 10 << 20

type Config struct {
	APIPort  string
	LogLevel string

	ModelDir        string
	ModelVectorizer string
	ModelClassifier string
	ModelEncoder    string

	MaxUploadBytes int64

	APIRateLimitRPS       int
	APIRateLimitBurst     int
	APIMaxInFlight        int
	APIBackpressureWaitMS int
}

// FileConfig is the optional YAML file named by CONFIG_FILE. Zero values keep
// the built-in defaults.
type FileConfig struct {
	API struct {
		Port               string `yaml:"port"`
		RateLimitRPS       int    `yaml:"rateLimitRPS"`
		RateLimitBurst     int    `yaml:"rateLimitBurst"`
		MaxInFlight        int    `yaml:"maxInFlight"`
		BackpressureWaitMS int    `yaml:"backpressureWaitMS"`
	} `yaml:"api"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Model struct {
		Dir        string `yaml:"dir"`
		Vectorizer string `yaml:"vectorizer"`
		Classifier string `yaml:"classifier"`
		Encoder    string `yaml:"encoder"`
	} `yaml:"model"`
	MaxUploadBytes int64 `yaml:"maxUploadBytes"`
}

// LoadDotEnv loads .env files into the process environment without
// overriding variables that are already set. A missing default .env is not
// an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
			return nil
		}
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load dotenv: %w", err)
	}
	return nil
}

// Load resolves configuration from built-in defaults, the CONFIG_FILE YAML
// file if set, and the environment, in increasing priority.
func Load() (Config, error) {
	cfg := Defaults()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		fc, err := ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = fc.apply(cfg)
	}

	cfg = Config{
		APIPort:  mustEnv("API_PORT", cfg.APIPort),
		LogLevel: mustEnv("LOG_LEVEL", cfg.LogLevel),

		ModelDir:        mustEnv("MODEL_DIR", cfg.ModelDir),
		ModelVectorizer: mustEnv("MODEL_VECTORIZER", cfg.ModelVectorizer),
		ModelClassifier: mustEnv("MODEL_CLASSIFIER", cfg.ModelClassifier),
		ModelEncoder:    mustEnv("MODEL_ENCODER", cfg.ModelEncoder),

		MaxUploadBytes: mustEnvInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes),

		APIRateLimitRPS:       mustEnvInt("API_RATE_LIMIT_RPS", cfg.APIRateLimitRPS),
		APIRateLimitBurst:     mustEnvInt("API_RATE_LIMIT_BURST", cfg.APIRateLimitBurst),
		APIMaxInFlight:        mustEnvInt("API_MAX_IN_FLIGHT", cfg.APIMaxInFlight),
		APIBackpressureWaitMS: mustEnvInt("API_BACKPRESSURE_WAIT_MS", cfg.APIBackpressureWaitMS),
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	return cfg, nil
}

func Defaults() Config {
	return Config{
		APIPort:         "8080",
		LogLevel:        "info",
		ModelDir:        defaultModelDir(),
		ModelVectorizer: "tfidf.json",
		ModelClassifier: "clf.json",
		ModelEncoder:    "encoder.json",
		MaxUploadBytes:  defaultMaxUploadBytes,
	}
}

// ReadFile parses a YAML config file. Unknown keys are rejected.
func ReadFile(path string) (FileConfig, error) {
	var fc FileConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return FileConfig{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return fc, nil
}

func (fc FileConfig) apply(cfg Config) Config {
	cfg.APIPort = pick(fc.API.Port, cfg.APIPort)
	cfg.LogLevel = pick(fc.Log.Level, cfg.LogLevel)
	cfg.ModelDir = pick(fc.Model.Dir, cfg.ModelDir)
	cfg.ModelVectorizer = pick(fc.Model.Vectorizer, cfg.ModelVectorizer)
	cfg.ModelClassifier = pick(fc.Model.Classifier, cfg.ModelClassifier)
	cfg.ModelEncoder = pick(fc.Model.Encoder, cfg.ModelEncoder)
	if fc.MaxUploadBytes > 0 {
		cfg.MaxUploadBytes = fc.MaxUploadBytes
	}
	if fc.API.RateLimitRPS > 0 {
		cfg.APIRateLimitRPS = fc.API.RateLimitRPS
	}
	if fc.API.RateLimitBurst > 0 {
		cfg.APIRateLimitBurst = fc.API.RateLimitBurst
	}
	if fc.API.MaxInFlight > 0 {
		cfg.APIMaxInFlight = fc.API.MaxInFlight
	}
	if fc.API.BackpressureWaitMS > 0 {
		cfg.APIBackpressureWaitMS = fc.API.BackpressureWaitMS
	}
	return cfg
}

func pick(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func defaultModelDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "./models"
	}
	return filepath.Join(filepath.Dir(exe), "models")
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
