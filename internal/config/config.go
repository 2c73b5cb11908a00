package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"dispatch-route-service/internal/domain"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderKakao = "kakao"
	ProviderMock  = "mock"

	OffsetSetFull    = "full"
	OffsetSetCompact = "compact"
)

// Config holds every runtime setting of the server and CLI.
type Config struct {
	Provider      string
	KakaoAPIKey   string
	Port          string
	DatabaseURL   string
	RedisURL      string
	DefaultOrigin string
	CORSOrigins   []string

	GeocodeCacheTTL   time.Duration
	GeocodeTimeout    time.Duration
	DirectionsTimeout time.Duration
	KakaoRatePerSec   float64

	VehicleConcurrency int
	PrefetchAddresses  bool
	SameSiteMeters     float64

	OffsetSet   string
	OffsetsFile string
	// Offsets overrides OffsetSet when loaded from OffsetsFile.
	Offsets []domain.Offset
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := &Config{
		Provider:      strings.ToLower(Get("PROVIDER", ProviderKakao)),
		KakaoAPIKey:   strings.TrimSpace(os.Getenv("KAKAO_REST_API_KEY")),
		Port:          Get("PORT", "8080"),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisURL:      strings.TrimSpace(os.Getenv("REDIS_URL")),
		DefaultOrigin: Get("DEFAULT_ORIGIN", "서울특별시 중구 세종대로 110"),
		OffsetSet:     strings.ToLower(Get("OFFSET_SET", OffsetSetFull)),
		OffsetsFile:   os.Getenv("OFFSETS_FILE"),
		CORSOrigins:   splitList(Get("CORS_ALLOWED_ORIGINS", "*")),
	}

	var err error
	if cfg.GeocodeCacheTTL, err = durationEnv("GEOCODE_CACHE_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.GeocodeTimeout, err = durationEnv("GEOCODE_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.DirectionsTimeout, err = durationEnv("DIRECTIONS_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.KakaoRatePerSec, err = floatEnv("KAKAO_RATE_PER_SEC", 10); err != nil {
		return nil, err
	}
	if cfg.SameSiteMeters, err = floatEnv("SAME_SITE_METERS", 100); err != nil {
		return nil, err
	}
	if cfg.VehicleConcurrency, err = intEnv("VEHICLE_CONCURRENCY", 4); err != nil {
		return nil, err
	}
	if cfg.PrefetchAddresses, err = boolEnv("PREFETCH_ADDRESSES", true); err != nil {
		return nil, err
	}

	if cfg.OffsetsFile != "" {
		offsets, err := LoadOffsets(cfg.OffsetsFile)
		if err != nil {
			return nil, err
		}
		cfg.Offsets = offsets
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderKakao:
		if c.KakaoAPIKey == "" {
			return errors.New("config: KAKAO_REST_API_KEY is required when PROVIDER=kakao")
		}
	case ProviderMock:
	default:
		return fmt.Errorf("config: unknown PROVIDER %q", c.Provider)
	}

	switch c.OffsetSet {
	case OffsetSetFull, OffsetSetCompact:
	default:
		return fmt.Errorf("config: unknown OFFSET_SET %q", c.OffsetSet)
	}

	if c.VehicleConcurrency < 1 {
		return fmt.Errorf("config: VEHICLE_CONCURRENCY must be >= 1, got %d", c.VehicleConcurrency)
	}
	if c.KakaoRatePerSec <= 0 {
		return fmt.Errorf("config: KAKAO_RATE_PER_SEC must be > 0, got %v", c.KakaoRatePerSec)
	}

	return nil
}

type offsetsFile struct {
	Offsets []domain.Offset `yaml:"offsets"`
}

// LoadOffsets reads an ordered offset list from YAML:
//
//	offsets:
//	  - {dlon: 0.0005, dlat: 0}
func LoadOffsets(path string) ([]domain.Offset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load offsets: read %q: %w", path, err)
	}

	var f offsetsFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("load offsets: parse %q: %w", path, err)
	}
	if len(f.Offsets) == 0 {
		return nil, fmt.Errorf("load offsets: %q contains no offsets", path)
	}

	return f.Offsets, nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

func floatEnv(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return f, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}
