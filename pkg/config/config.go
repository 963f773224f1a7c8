package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Server    ServerConfig
	JWT       JWTConfig
	Seed      SeedConfig
	Geocoding GeocodingConfig
	Routing   RoutingConfig
	OCR       OCRConfig
	Share     ShareConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type JWTConfig struct {
	SecretKey  string
	TTLMinutes int
}

// SeedConfig controls the mock inventory generated at startup. All state
// lives in memory, nothing survives a restart.
type SeedConfig struct {
	Disabled        bool
	Rand            int64
	DefaultPassword string
	AdminUsers      []string
}

type GeocodingConfig struct {
	BaseURL string
}

type RoutingConfig struct {
	BaseURL string
}

type OCRConfig struct {
	BaseURL string
	APIKey  string
}

type ShareConfig struct {
	// 32-byte key for AES-CBC delivery share codes.
	CodeKey    string
	TTLMinutes int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	jwtTTL, err := strconv.Atoi(getEnv("TOKEN_TTL_MINUTES", "720"))
	if err != nil {
		return nil, errors.New("invalid token ttl")
	}

	shareTTL, err := strconv.Atoi(getEnv("SHARE_TTL_MINUTES", "1440"))
	if err != nil {
		return nil, errors.New("invalid share ttl")
	}

	seedRand, err := strconv.ParseInt(getEnv("SEED", "0"), 10, 64)
	if err != nil {
		return nil, errors.New("invalid seed")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Loja Conforto API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET", ""),
			TTLMinutes: jwtTTL,
		},
		Seed: SeedConfig{
			Disabled:        getEnv("SEED_DISABLED", "") == "true",
			Rand:            seedRand,
			DefaultPassword: getEnv("DEFAULT_PASSWORD", "lojaconforto"),
			AdminUsers:      splitList(getEnv("ADMIN_USERS", "ANA,JULIANO")),
		},
		Geocoding: GeocodingConfig{
			BaseURL: getEnv("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		},
		Routing: RoutingConfig{
			BaseURL: getEnv("OSRM_BASE_URL", "https://router.project-osrm.org"),
		},
		OCR: OCRConfig{
			BaseURL: getEnv("OCR_BASE_URL", "https://api.ocr.space/parse/image"),
			APIKey:  getEnv("OCR_API_KEY", ""),
		},
		Share: ShareConfig{
			CodeKey:    getEnv("SHARE_CODE_KEY", ""),
			TTLMinutes: shareTTL,
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Share.CodeKey != "" && len(cfg.Share.CodeKey) != 32 {
		return nil, errors.New("share code key must be 32 bytes")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
