package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBDSN       string
	CacheDir    string
	MediaDir    string
	LogFile     string
	GeocoderURL string

	// Per-class cache TTLs.
	ListingsTTL time.Duration
	UsersTTL    time.Duration
	HeroTTL     time.Duration
}

func Load() Config {
	godotenv.Load()

	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		DBDSN:       getEnv("DB_DSN", "odapap.db"), // sqlite file in project root
		CacheDir:    getEnv("CACHE_DIR", "./cache"),
		MediaDir:    getEnv("MEDIA_DIR", "./web/media"),
		LogFile:     getEnv("LOG_FILE", "./odapap.log"),
		GeocoderURL: getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org/reverse"),
		ListingsTTL: getEnvDuration("LISTINGS_TTL", 5*time.Minute),
		UsersTTL:    getEnvDuration("USERS_TTL", 30*time.Minute),
		HeroTTL:     getEnvDuration("HERO_TTL", time.Hour),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s CACHE_DIR=%s LISTINGS_TTL=%s USERS_TTL=%s",
		cfg.Port, cfg.DBDSN, cfg.CacheDir, cfg.ListingsTTL, cfg.UsersTTL)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[config] bad duration for %s: %q, using %s", key, v, def)
		return def
	}
	return d
}
