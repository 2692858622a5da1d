package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	Port           string
	RequestTimeout time.Duration

	// Store base URLs (inside docker network recommended)
	CartStoreURL  string
	OrderStoreURL string

	// Image host for payment screenshots
	ImageUploadURL    string
	ImageUploadPreset string
}

func Load() Config {
	cfg := Config{
		Port:           getenv("PORT", "8080"),
		RequestTimeout: parseDuration(getenv("REQUEST_TIMEOUT", "10s"), 10*time.Second),

		CartStoreURL:  getenv("CART_STORE_URL", "http://cart-store:8081"),
		OrderStoreURL: getenv("ORDER_STORE_URL", "http://order-store:8082"),

		ImageUploadURL:    getenv("IMAGE_UPLOAD_URL", "https://api.cloudinary.com/v1_1/dccklqtaw/image/upload"),
		ImageUploadPreset: getenv("IMAGE_UPLOAD_PRESET", "designsByAfreen"),
	}

	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
