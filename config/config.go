package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	DevMode bool

	MongoURI     string
	DatabaseName string

	JWTSecret        string
	JWTRefreshSecret string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	CookieSecure     bool
	CookieDomain     string

	AllowedOrigins []string

	Media MediaConfig

	OrderNumberPrefix string
	OrderStatusStrict bool
	FacetCacheTTL     time.Duration
	ProductListLimit  int

	SeedVendorEmail    string
	SeedVendorPassword string
	SeedVendorName     string
}

type MediaConfig struct {
	Backend string // cloudinary, gcs, r2 or none

	CloudinaryURL    string
	CloudinaryFolder string

	GCSBucket       string
	CredentialsFile string

	R2Bucket       string
	R2AccessKeyID  string
	R2SecretKey    string
	R2Endpoint     string
	R2PublicDomain string

	MaxUploadSizeMB   int
	AllowedExtensions []string
	AllowedMimeTypes  []string
}

// Load reads .env when present and then the process environment.
func Load() *Config {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Println("Error loading .env file:", err)
		}
	} else {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		Port:    getEnv("PORT", "8080"),
		DevMode: getBool("DEV_MODE", false),

		MongoURI:     getEnv("MONGODB_URI", ""),
		DatabaseName: getEnv("DATABASE_NAME", "dryp"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTRefreshSecret: getEnv("JWT_REFRESH_SECRET", ""),
		AccessTTL:        time.Duration(getInt("ACCESS_TOKEN_TTL_MINUTES", 15)) * time.Minute,
		RefreshTTL:       time.Duration(getInt("REFRESH_TOKEN_TTL_DAYS", 14)) * 24 * time.Hour,
		CookieSecure:     getBool("COOKIE_SECURE", false),
		CookieDomain:     getEnv("COOKIE_DOMAIN", ""),

		AllowedOrigins: getList("ALLOWED_ORIGINS", nil),

		Media: MediaConfig{
			Backend:           strings.ToLower(getEnv("MEDIA_BACKEND", "none")),
			CloudinaryURL:     getEnv("CLOUDINARY_URL", ""),
			CloudinaryFolder:  getEnv("CLOUDINARY_FOLDER", "DRYP_PROD"),
			GCSBucket:         getEnv("GCS_BUCKET", ""),
			CredentialsFile:   getEnv("CREDENTIALS_FILE_LOCATION", ""),
			R2Bucket:          getEnv("R2_BUCKET", ""),
			R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
			R2SecretKey:       getEnv("R2_SECRET_ACCESS_KEY", ""),
			R2Endpoint:        getEnv("R2_ENDPOINT", ""),
			R2PublicDomain:    getEnv("R2_PUBLIC_DOMAIN", ""),
			MaxUploadSizeMB:   getInt("MAX_UPLOAD_SIZE_MB", 5),
			AllowedExtensions: getList("ALLOWED_FILE_EXTENSIONS", []string{".jpg", ".jpeg", ".png", ".gif"}),
			AllowedMimeTypes:  getList("ALLOWED_FILE_MIME_TYPES", []string{"image/jpeg", "image/png", "image/gif"}),
		},

		OrderNumberPrefix: getEnv("ORDER_NUMBER_PREFIX", "DRYP"),
		OrderStatusStrict: getBool("ORDER_STATUS_STRICT", false),
		FacetCacheTTL:     time.Duration(getInt("FACET_CACHE_TTL_SECONDS", 300)) * time.Second,
		ProductListLimit:  getInt("PRODUCT_LIST_LIMIT", 50),

		SeedVendorEmail:    strings.ToLower(strings.TrimSpace(getEnv("SEED_VENDOR_EMAIL", ""))),
		SeedVendorPassword: getEnv("SEED_VENDOR_PASSWORD", ""),
		SeedVendorName:     getEnv("SEED_VENDOR_NAME", "DRYP Demo Store"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return b
}

func getList(key string, fallback []string) []string {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}
