package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ResumeStorageInline = "inline"
	ResumeStorageS3     = "s3"
)

type Config struct {
	//App
	Env string // dev / staging / prod
	// SeedDevUsers creates the fixed demo accounts on start. Opt-in only.
	SeedDevUsers bool
	//HTTP
	HTTPAddr    string
	APIPrefix   string
	CORSOrigins []string
	//Auth / Security
	JWTSecret  string
	JWTIssuer  string
	BcryptCost int

	// Infrastructure
	DBAddr        string
	DBDebug       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RabbitURL     string
	RabbitExch    string

	// Rate limiting (fixed window per route, fail-open)
	RLEnabled bool
	RLLimit   int
	RLWindow  time.Duration

	// Uploads
	MaxResumeBytes int64
	ResumeStorage  string
	S3             S3Config

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// S3Config addresses an S3-compatible bucket (AWS, MinIO, R2) for resumes.
type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

func Load() (*Config, error) {
	// A local .env is optional; real deployments inject the environment.
	_ = godotenv.Load()

	cfg := &Config{
		Env:       getEnv("ENV", "dev"),
		HTTPAddr:  getEnv("HTTP_ADDR", ""),
		APIPrefix: normalizePrefix(getEnv("API_PREFIX", "/user")),
		JWTIssuer: getEnv("JWT_ISSUER", "job-portal"),
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":" + getEnv("PORT", "8080")
	}
	cfg.CORSOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "*"))

	// required values
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required env var: JWT_SECRET")
	}

	// DB_CONNECT is accepted for deployments migrated from the previous stack.
	cfg.DBAddr = firstNonEmpty(os.Getenv("DB_ADDR"), os.Getenv("DB_CONNECT"))
	if cfg.DBAddr == "" {
		return nil, fmt.Errorf("missing required env var: DB_ADDR")
	}

	var err error
	if cfg.DBDebug, err = getBool("DB_DEBUG", false); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = getInt("BCRYPT_COST", 10); err != nil {
		return nil, err
	}
	if cfg.SeedDevUsers, err = getBool("SEED_DEV_USERS", false); err != nil {
		return nil, err
	}
	if cfg.SeedDevUsers && cfg.Env == "prod" {
		return nil, fmt.Errorf("SEED_DEV_USERS cannot be enabled with ENV=prod")
	}

	// Optional backing services: empty disables them.
	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	cfg.RabbitURL = getEnv("RABBIT_URL", "")
	cfg.RabbitExch = getEnv("RABBIT_EXCHANGE", "job.portal")

	if cfg.RLEnabled, err = getBool("RL_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.RLLimit, err = getInt("RL_REQUESTS_LIMIT", 10); err != nil {
		return nil, err
	}
	if cfg.RLWindow, err = getDuration("RL_WINDOW", time.Minute); err != nil {
		return nil, err
	}

	maxResume, err := getInt("MAX_RESUME_BYTES", 5<<20)
	if err != nil {
		return nil, err
	}
	if maxResume <= 0 {
		return nil, fmt.Errorf("MAX_RESUME_BYTES must be positive")
	}
	cfg.MaxResumeBytes = int64(maxResume)

	cfg.ResumeStorage = strings.ToLower(getEnv("RESUME_STORAGE", ResumeStorageInline))
	switch cfg.ResumeStorage {
	case ResumeStorageInline:
	case ResumeStorageS3:
		if cfg.S3, err = loadS3(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("RESUME_STORAGE must be %q or %q, got %q", ResumeStorageInline, ResumeStorageS3, cfg.ResumeStorage)
	}

	//Timeout values are optional and have a default value if not
	if cfg.HTTPReadTimeout, err = getDuration("HTTP_READ_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPWriteTimeout, err = getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPIdleTimeout, err = getDuration("HTTP_IDLE_TIMEOUT", time.Minute); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadS3() (S3Config, error) {
	s := S3Config{
		Endpoint:        getEnv("S3_ENDPOINT", ""),
		Region:          getEnv("S3_REGION", "us-east-1"),
		Bucket:          getEnv("S3_BUCKET", ""),
		AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
	}
	if s.Bucket == "" {
		return S3Config{}, fmt.Errorf("missing required env var: S3_BUCKET (RESUME_STORAGE=s3)")
	}
	usePath, err := getBool("S3_USE_PATH_STYLE", true)
	if err != nil {
		return S3Config{}, err
	}
	s.UsePathStyle = usePath
	return s, nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}

func getInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %q: %w", key, v, err)
	}
	return i, nil
}

func getBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	switch strings.ToLower(v) {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean for %s: %q", key, v)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
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

func normalizePrefix(p string) string {
	p = "/" + strings.Trim(strings.TrimSpace(p), "/")
	if p == "/" {
		return ""
	}
	return p
}
