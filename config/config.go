package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

type AppConfig struct {
	Environment string          `yaml:"environment"`
	Logging     LoggingConfig   `yaml:"logging"`
	Server      ServerConfig    `yaml:"server"`
	Storage     StorageConfig   `yaml:"storage"`
	WordPress   WordPressConfig `yaml:"wordpress"`
	Favicon     FaviconConfig   `yaml:"favicon"`
	Auth        AuthConfig      `yaml:"auth"`
	Events      EventsConfig    `yaml:"events"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// StorageConfig selects the blog/user repository backend.
// Driver is one of memory, mongo, postgres, sqlite.
type StorageConfig struct {
	Driver      string `yaml:"driver"`
	MongoURI    string `yaml:"mongo_uri"`
	MongoDBName string `yaml:"mongo_db"`
	PostgresDSN string `yaml:"postgres_dsn"`
	SQLitePath  string `yaml:"sqlite_path"`
}

// WordPressConfig 는 WordPress REST API 호출에 대한 제한값을 정의한다.
type WordPressConfig struct {
	// RequestTimeout 은 미디어 업로드, 포스트 발행, 연결 테스트 각각에 독립적으로 적용된다.
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ProbeRouteLimit int           `yaml:"probe_route_limit"`
	// MaxUploadBytes 는 featured_media 첨부 파일의 최대 크기이다.
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	UserAgent      string `yaml:"user_agent"`
}

type FaviconConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	FallbackURL string        `yaml:"fallback_url"`
}

type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	JWTIssuer     string `yaml:"jwt_issuer"`
	WebhookSecret string `yaml:"webhook_secret"`
}

type EventsConfig struct {
	KafkaBrokers string `yaml:"kafka_brokers"`
	TopicPrefix  string `yaml:"topic_prefix"`
}

// IsProduction reports whether the service runs in a production execution context.
func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Environment, EnvProduction)
}

var config *AppConfig

func InitApp() {
	c, err := Load(GetBasePath())
	if err != nil {
		panic(err)
	}
	config = &c
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

// Load reads dir/.env and dir/config.yaml, applies environment overrides and
// fills defaults. A missing config file is not an error.
func Load(dir string) (AppConfig, error) {
	// .env 는 선택 사항이다. 이미 설정된 환경변수는 덮어쓰지 않는다.
	_ = godotenv.Load(filepath.Join(dir, ENV_FILE))

	var c AppConfig
	data, err := os.ReadFile(filepath.Join(dir, CONFIG_FILE))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &c); err != nil {
			return AppConfig{}, fmt.Errorf("parse %s: %w", CONFIG_FILE, err)
		}
	case os.IsNotExist(err):
	default:
		return AppConfig{}, fmt.Errorf("read %s: %w", CONFIG_FILE, err)
	}

	applyEnv(&c)
	applyDefaults(&c)
	return c, nil
}

func applyEnv(c *AppConfig) {
	overrides := []struct {
		key    string
		target *string
	}{
		{"APP_ENV", &c.Environment},
		{"LOG_LEVEL", &c.Logging.Level},
		{"HTTP_ADDR", &c.Server.Addr},
		{"STORAGE_DRIVER", &c.Storage.Driver},
		{"MONGO_URI", &c.Storage.MongoURI},
		{"MONGO_DB", &c.Storage.MongoDBName},
		{"DATABASE_URL", &c.Storage.PostgresDSN},
		{"SQLITE_PATH", &c.Storage.SQLitePath},
		{"JWT_SECRET", &c.Auth.JWTSecret},
		{"JWT_ISSUER", &c.Auth.JWTIssuer},
		{"CLERK_WEBHOOK_SIGNING_SECRET", &c.Auth.WebhookSecret},
		{"KAFKA_BOOTSTRAP_SERVERS", &c.Events.KafkaBrokers},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(os.Getenv(o.key)); v != "" {
			*o.target = v
		}
	}
}

func applyDefaults(c *AppConfig) {
	if c.Environment == "" {
		c.Environment = EnvDevelopment
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"*"}
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Storage.MongoDBName == "" {
		c.Storage.MongoDBName = "wpdispatch"
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = filepath.Join("data", "wpdispatch.db")
	}
	if c.WordPress.RequestTimeout <= 0 {
		c.WordPress.RequestTimeout = 15 * time.Second
	}
	if c.WordPress.ProbeRouteLimit <= 0 {
		c.WordPress.ProbeRouteLimit = 10
	}
	if c.WordPress.MaxUploadBytes <= 0 {
		c.WordPress.MaxUploadBytes = 5 << 20
	}
	if c.WordPress.UserAgent == "" {
		c.WordPress.UserAgent = "wp-dispatch/1.0"
	}
	if c.Favicon.Timeout <= 0 {
		c.Favicon.Timeout = 5 * time.Second
	}
	if c.Favicon.FallbackURL == "" {
		c.Favicon.FallbackURL = "https://www.google.com/s2/favicons?domain=%s&sz=128"
	}
	if c.Auth.JWTIssuer == "" {
		c.Auth.JWTIssuer = "wp-dispatch"
	}
	if c.Events.TopicPrefix == "" {
		c.Events.TopicPrefix = "wp-dispatch"
	}
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return cwd
}
