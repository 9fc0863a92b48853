package config

import (
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env      Env
	Minio    MinioConfig
	Upload   FileUploadConfig
	Share    ShareConfig
	Quota    QuotaConfig
	Auth     AuthConfig
	NATS     NATSConfig
	Database DatabaseConfig
	Server   ServerConfig
}

// WorkerConfig is the part of Config used by processes that serve no HTTP
type WorkerConfig struct {
	NATS     NATSConfig
	Database DatabaseConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"localhost"`
	Port            string        `envconfig:"SERVER_PORT" default:"8080"`
	MaxRequestBytes int64         `envconfig:"SERVER_MAX_REQUEST_BYTES" default:"16777216"` // 16MB, one base64 chunk
	RequestTimeout  time.Duration `envconfig:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

type MinioConfig struct {
	Endpoint   string `envconfig:"MINIO_ENDPOINT" required:"true"`
	BucketName string `envconfig:"MINIO_BUCKET_NAME" required:"true"`
	AccessKey  string `envconfig:"MINIO_ACCESS_KEY" required:"true"`
	SecretKey  string `envconfig:"MINIO_SECRET_KEY" required:"true"`
	UseSSL     bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

type FileUploadConfig struct {
	ChunkSize    uint32        `envconfig:"UPLOAD_CHUNK_SIZE" default:"10485760"`       // 10MB
	MaxFileSize  uint64        `envconfig:"UPLOAD_MAX_FILE_SIZE" default:"10737418240"` // 10GB
	SessionTTL   time.Duration `envconfig:"UPLOAD_SESSION_TTL" default:"30m"`
	CleanupEvery time.Duration `envconfig:"UPLOAD_CLEANUP_EVERY" default:"15m"`
}

type ShareConfig struct {
	BaseURL string `envconfig:"SHARE_BASE_URL" default:"http://localhost:8080/api/v1/xenbox/share"`
}

type QuotaConfig struct {
	DefaultSpaceAllowed uint64 `envconfig:"QUOTA_DEFAULT_SPACE_ALLOWED" default:"5368709120"` // 5GB
}

type AuthConfig struct {
	JWTSecret string `envconfig:"AUTH_JWT_SECRET" required:"true"`
	Issuer    string `envconfig:"AUTH_JWT_ISSUER" default:""`
}

type NATSConfig struct {
	URL           string `envconfig:"NATS_URL" default:""`
	StreamName    string `envconfig:"NATS_STREAM_NAME" default:"XENBOX"`
	SubjectPrefix string `envconfig:"NATS_SUBJECT_PREFIX" default:"xenbox"`
	Subject       string `envconfig:"NATS_SUBJECT" default:"xenbox.>"`
	ConsumerName  string `envconfig:"NATS_CONSUMER_NAME" default:"xenbox-audit"`
}

type DatabaseConfig struct {
	Host           string        `envconfig:"DB_HOST" required:"true"`
	Port           int           `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER" required:"true"`
	Password       string        `envconfig:"DB_PASSWORD" required:"true"`
	Name           string        `envconfig:"DB_NAME" required:"true"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenCons    int           `envconfig:"DB_MAX_OPEN_CONS" default:"25"`
	MaxIdleCons    int           `envconfig:"DB_MAX_IDLE_CONS" default:"5"`
	ConMaxLifeTime time.Duration `envconfig:"DB_CONMAX_LIFE_TIME" default:"5m"`
}

// URL returns the connection URL form of the database settings
func (c DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadWorker reads only the broker and database settings
func LoadWorker() (*WorkerConfig, error) {
	var cfg WorkerConfig

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
