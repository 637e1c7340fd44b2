package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"production"`
	Storage    Storage    `yaml:"storage"`
	PGSQL      PQSQL      `yaml:"pgsql"`
	HTTPServer HTTPServer `yaml:"http_server"`
	JWTSecret  string     `yaml:"jwt_secret" env:"JWT_SECRET" env-default:"super_secret_key"`
	// AdminUserIDs are the only users allowed on the /admin routes.
	AdminUserIDs  []string      `yaml:"admin_user_ids" env:"ADMIN_USER_IDS" env-separator:","`
	Redis         Redis         `yaml:"redis"`
	ObjectStorage ObjectStorage `yaml:"object_storage"`
	Media         Media         `yaml:"media"`
	Cache         Cache         `yaml:"cache"`
	RateLimit     RateLimit     `yaml:"rate_limit"`
	Auditor       Auditor       `yaml:"auditor"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"5s"`
}

// Storage selects the video record backend: "postgres" or "memory".
type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres"`
}

type PQSQL struct {
	Host     string `yaml:"host" env:"PG_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"PG_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"PG_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"PG_PASSWORD" env-default:"password"`
	DBName   string `yaml:"dbname" env:"PG_DBNAME" env-default:"remix_db"`
	SSLMode  string `yaml:"sslmode" env:"PG_SSLMODE" env-default:"disable"`
}

type Redis struct {
	Address  string `yaml:"address" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// ObjectStorage configures the presigning backend: "minio" or "s3".
type ObjectStorage struct {
	Driver          string `yaml:"driver" env:"OBJECT_STORAGE_DRIVER" env-default:"minio"`
	Endpoint        string `yaml:"endpoint" env:"OBJECT_STORAGE_ENDPOINT" env-default:"localhost:9000"`
	AccessKeyID     string `yaml:"access_key_id" env:"OBJECT_STORAGE_ACCESS_KEY_ID" env-default:"minioadmin"`
	SecretAccessKey string `yaml:"secret_access_key" env:"OBJECT_STORAGE_SECRET_ACCESS_KEY" env-default:"minioadmin"`
	UseSSL          bool   `yaml:"use_ssl" env:"OBJECT_STORAGE_USE_SSL" env-default:"false"`
	BucketName      string `yaml:"bucket_name" env:"OBJECT_STORAGE_BUCKET" env-default:"remix-media"`
	Region          string `yaml:"region" env:"OBJECT_STORAGE_REGION" env-default:"us-east-1"`
}

// Media tunes download links and request sizes. Upload URLs always live for
// upload.UploadGrantTTL.
type Media struct {
	DownloadURLTTL     time.Duration `yaml:"download_url_ttl" env-default:"1h"`
	MaxFilesPerRequest int           `yaml:"max_files_per_request" env-default:"10"`
}

type Cache struct {
	Enabled  bool          `yaml:"enabled" env:"CACHE_ENABLED" env-default:"true"`
	VideoTTL time.Duration `yaml:"video_ttl" env-default:"10m"`
}

type RateLimit struct {
	UploadGrantsPerMinute   int64 `yaml:"upload_grants_per_minute" env-default:"30"`
	UploadCompletePerMinute int64 `yaml:"upload_complete_per_minute" env-default:"20"`
}

type Auditor struct {
	Interval time.Duration `yaml:"interval" env-default:"10m"`
	Limit    int           `yaml:"limit" env-default:"500"`
}

func MustLoad() *Config {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	var configPath string

	configPath = os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to config file")
		flag.Parse()
		configPath = *flags

		if configPath == "" {
			log.Fatal("config path must be provided")
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist at path: %s", configPath)
	}

	var cfg Config

	err := cleanenv.ReadConfig(configPath, &cfg)

	if err != nil {
		log.Fatalf("failed to read config: %s", err)
	}

	return &cfg
}
