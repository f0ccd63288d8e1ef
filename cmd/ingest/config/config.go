package config

import "time"

// Config holds application configuration.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`

	SourceBaseURL string        `env:"SOURCE_BASE_URL" envDefault:"https://www.stroymet-shop.ru"`
	HTTPTimeout   time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	FetchDelay    time.Duration `env:"FETCH_DELAY" envDefault:"150ms"`

	DetailConcurrency int `env:"DETAIL_CONCURRENCY" envDefault:"30"`
	UpdateConcurrency int `env:"UPDATE_CONCURRENCY" envDefault:"10"`
	BatchSize         int `env:"BATCH_SIZE" envDefault:"100"`

	StatusAddr string `env:"STATUS_ADDR" envDefault:":8085"`

	Minio Minio
}

// Minio holds object storage configuration for the image mirror.
type Minio struct {
	Endpoint  string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	Secure    bool   `env:"MINIO_SECURE" envDefault:"false"`
	Bucket    string `env:"MINIO_BUCKET" envDefault:"catalog"`
	PublicURL string `env:"MINIO_PUBLIC_URL"`
	Folder    string `env:"MINIO_FOLDER" envDefault:"products"`
}
