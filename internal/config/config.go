package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type HTTPServer struct {
	Host string
	Port string
}

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisCache struct {
	Host     string
	Port     string
	Password string
}

type Kinopoisk struct {
	BaseURL string
	Version string
	APIKey  string
	Timeout time.Duration
}

type Posters struct {
	// Storage is "fs" or "s3".
	Storage string

	// Local storage.
	Dir string

	// S3 storage. S3ClientType "mock" points the SDK at S3Endpoint.
	Bucket       string
	Prefix       string
	S3ClientType string
	S3Endpoint   string
}

type Config struct {
	HTTP      HTTPServer
	Postgres  Postgres
	Redis     RedisCache
	Kinopoisk Kinopoisk
	Posters   Posters
}

const logtag = "[config]"

func Load() *Config {
	configPath := flag.String("config", "", "path env file")
	flag.Parse()

	if *configPath != "" {
		if err := godotenv.Load(*configPath); err != nil {
			log.Fatalf("%s err loading env from file : %v", logtag, err)
		}
		log.Printf("%s using env from : %s", logtag, *configPath)
	} else {
		log.Printf("%s using env from .env", logtag)
		_ = godotenv.Load()
	}

	cfg := &Config{
		HTTP:      *newHTTP(),
		Postgres:  *newPostgres(),
		Redis:     *newRedis(),
		Kinopoisk: *newKinopoisk(),
		Posters:   *newPosters(),
	}

	return cfg
}

func newHTTP() *HTTPServer {
	return &HTTPServer{
		Port: getenv("HTTP_PORT", "8080"),
		Host: getenv("HTTP_HOST", "localhost"),
	}
}

func newPostgres() *Postgres {
	return &Postgres{
		Host:     getenv("DB_HOST", "localhost"),
		Port:     getenv("DB_PORT", "5432"),
		User:     getenv("DB_USER", "admin"),
		Password: getenv("DB_PASSWORD", "shared"),
		DBName:   getenv("DB_NAME", "kinokreker"),
		SSLMode:  getenv("DB_SSLMODE", "disable"),
	}
}

func newRedis() *RedisCache {
	return &RedisCache{
		Port:     getenv("REDIS_PORT", "6379"),
		Host:     getenv("REDIS_HOST", "redis"),
		Password: getenv("REDIS_PASSWORD", "shared"),
	}
}

func newKinopoisk() *Kinopoisk {
	timeoutSec, err := strconv.Atoi(getenv("KINOPOISK_TIMEOUT_SEC", "10"))
	if err != nil {
		log.Fatalf("%s bad KINOPOISK_TIMEOUT_SEC : %v", logtag, err)
	}

	return &Kinopoisk{
		BaseURL: getenv("KINOPOISK_API_BASE_URL", "https://kinopoiskapiunofficial.tech/api"),
		Version: getenv("KINOPOISK_API_VERSION", "v2.2"),
		APIKey:  getenv("KINOPOISK_API_KEY", ""),
		Timeout: time.Duration(timeoutSec) * time.Second,
	}
}

func newPosters() *Posters {
	return &Posters{
		Storage:      getenv("POSTER_STORAGE", "fs"),
		Dir:          getenv("POSTER_DIR", "static/film_posters"),
		Bucket:       getenv("POSTER_S3_BUCKET", "kinokreker-posters"),
		Prefix:       getenv("POSTER_S3_PREFIX", "poster/"),
		S3ClientType: getenv("S3_CLIENT_TYPE", "real"),
		S3Endpoint:   getenv("MOCK_S3_ENDPOINT", "http://mock-s3-server:9090"),
	}
}

func getenv(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		fmt.Printf("%s %s undefined. Using default value %s\n", logtag, key, defaultValue)
		return defaultValue
	}
	return val
}
