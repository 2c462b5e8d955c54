package util

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultApiBaseUrl  = "http://localhost:5000"
	defaultListenAddr  = ":8080"
	defaultDbPath      = "tagmyidea.db"
	defaultJobInterval = 3 * time.Hour
	defaultTimeout     = 15 * time.Second
	defaultRateLimit   = 5
	defaultRateBurst   = 10
)

func InitConfig() {
	apiBaseUrl := strings.TrimRight(os.Getenv("API_BASE_URL"), "/")
	if apiBaseUrl == "" {
		slog.Warn("API_BASE_URL not set, using default", "url", defaultApiBaseUrl)
		apiBaseUrl = defaultApiBaseUrl
	}

	listenAddr := os.Getenv("LISTEN_ADDR")
	if listenAddr == "" {
		listenAddr = defaultListenAddr
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = defaultDbPath
	}

	frontend := os.Getenv("FRONTEND_URL")
	if frontend == "" {
		frontend = "*"
	}

	timeout := defaultTimeout
	if t, err := strconv.Atoi(os.Getenv("REQUEST_TIMEOUT")); err == nil && t > 0 {
		timeout = time.Duration(t) * time.Second
	}

	jobInterval := defaultJobInterval
	if j := os.Getenv("JOB_INTERVAL"); j != "" {
		d, err := time.ParseDuration(j)
		if err != nil {
			slog.Warn("Invalid JOB_INTERVAL, using default", "value", j)
		} else {
			jobInterval = d
		}
	}

	rateLimit := float64(defaultRateLimit)
	if l, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64); err == nil {
		rateLimit = l
	}

	rateBurst := defaultRateBurst
	if b, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST")); err == nil && b > 0 {
		rateBurst = b
	}

	var loggingWebhook *string
	if w := os.Getenv("LOGGING_WEBHOOK"); w != "" {
		loggingWebhook = &w
	}

	minioCfg := func() *minio {
		endpoint := os.Getenv("MINIO_ENDPOINT")
		access := os.Getenv("MINIO_ACCESS_KEY")
		secret := os.Getenv("MINIO_SECRET_KEY")
		if endpoint == "" || access == "" || secret == "" {
			return nil
		}
		bucket := os.Getenv("MINIO_BUCKET")
		if bucket == "" {
			bucket = "avatars"
		}
		return &minio{
			Endpoint:  endpoint,
			AccessKey: access,
			SecretKey: secret,
			Secure:    os.Getenv("MINIO_SECURE") == "1",
			Bucket:    bucket,
		}
	}()

	if minioCfg == nil {
		slog.Warn("MinIO not configured, profile photo uploads are disabled")
	}

	Config = config{
		StartTime:      time.Now().Unix(),
		Version:        os.Getenv("VERSION"),
		ApiBaseUrl:     apiBaseUrl,
		ListenAddr:     listenAddr,
		DbPath:         dbPath,
		FrontendUrl:    frontend,
		RequestTimeout: timeout,
		JobInterval:    jobInterval,
		RateLimit:      rateLimit,
		RateBurst:      rateBurst,
		LoggingWebhook: loggingWebhook,
		Minio:          minioCfg,
	}
}

var Config config

type config struct {
	StartTime      int64
	Version        string
	ApiBaseUrl     string
	ListenAddr     string
	DbPath         string
	FrontendUrl    string
	RequestTimeout time.Duration
	JobInterval    time.Duration
	RateLimit      float64
	RateBurst      int
	LoggingWebhook *string
	Minio          *minio
}

type minio struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Secure    bool
	Bucket    string
}
