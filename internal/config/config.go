package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var DefaultEnvConfig *envConfig

// Record source backends selectable with RECORD_SOURCE.
const (
	RecordSourceDatastore = "datastore"
	RecordSourcePostgres  = "postgres"
	RecordSourceElastic   = "elastic"
)

type envConfig struct {
	// app config
	APP_PORT string
	APP_ENV  string
	// logger config
	LOG_FILE_PATH string
	LOG_LEVEL     string
	// record source config
	RECORD_SOURCE string
	FETCH_TIMEOUT time.Duration
	// datastore config
	GCP_PROJECT_ID string
	POLICY_KIND    string
	EVIDENCE_KIND  string
	// database config
	DB_HOST              string
	DB_PORT              int
	DB_USER              string
	DB_PASSWORD          string
	DB_NAME              string
	DB_SSL_MODE          string
	DB_CONN_MAX_LIFETIME time.Duration
	DB_MAX_IDLE_CONNS    int
	DB_MAX_OPEN_CONNS    int
	// elasticsearch config
	ES_URL            string
	ES_SNIFF          bool
	ES_POLICY_INDEX   string
	ES_EVIDENCE_INDEX string
	// report config
	TEMPLATE_PATH string
	LAYOUT_PATH   string
}

// IsDevelopment reports whether error details may be exposed to clients.
func (c *envConfig) IsDevelopment() bool {
	return strings.EqualFold(c.APP_ENV, "development")
}

// LoadEnvConfig reads .env when present and populates DefaultEnvConfig.
func LoadEnvConfig() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	DefaultEnvConfig = &envConfig{
		APP_PORT:             getEnvString("APP_PORT", "3333"),
		APP_ENV:              getEnvString("APP_ENV", "production"),
		LOG_FILE_PATH:        getEnvString("LOG_FILE_PATH", ""),
		LOG_LEVEL:            getEnvString("LOG_LEVEL", "info"),
		RECORD_SOURCE:        getEnvString("RECORD_SOURCE", RecordSourceDatastore),
		FETCH_TIMEOUT:        getEnvDuration("FETCH_TIMEOUT", 60*time.Second),
		GCP_PROJECT_ID:       getEnvString("GCP_PROJECT_ID", ""),
		POLICY_KIND:          getEnvString("POLICY_KIND", "UserSelectedDocuments"),
		EVIDENCE_KIND:        getEnvString("EVIDENCE_KIND", "Evidence_Metadata"),
		DB_HOST:              getEnvString("DB_HOST", "localhost"),
		DB_PORT:              getEnvInt("DB_PORT", 5432),
		DB_USER:              getEnvString("DB_USER", "postgres"),
		DB_PASSWORD:          getEnvString("DB_PASSWORD", "postgres"),
		DB_NAME:              getEnvString("DB_NAME", "postgres"),
		DB_SSL_MODE:          getEnvString("DB_SSL_MODE", "disable"),
		DB_CONN_MAX_LIFETIME: getEnvDuration("DB_CONN_MAX_LIFETIME", 20*time.Minute),
		DB_MAX_IDLE_CONNS:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
		DB_MAX_OPEN_CONNS:    getEnvInt("DB_MAX_OPEN_CONNS", 100),
		ES_URL:               getEnvString("ES_URL", "http://localhost:9200"),
		ES_SNIFF:             getEnvBool("ES_SNIFF", false),
		ES_POLICY_INDEX:      getEnvString("ES_POLICY_INDEX", "user_selected_documents"),
		ES_EVIDENCE_INDEX:    getEnvString("ES_EVIDENCE_INDEX", "evidence_metadata"),
		TEMPLATE_PATH:        getEnvString("TEMPLATE_PATH", "template/PIM template.xlsx"),
		LAYOUT_PATH:          getEnvString("LAYOUT_PATH", ""),
	}
	return nil
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if i, err := strconv.Atoi(val); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}
