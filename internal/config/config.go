// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageDriverMongoDB = "mongodb"
	StorageDriverMemory  = "memory"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int
	// MaxRequestBodyBytes caps the size of request bodies.
	MaxRequestBodyBytes int

	// StorageDriver selects the document store backend ("mongodb" or "memory").
	StorageDriver string
	// MongoDBURI is the connection string for the document database.
	MongoDBURI string
	// DBName is the database holding notes, vault notes and the key vault.
	DBName string
	// DBConnectTimeout bounds server selection during Connect.
	DBConnectTimeout time.Duration
	// DBOperationTimeout bounds every individual storage operation.
	DBOperationTimeout time.Duration

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// EncryptionKeyPath is the filesystem path of the 96-byte master key.
	EncryptionKeyPath string
	// KMSKeyURI, when set, means the master key file holds KMS ciphertext
	// that must be decrypted through this keeper URI.
	KMSKeyURI string
	// KeyVaultNamespace is the "<database>.<collection>" holding data keys.
	KeyVaultNamespace string
	// CSFLEDataKeyID is the data key used for vault fields (base64 or UUID text).
	CSFLEDataKeyID string
	// CSFLEDataKeyAltName is the alternate name given to the vault data key.
	CSFLEDataKeyAltName string
	// CSFLEKeyAlgorithm is the AEAD used to wrap data keys and encrypt fields.
	CSFLEKeyAlgorithm string
	// CryptSharedLibPath is accepted for deployment compatibility and logged only.
	CryptSharedLibPath string
	// VaultEncryptedFields is the comma-separated list of encrypted vault fields.
	VaultEncryptedFields string

	// EmbeddingAPIKey authenticates against the embeddings API. Empty disables embeddings.
	EmbeddingAPIKey string
	// EmbeddingAPIURL is the base URL of the OpenAI-compatible embeddings API.
	EmbeddingAPIURL string
	// EmbeddingModel is the embedding model name.
	EmbeddingModel string
	// EmbeddingTimeout bounds a single embeddings request.
	EmbeddingTimeout time.Duration

	// RateLimitEnabled indicates whether per-IP rate limiting is enabled.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the number of requests allowed per second per client IP.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size for rate limiting.
	RateLimitBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort: env.GetInt("SERVER_PORT", 3001),

		MaxRequestBodyBytes: env.GetInt("MAX_REQUEST_BODY_BYTES", 5<<20),

		// Storage configuration
		StorageDriver:      env.GetString("STORAGE_DRIVER", StorageDriverMongoDB),
		MongoDBURI:         env.GetString("MONGODB_URI", ""),
		DBName:             env.GetString("DB_NAME", "inkleaf"),
		DBConnectTimeout:   env.GetDuration("DB_CONNECT_TIMEOUT_SECONDS", 10, time.Second),
		DBOperationTimeout: env.GetDuration("DB_OPERATION_TIMEOUT_SECONDS", 10, time.Second),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Client-side field encryption
		EncryptionKeyPath:    env.GetString("ENCRYPTION_KEY_PATH", "./master-key.bin"),
		KMSKeyURI:            env.GetString("KMS_KEY_URI", ""),
		KeyVaultNamespace:    env.GetString("KEY_VAULT_NAMESPACE", "inkleaf.encryption_keyVault"),
		CSFLEDataKeyID:       env.GetString("CSFLE_DATA_KEY_ID", ""),
		CSFLEDataKeyAltName:  env.GetString("CSFLE_DATA_KEY_ALT_NAME", "vaultNotesKey"),
		CSFLEKeyAlgorithm:    env.GetString("CSFLE_KEY_ALGORITHM", "aes-gcm"),
		CryptSharedLibPath:   env.GetString("CRYPT_SHARED_LIB_PATH", ""),
		VaultEncryptedFields: env.GetString("VAULT_ENCRYPTED_FIELDS", "markdown"),

		// Embeddings
		EmbeddingAPIKey:  env.GetString("OPENAI_API_KEY", ""),
		EmbeddingAPIURL:  env.GetString("EMBEDDING_API_URL", "https://api.openai.com/v1"),
		EmbeddingModel:   env.GetString("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingTimeout: env.GetDuration("EMBEDDING_TIMEOUT_SECONDS", 30, time.Second),

		// Rate Limiting
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 10.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 20),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "inkleaf"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),
	}
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	if c.LogLevel == "debug" {
		return "debug"
	}
	return "release"
}

// KeyVaultDatabase returns the database part of KeyVaultNamespace, falling back to DBName.
func (c *Config) KeyVaultDatabase() string {
	db, _ := splitNamespace(c.KeyVaultNamespace)
	if db == "" {
		return c.DBName
	}
	return db
}

// KeyVaultCollection returns the collection part of KeyVaultNamespace.
func (c *Config) KeyVaultCollection() string {
	_, coll := splitNamespace(c.KeyVaultNamespace)
	if coll == "" {
		return "encryption_keyVault"
	}
	return coll
}

// EncryptedFields returns the trimmed, non-empty entries of VaultEncryptedFields.
func (c *Config) EncryptedFields() []string {
	var fields []string
	for _, f := range strings.Split(c.VaultEncryptedFields, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

func splitNamespace(ns string) (string, string) {
	db, coll, found := strings.Cut(ns, ".")
	if !found {
		return "", ""
	}
	return db, coll
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
