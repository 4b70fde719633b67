package config

import (
	"os"
	"strconv"
)

// GetGeminiModel returns the Gemini text model to use from environment variable
// Defaults to "gemini-2.5-flash" if not set
func GetGeminiModel() string {
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		// Default to flash model if not specified
		return "gemini-2.5-flash"
	}
	return model
}

// GetImagenModel returns the image generation model from environment variable
// Defaults to "imagen-4.0-generate-001" if not set
func GetImagenModel() string {
	model := os.Getenv("IMAGEN_MODEL")
	if model == "" {
		return "imagen-4.0-generate-001"
	}
	return model
}

// GetGeminiAPIKey returns the Gemini API key from environment variable
func GetGeminiAPIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

// GetDatabasePath returns the path of the local asset database
func GetDatabasePath() string {
	path := os.Getenv("SPRITEFORGE_DB")
	if path == "" {
		return "spriteforge.db"
	}
	return path
}

// GetStorageQuotaBytes returns the storage quota for persisted collections.
// Defaults to 5 MiB, matching a typical browser localStorage allowance.
func GetStorageQuotaBytes() int64 {
	raw := os.Getenv("STORAGE_QUOTA_BYTES")
	if raw != "" {
		if quota, err := strconv.ParseInt(raw, 10, 64); err == nil && quota > 0 {
			return quota
		}
	}
	return 5 * 1024 * 1024
}

// GetAllowedOrigins returns the allowed CORS origins from environment variable
func GetAllowedOrigins() string {
	return os.Getenv("ALLOWED_ORIGINS")
}

// GetListenAddr returns the HTTP listen address
func GetListenAddr() string {
	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		return ":8080"
	}
	return addr
}

// GetLogMode selects between development and production logger output
func GetLogMode() string {
	return os.Getenv("LOG_MODE")
}
