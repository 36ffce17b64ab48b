package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config agrupa toda la configuración del servicio.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int

	// S3-compatible object storage (logos de escuelas y archivos de jugadores).
	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageRegion    string
	LogosBucket      string
	PlayersBucket    string
	PublicBaseURL    string

	// Logo institucional usado en certificados de la corporación.
	CorporationLogoURL string
}

const defaultCorporationLogoURL = "https://via.placeholder.com/150/2c5aa0/FFFFFF?text=CFO"

// Load lee la configuración desde variables de entorno. Un .env local es
// opcional; su ausencia no es un error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	cfg := &Config{
		DatabaseURL:        dbURL,
		JWTSecretKey:       jwtKey,
		ServerPort:         port,
		StorageEndpoint:    os.Getenv("STORAGE_ENDPOINT"),
		StorageAccessKey:   os.Getenv("STORAGE_ACCESS_KEY_ID"),
		StorageSecretKey:   os.Getenv("STORAGE_SECRET_ACCESS_KEY"),
		StorageRegion:      getEnvOrDefault("STORAGE_REGION", "auto"),
		LogosBucket:        getEnvOrDefault("STORAGE_LOGOS_BUCKET", "team-logos"),
		PlayersBucket:      getEnvOrDefault("STORAGE_PLAYERS_BUCKET", "jugadores"),
		PublicBaseURL:      os.Getenv("STORAGE_PUBLIC_BASE_URL"),
		CorporationLogoURL: getEnvOrDefault("CORPORATION_LOGO_URL", defaultCorporationLogoURL),
	}

	if cfg.StorageEndpoint == "" || cfg.StorageAccessKey == "" || cfg.StorageSecretKey == "" || cfg.PublicBaseURL == "" {
		return nil, fmt.Errorf("object storage configuration is incomplete: STORAGE_ENDPOINT, STORAGE_ACCESS_KEY_ID, STORAGE_SECRET_ACCESS_KEY and STORAGE_PUBLIC_BASE_URL are required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
