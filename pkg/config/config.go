// Package config charge la configuration depuis l'environnement (.env optionnel).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"retail-insights/pkg/models"
	"retail-insights/pkg/segment"
)

// Sources de la table nettoyée.
const (
	SourceCSV      = "csv"
	SourceExcel    = "excel"
	SourceMySQL    = "mysql"
	SourcePostgres = "postgres"
)

// Config regroupe tous les paramètres. Load une seule fois au démarrage.
type Config struct {
	// DataSource : csv, excel, mysql ou postgres.
	DataSource string
	// DataPath : fichier CSV/XLSX nettoyé (sources fichier).
	DataPath string
	// CSVLatin1 décode le CSV en ISO-8859-1.
	CSVLatin1 bool
	// DSN : mariadb://, mysql:// ou postgres:// selon la source.
	DSN   string
	Table string

	ServerPort string
	LogLevel   string

	SegmentProfile     string
	SegmentProfilePath string

	ForecastSteps    int
	TopN             int
	WindowDays       int
	RefreshPerMinute int
}

// Load lit l'environnement après un godotenv.Load facultatif (.env par défaut).
func Load(envFiles ...string) *Config {
	_ = godotenv.Load(envFiles...)

	return &Config{
		DataSource:         strings.ToLower(getEnv("DATA_SOURCE", SourceCSV)),
		DataPath:           getEnv("DATA_PATH", "dataset/online_retail_clean.csv"),
		CSVLatin1:          getEnvBool("CSV_LATIN1", true),
		DSN:                getEnv("RETAIL_DSN", ""),
		Table:              getEnv("RETAIL_TABLE", "online_retail"),
		ServerPort:         getEnv("SERVER_PORT", "8000"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		SegmentProfile:     getEnv("SEGMENT_PROFILE", segment.FourTierName),
		SegmentProfilePath: getEnv("SEGMENT_PROFILE_PATH", ""),
		ForecastSteps:      getEnvInt("FORECAST_STEPS", 4),
		TopN:               getEnvInt("TOP_N", 50),
		WindowDays:         getEnvInt("WINDOW_DAYS", 60),
		RefreshPerMinute:   getEnvInt("REFRESH_PER_MINUTE", 1),
	}
}

// Validate vérifie la cohérence source / chemin / DSN.
func (c *Config) Validate() error {
	switch c.DataSource {
	case SourceCSV, SourceExcel:
		if c.DataPath == "" {
			return fmt.Errorf("%w: DATA_PATH is required for source %q", models.ErrConfiguration, c.DataSource)
		}
	case SourceMySQL, SourcePostgres:
		if c.DSN == "" {
			return fmt.Errorf("%w: RETAIL_DSN is required for source %q", models.ErrConfiguration, c.DataSource)
		}
	default:
		return fmt.Errorf("%w: unknown DATA_SOURCE %q", models.ErrConfiguration, c.DataSource)
	}
	if c.ForecastSteps < 1 || c.TopN < 1 || c.WindowDays < 1 {
		return fmt.Errorf("%w: FORECAST_STEPS, TOP_N and WINDOW_DAYS must be >= 1", models.ErrConfiguration)
	}
	return nil
}

// Profile retourne le profil de segmentation : fichier YAML s'il est fourni, sinon profil intégré.
func (c *Config) Profile() (segment.Profile, error) {
	if c.SegmentProfilePath != "" {
		return segment.LoadProfile(c.SegmentProfilePath)
	}
	return segment.ProfileByName(c.SegmentProfile)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}
