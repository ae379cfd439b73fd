package testutils

import (
	"testing"
	"time"

	"github.com/institutsaintjean/evalhub/config"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GetTestConfig returns a config with fast, deterministic values for tests.
func GetTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name: "EvalHub Test",
			URL:  "http://localhost:8080",
		},
		Auth: config.AuthConfig{
			MinLength:              8,
			RequireLower:           true,
			RequireNumber:          true,
			BcryptCost:             4,
			EmailDomain:            "institutsaintjean.org",
			DefaultStudentPassword: "password123",
		},
		JWT: config.JWTConfig{
			SecretKey:    "test-secret-key-for-testing-only-0123456789",
			Issuer:       "evalhub-test",
			AccessExpiry: 15 * time.Minute,
		},
		Session: config.SessionConfig{
			RefreshExpiry:       7 * 24 * time.Hour,
			RefreshTokenLength:  64,
			MaxPerUser:          5,
			CleanupInterval:     time.Hour,
			InactivityThreshold: 30 * 24 * time.Hour,
			PurgeThreshold:      90 * 24 * time.Hour,
		},
		Import: config.ImportConfig{
			MaxRows: 2000,
		},
	}
}

func SetupTestDB(t *testing.T, models ...interface{}) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	if len(models) > 0 {
		err = db.AutoMigrate(models...)
		require.NoError(t, err)
	}

	return db
}

func CleanupTestDB(t *testing.T, db *gorm.DB, tables ...string) {
	for _, table := range tables {
		err := db.Exec("DELETE FROM " + table).Error
		require.NoError(t, err)
	}
}
