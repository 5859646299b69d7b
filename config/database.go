package config

import (
	"EmotionTrackerGo/models"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB opens the database for the configured driver and migrates the schema.
func InitDB(config Config) error {
	dialector, err := dialectorFor(config)
	if err != nil {
		return err
	}

	logLevel := logger.Warn
	if config.Environment != "production" {
		logLevel = logger.Info
	}

	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return err
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	if config.DBDriver == "sqlite" {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return MigrateDB(DB)
}

func dialectorFor(config Config) (gorm.Dialector, error) {
	dsn := config.GetDBConnString()
	switch config.DBDriver {
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", config.DBDriver)
	}
}

// MigrateDB creates or updates the tables.
func MigrateDB(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.EmotionRecord{},
		&models.WeeklyGoal{},
		&models.SummarySnapshot{},
	)
	if err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}
	return nil
}
