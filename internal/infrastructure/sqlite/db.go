package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open opens the embedded database file. The returned handle owns a small
// connection pool; requests borrow a dedicated connection from it through
// middleware.DBConn.
func Open(path string, maxOpenConns int, logLevel string, log *logrus.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{}
	if log != nil {
		gormCfg.Logger = logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  parseLogLevel(logLevel),
			IgnoreRecordNotFoundError: true,
		})
	} else {
		gormCfg.Logger = logger.Default.LogMode(parseLogLevel(logLevel))
	}

	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000"), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if maxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(maxOpenConns)
		sqlDB.SetMaxIdleConns(maxOpenConns)
	}
	return db, nil
}

// Initialize creates the user and dog tables when they are missing. Existing
// tables and rows are left untouched, so it is safe to run on every start.
func Initialize(ctx context.Context, db *gorm.DB, log *logrus.Logger) error {
	err := db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		return tx.AutoMigrate(&UserModel{}, &DogModel{})
	})
	if err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	if log != nil {
		log.WithField("tables", []string{UserModel{}.TableName(), DogModel{}.TableName()}).Info("tables created")
	}
	return nil
}

// Close releases every pooled connection.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func parseLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
