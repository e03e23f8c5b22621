package database

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"OnTrack/config"
	dbotel "OnTrack/pkg/database"
	"OnTrack/pkg/logger"
)

var (
	db     *gorm.DB
	dbOnce sync.Once
	dbErr  error
)

func Init() error {
	dbOnce.Do(func() {
		dsn := config.Cfg.GetDSN()
		gormCfg := &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
			PrepareStmt:                              true,
			SkipDefaultTransaction:                   true,
		}

		var gormDB *gorm.DB
		gormDB, dbErr = gorm.Open(postgres.Open(dsn), gormCfg)
		if dbErr != nil {
			logger.Logger.Error("Failed to open database", zap.Error(dbErr))
			return
		}

		sqlDB, err := gormDB.DB()
		if err != nil {
			dbErr = err
			logger.Logger.Error("Failed to get sql.DB from gorm", zap.Error(err))
			return
		}

		configureConnectionPool(sqlDB)

		if err := sqlDB.Ping(); err != nil {
			dbErr = err
			logger.Logger.Error("Failed to ping database", zap.Error(err))
			return
		}

		if err := dbotel.InitDatabaseMetrics(otel.Meter("ontrack-db")); err != nil {
			logger.Logger.Warn("Failed to initialize database metrics", zap.Error(err))
		}
		if config.Cfg.TracingEnabled {
			if err := dbotel.WithDefaultOTELPlugin(gormDB, config.Cfg.ServiceName); err != nil {
				logger.Logger.Warn("Failed to attach gorm tracing plugin", zap.Error(err))
			}
		}

		db = gormDB
		if err := Migrate(); err != nil {
			logger.Logger.Fatal("failed to run database migration", zap.Error(err))
		}
		logger.Logger.Info("Database initialized successfully")
	})

	return dbErr
}

func DB() *gorm.DB {
	return db
}

func Close(ctx context.Context) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- sqlDB.Close()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

func configureConnectionPool(sqlDB *sql.DB) {
	cfg := config.Cfg

	sqlDB.SetMaxIdleConns(cfg.PostgreSQLMaxIdle)
	sqlDB.SetMaxOpenConns(cfg.PostgreSQLMaxOpen)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	sqlDB.SetConnMaxLifetime(2 * time.Hour)
}
