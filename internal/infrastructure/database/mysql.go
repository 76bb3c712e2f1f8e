package database

import (
	"fmt"
	"time"

	"socioportal/internal/config"
	"socioportal/internal/model"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// InitMySQL opens the MySQL connection and migrates the schema.
func InitMySQL(cfg *config.MySQLConfig) *gorm.DB {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mysql failed")
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("get sql.DB failed")
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate schema failed")
	}

	log.Info().Str("host", cfg.Host).Str("database", cfg.Database).Msg("mysql connected")
	return db
}

// Migrate creates/updates all tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Member{},
		&model.PointsEntry{},
		&model.Product{},
		&model.ProductVariant{},
		&model.Reservation{},
		&model.Prize{},
		&model.PrizeRedemption{},
		&model.Event{},
		&model.EventAttendance{},
		&model.Announcement{},
		&model.Comment{},
		&model.DJ{},
		&model.RadioConfig{},
		&model.OutboxMessage{},
	)
}
