package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"

	"socioportal/internal/config"
	"socioportal/internal/infrastructure/database"
	"socioportal/internal/model"
	"socioportal/internal/repository"
	"socioportal/pkg/dates"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func testConfig() *config.Config {
	return &config.Config{
		Kafka: config.KafkaConfig{
			Topic: config.KafkaTopicConfig{
				PointsEvents:      "test.points.events",
				ReservationEvents: "test.reservation.events",
			},
		},
		Business: config.BusinessConfig{
			SeniorityPoints:     10,
			ReservationHoldDays: 7,
			MaxRetryCount:       3,
		},
	}
}

var memberSeq int64

func seedMember(t *testing.T, db *gorm.DB, status string) *model.Member {
	t.Helper()

	n := atomic.AddInt64(&memberSeq, 1)
	member := &model.Member{
		MemberNo:     fmt.Sprintf("S%03d", n),
		Name:         fmt.Sprintf("Socio %d", n),
		Email:        fmt.Sprintf("socio%d@example.com", n),
		Role:         model.RoleSocio,
		Status:       status,
		RegisteredAt: dates.Today(),
	}
	if err := repository.NewMemberRepository(db).Create(context.Background(), nil, member); err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return member
}

func seedProduct(t *testing.T, db *gorm.DB, name, size string, stock int64) *model.Product {
	t.Helper()

	product := &model.Product{
		Name:   name,
		Price:  "25 EUR",
		Active: true,
		Variants: []model.ProductVariant{
			{Size: size, Stock: stock},
		},
	}
	if err := repository.NewProductRepository(db).Create(context.Background(), product); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func seedPrize(t *testing.T, db *gorm.DB, name string, cost, stock int64) *model.Prize {
	t.Helper()

	prize := &model.Prize{
		Name:       name,
		PointsCost: cost,
		Stock:      stock,
		Active:     true,
	}
	if err := repository.NewPrizeRepository(db).Create(context.Background(), prize); err != nil {
		t.Fatalf("seed prize: %v", err)
	}
	return prize
}

func variantStock(t *testing.T, db *gorm.DB, productID int64, size string) int64 {
	t.Helper()

	variant, err := repository.NewProductRepository(db).GetVariant(context.Background(), nil, productID, size)
	if err != nil {
		t.Fatalf("get variant: %v", err)
	}
	return variant.Stock
}

func memberPoints(t *testing.T, db *gorm.DB, memberID int64) int64 {
	t.Helper()

	member, err := repository.NewMemberRepository(db).GetByID(context.Background(), nil, memberID)
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	return member.Points
}
