package repository

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/commercekit/service-promotions/internal/config"
)

// Connect opens a gorm connection to PostgreSQL.
func Connect(cfg config.DatabaseConfig, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	logger.Info("connected to postgres",
		zap.String("host", cfg.Host),
		zap.String("db", cfg.DBName),
	)
	return db, nil
}

// Models returns every gorm model for dev auto-migration.
func Models() []interface{} {
	return []interface{}{
		&PriceListModel{},
		&MarketModel{},
		&SkuListModel{},
		&TagModel{},
		&PromotionModel{},
		&PromotionRuleModel{},
		&CouponModel{},
	}
}
