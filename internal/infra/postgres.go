package infra

import (
	"os"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"regpay/internal/models/db_models"
)

func InitPostgresql() *gorm.DB {
	dsn := os.Getenv("POSTGRES_URL")

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.WithError(err).Fatal("Error connecting to database")
	}

	// The unique index on payments.transaction_id is load-bearing: it is
	// what collapses concurrent first-sighting creates into one row.
	if err := db.AutoMigrate(
		&db_models.Payment{},
		&db_models.CompanyRequest{},
		&db_models.ServiceRequest{},
		&db_models.LedgerEntry{},
	); err != nil {
		log.WithError(err).Fatal("Error migrating database schema")
	}

	return db
}

func ClosePostgresql(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.WithError(err).Error("Error getting database instance")
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.WithError(err).Error("Error closing database connection")
	} else {
		log.Info("PostgreSQL database connection closed")
	}
}
