package history

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sepurlabs/sepurbot/internal/config"
)

// Connect establishes a gorm DB connection for the configured backend.
// SQLite is the default; postgres and mysql cover operators pooling attempt
// history across machines.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.HistoryBackend {
	case config.DatabaseSQLite:
		dialector = sqlite.Open(cfg.HistoryDSN)
	case config.DatabasePostgres:
		dialector = postgres.Open(cfg.HistoryDSN)
	case config.DatabaseMySQL:
		dialector = mysql.Open(cfg.HistoryDSN)
	default:
		return nil, fmt.Errorf("unknown history backend: %s", cfg.HistoryBackend)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// Close releases database resources.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
