package database

import (
	"context"
	"fmt"
	"time"

	"github.com/ryanuo/aug-calc/src/config"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenGorm connects to the sqlite or mysql database named in cfg.
func OpenGorm(ctx context.Context, cfg *config.Config, secrets SecretReader) (*gorm.DB, error) {
	sqlCfg := cfg.Databases.SQL

	var dialector gorm.Dialector
	switch sqlCfg.Driver {
	case config.DriverSQLite:
		path := sqlCfg.ConnectionString
		if path == "" {
			path = sqlCfg.Database
		}
		dialector = sqlite.Open(path)
	case config.DriverMySQL:
		password, err := ResolvePassword(ctx, sqlCfg, secrets)
		if err != nil {
			return nil, err
		}
		dialector = mysql.Open(MySQLDSN(sqlCfg, password))
	default:
		return nil, fmt.Errorf("driver %q is not served by gorm", sqlCfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetConnMaxLifetime(time.Minute * 3)
	if sqlCfg.MaxConns > 0 {
		sqlDB.SetMaxOpenConns(int(sqlCfg.MaxConns))
		sqlDB.SetMaxIdleConns(int(sqlCfg.MaxConns))
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func MySQLDSN(cfg config.SQLConfig, password string) string {
	if cfg.ConnectionString != "" {
		return cfg.ConnectionString
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=UTC",
		cfg.Username, password, cfg.Host, cfg.Port, cfg.Database)
}

// CloseGorm closes the connection pool behind db.
func CloseGorm(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
