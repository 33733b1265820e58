package db

import (
	"errors"
	"log"

	"facecheck/config"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Instance is nil when no database is configured; history and the reference cache are off then.
var Instance *gorm.DB

var ErrNotConfigured = errors.New("no database configured")

func Init() error {
	var dialector gorm.Dialector
	if config.MYSQL_DSN != "" {
		dsn, err := NormalizeMySQLDSN(config.MYSQL_DSN)
		if err != nil {
			return err
		}
		dialector = mysql.Open(dsn)
	} else if config.SQLITE_FILE != "" {
		dialector = sqlite.Open(config.SQLITE_FILE)
	} else {
		return ErrNotConfigured
	}
	db, err := Open(dialector)
	if err != nil {
		return err
	}
	Instance = db
	return nil
}

func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	}
	if !config.DEBUG_MODE {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, err
	}
	log.Printf("Database connected: %s", dialector.Name())
	return db, nil
}

// NormalizeMySQLDSN makes sure time columns are parsed and utf8mb4 is used
func NormalizeMySQLDSN(dsn string) (string, error) {
	cfg, err := mysqldriver.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	cfg.ParseTime = true
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	if _, ok := cfg.Params["charset"]; !ok {
		cfg.Params["charset"] = "utf8mb4"
	}
	return cfg.FormatDSN(), nil
}
