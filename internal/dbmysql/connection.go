package dbmysql

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gotwitter/internal/config"
)

// Models lists every table in migration order.
var Models = []interface{}{
	&User{},
	&Follow{},
	&Post{},
	&ReplyLink{},
	&RetweetLink{},
	&QuoteLink{},
	&LikeMark{},
	&MentionMark{},
	&MediaAttachment{},
	&Notification{},
}

// GormConfig is shared by production and test connections so duplicate keys
// surface as gorm.ErrDuplicatedKey everywhere.
func GormConfig(level logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	}
}

func dialector(cnf *config.Config) (gorm.Dialector, error) {
	switch cnf.Database.Driver {
	case "", "mysql":
		return mysql.Open(cnf.DSN()), nil
	case "postgres":
		return postgres.Open(cnf.DSN()), nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cnf.Database.Driver)
}

// NewDatabase opens the configured relational store and migrates the schema.
func NewDatabase(cnf *config.Config) (*gorm.DB, error) {
	dial, err := dialector(cnf)
	if err != nil {
		return nil, err
	}

	level := logger.Warn
	if cnf.Server.Environment == "development" {
		level = logger.Info
	}

	db, err := gorm.Open(dial, GormConfig(level))
	if err != nil {
		return nil, fmt.Errorf("cannot connect to %s: %w", cnf.Database.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql.DB error: %w", err)
	}
	sqlDB.SetMaxOpenConns(cnf.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cnf.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"driver": cnf.Database.Driver,
		"host":   cnf.Database.Host,
		"db":     cnf.Database.DatabaseName,
	}).Info("connected to database")

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
