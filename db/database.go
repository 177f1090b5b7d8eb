package db

import (
	"database/sql"
	"fmt"

	"waxcrate/config"
	"waxcrate/logger"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

// DB is the raw connection used by the repository layer.
var DB *sql.DB

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to MySQL",
		logger.String("host", cfg.DBHost),
		logger.String("database", cfg.DBName),
	)
	return nil
}

// CloseDB closes the raw connection.
func CloseDB() error {
	if DB == nil {
		return nil
	}
	return DB.Close()
}
