package config

import (
	"database/sql"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yourusername/go-subgraph-bench/db/models"
)

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

func LoadDBConfig() DBConfig {
	_ = godotenv.Load()

	return DBConfig{
		Host:     getenv("DB_HOST", ""),
		Port:     getenv("DB_PORT", "5432"),
		User:     getenv("DB_USER", ""),
		Password: getenv("DB_PASSWORD", ""),
		DBName:   getenv("DB_NAME", ""),
	}
}

// Enabled reports whether a report database is configured.
func (c DBConfig) Enabled() bool {
	return c.Host != ""
}

func (c DBConfig) dsn(dbName string) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, dbName,
	)
}

func DropAndRecreateDatabase(cfg DBConfig) error {
	adminDB, err := sql.Open("postgres", cfg.dsn("postgres"))
	if err != nil {
		return errors.Wrap(err, "failed to connect to admin DB")
	}
	defer adminDB.Close()

	// Terminate any active connections
	_, _ = adminDB.Exec(`
		SELECT pg_terminate_backend(pid)
		FROM pg_stat_activity
		WHERE datname = $1 AND pid <> pg_backend_pid();`, cfg.DBName)

	quotedDBName := pq.QuoteIdentifier(cfg.DBName)

	if _, err := adminDB.Exec(`DROP DATABASE IF EXISTS ` + quotedDBName); err != nil {
		return errors.Wrap(err, "failed to drop database")
	}
	if _, err := adminDB.Exec(`CREATE DATABASE ` + quotedDBName); err != nil {
		return errors.Wrap(err, "failed to create database")
	}

	log.Info().Str("db", cfg.DBName).Msg("dropped and recreated database")
	return nil
}

// OpenDB opens the report database through lib/pq. Nothing is sent to the
// server until the first statement.
func OpenDB(cfg DBConfig, gormCfg *gorm.Config) (*gorm.DB, error) {
	if !cfg.Enabled() {
		return nil, errors.New("DB_HOST is not set")
	}
	sqlDB, err := sql.Open("postgres", cfg.dsn(cfg.DBName))
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	if gormCfg == nil {
		gormCfg = &gorm.Config{}
	}
	if gormCfg.Logger == nil {
		gormCfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormCfg)
	if err != nil {
		sqlDB.Close()
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	return db, nil
}

func ConnectDB() (*gorm.DB, error) {
	return OpenDB(LoadDBConfig(), nil)
}

// Tables returns the report models, in migration order.
func Tables() []interface{} {
	return []interface{}{
		&models.PipelineRun{},
		&models.SelectedUser{},
	}
}

func ResetDatabase(db *gorm.DB) error {
	if err := ResetSchema(db); err != nil {
		return err
	}
	if err := ResetSessionConfig(db); err != nil {
		return err
	}
	if err := ConfirmNoTables(db); err != nil {
		return err
	}
	return errors.Wrap(db.AutoMigrate(Tables()...), "migrate report tables")
}

func ResetSchema(db *gorm.DB) error {
	if err := db.Exec("DROP SCHEMA public CASCADE").Error; err != nil {
		return err
	}
	if err := db.Exec("CREATE SCHEMA public").Error; err != nil {
		return err
	}
	log.Info().Msg("dropped and recreated public schema")
	return nil
}

func ResetSessionConfig(db *gorm.DB) error {
	if err := db.Exec(`DISCARD ALL;`).Error; err != nil {
		return err
	}
	return db.Exec("RESET ALL").Error
}

func ConfirmNoTables(db *gorm.DB) error {
	var tables []string
	if err := db.Raw(`SELECT tablename FROM pg_tables WHERE schemaname = 'public'`).Scan(&tables).Error; err != nil {
		return errors.Wrap(err, "failed to query tables")
	}
	if len(tables) > 0 {
		return errors.Errorf("tables still exist after reset: %v", tables)
	}
	log.Info().Msg("verified: no user-defined tables remain")
	return nil
}
