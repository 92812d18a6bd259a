package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/learnhub-platform/learnhub-api/config"
	"github.com/learnhub-platform/learnhub-api/model"
	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage is what the HTTP layer needs from the database.
type Storage interface {
	DB() *gorm.DB
	HealthCheck() error
	Close() error
}

type GORMStore struct {
	db *gorm.DB
}

// NewGORMStore wraps an already opened connection (used by tests with sqlite).
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{db: db}
}

// StartGORM opens PostgreSQL through lib/pq and hands the pool to GORM.
func StartGORM(env *config.EnvironmentVariables) (*GORMStore, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		env.DB_HOST,
		env.DB_USER_NAME,
		env.DB_PASSWORD,
		env.DB_NAME,
		env.DB_PORT,
		env.DB_SSL_MODE,
	)

	connector, err := pq.NewConnector(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	sqlDB := sql.OpenDB(connector)

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	gormLogger := logger.Default.LogMode(logger.Info)
	if env.IsProduction() {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:      gormLogger,
		PrepareStmt: true,
		NowFunc:     func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		log.Errorf("Unable to connect to PostgreSQL with GORM: %v", err)
		return nil, err
	}

	log.Info("Successfully connected to PostgreSQL with GORM")
	return &GORMStore{db: db}, nil
}

// Init runs AutoMigrate for every model.
func (s *GORMStore) Init() error {
	log.Info("Running GORM AutoMigrate for all models...")
	if err := Migrate(s.db); err != nil {
		log.Errorf("Error running AutoMigrate: %v", err)
		return err
	}
	log.Info("GORM AutoMigrate completed")
	return nil
}

// Migrate creates or updates every table in model.All.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(model.All()...)
}

func (s *GORMStore) Close() error {
	log.Info("Closing database connection...")
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB returns the GORM handle for services and handlers.
func (s *GORMStore) DB() *gorm.DB {
	return s.db
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
