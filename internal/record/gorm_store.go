package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// A single row holds the whole session record; the fixed ID makes Save an
// upsert and Clear a plain delete.
const sessionRowID = "current"

// SessionModel is the GORM model for the session record.
type SessionModel struct {
	ID        string         `gorm:"primaryKey"`
	Payload   datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}

func (SessionModel) TableName() string { return "session_records" }

// GormStore implements Store using GORM + Postgres. Intended for kiosk
// deployments where the storefront shares a local database.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&SessionModel{}); err != nil {
		return nil, fmt.Errorf("migrate session_records: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Save(ctx context.Context, rec SessionRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}
	model := SessionModel{
		ID:        sessionRowID,
		Payload:   datatypes.JSON(payload),
		UpdatedAt: time.Now().UTC(),
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&model).Error
	if err != nil {
		return fmt.Errorf("save session record: %w", err)
	}
	return nil
}

func (s *GormStore) Load(ctx context.Context) (SessionRecord, bool, error) {
	var model SessionModel
	err := s.db.WithContext(ctx).First(&model, "id = ?", sessionRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return SessionRecord{}, false, nil
	}
	if err != nil {
		return SessionRecord{}, false, fmt.Errorf("load session record: %w", err)
	}
	var rec SessionRecord
	if err := json.Unmarshal(model.Payload, &rec); err != nil {
		return SessionRecord{}, false, fmt.Errorf("decode session record: %w", err)
	}
	return rec, true, nil
}

func (s *GormStore) Clear(ctx context.Context) error {
	err := s.db.WithContext(ctx).Delete(&SessionModel{}, "id = ?", sessionRowID).Error
	if err != nil {
		return fmt.Errorf("clear session record: %w", err)
	}
	return nil
}
