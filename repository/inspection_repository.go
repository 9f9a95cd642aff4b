package repository

import (
	"errors"
	"fmt"

	"mediascope/db"
	"mediascope/model"

	"gorm.io/gorm"
)

// InspectionRepository defines the interface for inspection history operations.
type InspectionRepository interface {
	Create(record *model.InspectionRecord) error
	GetByID(id int64) (*model.InspectionRecord, error)
	ListRecent(limit int) ([]*model.InspectionRecord, error)
}

// gormInspectionRepository implements InspectionRepository on gorm.
type gormInspectionRepository struct {
	db *gorm.DB
}

// NewInspectionRepository creates a repository on the shared database handle.
func NewInspectionRepository() InspectionRepository {
	return &gormInspectionRepository{db: db.GormDB}
}

// NewInspectionRepositoryWithDB creates a repository on an explicit handle,
// used by tests.
func NewInspectionRepositoryWithDB(gdb *gorm.DB) InspectionRepository {
	return &gormInspectionRepository{db: gdb}
}

func (r *gormInspectionRepository) Create(record *model.InspectionRecord) error {
	if r.db == nil {
		return fmt.Errorf("database not initialized")
	}
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create inspection record: %w", err)
	}
	return nil
}

func (r *gormInspectionRepository) GetByID(id int64) (*model.InspectionRecord, error) {
	if r.db == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	var record model.InspectionRecord
	err := r.db.First(&record, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load inspection %d: %w", id, err)
	}
	return &record, nil
}

func (r *gormInspectionRepository) ListRecent(limit int) ([]*model.InspectionRecord, error) {
	if r.db == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	if limit <= 0 {
		limit = 50
	}

	var records []*model.InspectionRecord
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list inspections: %w", err)
	}
	return records, nil
}
