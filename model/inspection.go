package model

import "time"

// Inspection statuses.
const (
	InspectionCompleted = "completed"
	InspectionFailed    = "failed"
)

// InspectionRecord is one logged extraction run.
type InspectionRecord struct {
	ID         int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Input      string     `json:"input" gorm:"size:512;index"`
	Engine     string     `json:"engine" gorm:"size:32"`
	Format     InfoFormat `json:"format" gorm:"size:8"`
	Full       bool       `json:"full"`
	ReportPath string     `json:"reportPath,omitempty" gorm:"size:512"` // Empty for inline runs
	ArchiveURL string     `json:"archiveUrl,omitempty" gorm:"size:512"` // Object path when archived to MinIO
	Status     string     `json:"status" gorm:"size:16;index"`
	Error      string     `json:"error,omitempty" gorm:"size:1024"`
	DurationMs int64      `json:"durationMs"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// TableName keeps the table name stable regardless of gorm's pluralization.
func (InspectionRecord) TableName() string {
	return "inspections"
}
