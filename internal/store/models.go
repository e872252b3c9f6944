package store

import (
	"time"

	"gorm.io/datatypes"
)

// Run is one `semverlint run` invocation.
type Run struct {
	ID              string `gorm:"primaryKey;type:varchar(36)"`
	BaselineVersion string `gorm:"type:varchar(64)"`
	CurrentVersion  string `gorm:"type:varchar(64)"`
	HighestUpdate   string `gorm:"type:varchar(10)"`
	TotalFindings   int    `gorm:"default:0"`
	StartedAt       time.Time
	FinishedAt      time.Time
	Findings        []FindingRecord `gorm:"foreignKey:RunID"`
}

// FindingRecord is one emitted lint.Finding, persisted so later runs
// can be compared against run history.
type FindingRecord struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"`
	RunID          string `gorm:"type:varchar(36);index"`
	LintID         string `gorm:"type:varchar(100);index"`
	RequiredUpdate string `gorm:"type:varchar(10)"`
	Message        string `gorm:"type:text"`
	Bindings       datatypes.JSON
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}
