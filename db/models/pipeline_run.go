package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PipelineRun is one stage of one pipeline run. Stages of the same run
// share a RunID.
type PipelineRun struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	RunID      uuid.UUID      `gorm:"type:uuid;index;column:run_id"`
	Stage      string         `gorm:"size:64;column:stage"`
	Inputs     string         `gorm:"column:inputs"`
	Params     datatypes.JSON `gorm:"type:jsonb;column:params"`
	LinesRead  int64          `gorm:"column:lines_read"`
	Skipped    int64          `gorm:"column:skipped"`
	Emitted    int64          `gorm:"column:emitted"`
	Dropped    int64          `gorm:"column:dropped"`
	Users      int64          `gorm:"column:users"`
	DurationMS int64          `gorm:"column:duration_ms"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
}

func (PipelineRun) TableName() string {
	return "pipeline_runs"
}
