package fund

import (
	"time"

	"github.com/google/uuid"
)

// Fund is the persisted fund row. A partial unique index on status keeps at
// most one row in the active state.
type Fund struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"size:200;not null"`
	Description   string    `gorm:"type:text"`
	TargetAmount  float64   `gorm:"type:numeric(14,2);not null"`
	CurrentAmount float64   `gorm:"type:numeric(14,2);not null"`
	Status        string    `gorm:"size:16;not null;index"`
	StartDate     time.Time
	EndDate       *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName specifies the table name for the Fund model.
func (Fund) TableName() string {
	return "funds"
}
