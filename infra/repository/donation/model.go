package donation

import (
	"time"

	"github.com/google/uuid"
)

// Donation is the persisted donation row. Donor fields are flattened.
type Donation struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TransactionID string     `gorm:"size:128;uniqueIndex;not null"`
	Amount        float64    `gorm:"type:numeric(14,2);not null"`
	Status        string     `gorm:"size:16;not null"`
	PaymentMethod string     `gorm:"size:32;not null"`
	Purpose       string     `gorm:"size:255;not null"`
	DonorName     string     `gorm:"size:255;not null"`
	DonorEmail    string     `gorm:"size:255"`
	DonorPhone    string     `gorm:"size:32"`
	FundID        *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt     time.Time
}

// TableName specifies the table name for the Donation model.
func (Donation) TableName() string {
	return "donations"
}
