package payment

import (
	"time"

	"github.com/google/uuid"
)

// Payment is the persisted payment row. transaction_id carries a unique index.
type Payment struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TransactionID string     `gorm:"size:128;uniqueIndex;not null"`
	Amount        float64    `gorm:"type:numeric(14,2);not null"`
	Status        string     `gorm:"size:16;not null"`
	UserID        *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt     time.Time
}

// TableName specifies the table name for the Payment model.
func (Payment) TableName() string {
	return "payments"
}
