// Package payment holds the payment record created once per settled
// transaction identifier.
package payment

import (
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/donation/pkg/domain"
	"github.com/google/uuid"
)

// Status is the lifecycle state of a payment attempt.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Payment is the durable record of one payment attempt. TransactionID is
// unique across all payments and is never mutated after creation.
type Payment struct {
	ID            uuid.UUID  `json:"id"`
	TransactionID string     `json:"transactionId"`
	Amount        float64    `json:"amount"`
	Status        Status     `json:"status"`
	UserID        *uuid.UUID `json:"userId"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// New builds a completed payment for a verified transaction.
func New(transactionID string, amount float64, userID *uuid.UUID) (*Payment, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return nil, fmt.Errorf("%w: transactionId is required", domain.ErrInvalidInput)
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}
	return &Payment{
		ID:            uuid.New(),
		TransactionID: transactionID,
		Amount:        amount,
		Status:        StatusCompleted,
		UserID:        userID,
		CreatedAt:     time.Now().UTC(),
	}, nil
}
