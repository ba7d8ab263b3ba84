// Package events defines the domain events published after state changes.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is anything that can travel on the event bus.
type Event interface {
	Type() string
}

// EventType represents the type of an event in the system.
type EventType string

const (
	EventTypeDonationSettled EventType = "Donation.Settled"
	EventTypeFundCompleted   EventType = "Fund.Completed"
	EventTypeFundActivated   EventType = "Fund.Activated"
)

func (t EventType) String() string { return string(t) }

// EventTypes maps an event type to a constructor, used by the remote buses
// to decode payloads.
var EventTypes = map[string]func() Event{
	EventTypeDonationSettled.String(): func() Event { return &DonationSettled{} },
	EventTypeFundCompleted.String():   func() Event { return &FundCompleted{} },
	EventTypeFundActivated.String():   func() Event { return &FundActivated{} },
}

// DonationSettled is emitted once a settlement transaction commits.
type DonationSettled struct {
	ID            uuid.UUID  `json:"id"`
	TransactionID string     `json:"transactionId"`
	DonationID    uuid.UUID  `json:"donationId"`
	PaymentID     uuid.UUID  `json:"paymentId"`
	UserID        *uuid.UUID `json:"userId,omitempty"`
	Amount        float64    `json:"amount"`
	Purpose       string     `json:"purpose"`
	PaymentMethod string     `json:"paymentMethod"`
	DonorName     string     `json:"donorName"`
	DonorEmail    string     `json:"donorEmail,omitempty"`
	FundID        uuid.UUID  `json:"fundId"`
	FundName      string     `json:"fundName"`
	FundStatus    string     `json:"fundStatus"`
	CurrentAmount float64    `json:"currentAmount"`
	TargetAmount  float64    `json:"targetAmount"`
	SettledAt     time.Time  `json:"settledAt"`
}

func (e *DonationSettled) Type() string { return EventTypeDonationSettled.String() }

// FundCompleted is emitted when a donation pushes a fund to its target.
type FundCompleted struct {
	ID            uuid.UUID `json:"id"`
	FundID        uuid.UUID `json:"fundId"`
	FundName      string    `json:"fundName"`
	CurrentAmount float64   `json:"currentAmount"`
	TargetAmount  float64   `json:"targetAmount"`
	TransactionID string    `json:"transactionId"`
	CompletedAt   time.Time `json:"completedAt"`
}

func (e *FundCompleted) Type() string { return EventTypeFundCompleted.String() }

// FundActivated is emitted when an administrator switches the active fund.
type FundActivated struct {
	ID          uuid.UUID  `json:"id"`
	FundID      uuid.UUID  `json:"fundId"`
	PreviousID  *uuid.UUID `json:"previousId,omitempty"`
	ActivatedAt time.Time  `json:"activatedAt"`
}

func (e *FundActivated) Type() string { return EventTypeFundActivated.String() }
