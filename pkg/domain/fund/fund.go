// Package fund implements the goal-tracked pool that donations accumulate into.
package fund

import (
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/donation/pkg/domain"
	"github.com/google/uuid"
)

var (
	// ErrFundHasDonations is returned when deleting a fund that already holds money.
	ErrFundHasDonations = fmt.Errorf("%w: fund has received donations", domain.ErrConflict)
	// ErrInvalidTransition is returned for a status change the lifecycle does not allow.
	ErrInvalidTransition = fmt.Errorf("%w: invalid fund status transition", domain.ErrConflict)
	// ErrFundNotActive is returned when applying a donation to a fund that is not active.
	ErrFundNotActive = fmt.Errorf("%w: fund is not active", domain.ErrNoActiveFund)
)

// Status is the lifecycle state of a fund.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusCompleted:
		return true
	}
	return false
}

// Fund is a running total against a target.
//
// Invariants:
//   - TargetAmount > 0 and CurrentAmount >= 0.
//   - CurrentAmount never decreases through ApplyDonation.
//   - Once completed, a fund never changes status again.
type Fund struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	TargetAmount  float64    `json:"targetAmount"`
	CurrentAmount float64    `json:"currentAmount"`
	Status        Status     `json:"status"`
	StartDate     time.Time  `json:"startDate"`
	EndDate       *time.Time `json:"endDate,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// New creates a pending fund with no money in it.
func New(name, description string, target float64, start time.Time, end *time.Time) (*Fund, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: fund name is required", domain.ErrInvalidInput)
	}
	if err := domain.ValidateAmount(target); err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}
	if start.IsZero() {
		start = time.Now().UTC()
	}
	if end != nil && end.Before(start) {
		return nil, fmt.Errorf("%w: end date precedes start date", domain.ErrInvalidInput)
	}
	now := time.Now().UTC()
	return &Fund{
		ID:           uuid.New(),
		Name:         name,
		Description:  description,
		TargetAmount: target,
		Status:       StatusPending,
		StartDate:    start,
		EndDate:      end,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ApplyDonation adds amount to the running total and completes the fund when
// the target is reached.
func (f *Fund) ApplyDonation(amount float64) error {
	if err := domain.ValidateAmount(amount); err != nil {
		return err
	}
	if f.Status != StatusActive {
		return ErrFundNotActive
	}
	f.CurrentAmount += amount
	if f.CurrentAmount >= f.TargetAmount {
		f.Status = StatusCompleted
	}
	f.UpdatedAt = time.Now().UTC()
	return nil
}

// Activate makes the fund the one accepting donations.
func (f *Fund) Activate() error {
	switch f.Status {
	case StatusActive:
		return nil
	case StatusCompleted:
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, f.Status, StatusActive)
	}
	f.Status = StatusActive
	f.UpdatedAt = time.Now().UTC()
	return nil
}

// Suspend returns an active fund to pending.
func (f *Fund) Suspend() error {
	if f.Status == StatusCompleted {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, f.Status, StatusPending)
	}
	f.Status = StatusPending
	f.UpdatedAt = time.Now().UTC()
	return nil
}

// SetTarget changes the goal. Reaching it through a lower target does not
// complete the fund; only a donation does.
func (f *Fund) SetTarget(target float64) error {
	if err := domain.ValidateAmount(target); err != nil {
		return fmt.Errorf("target: %w", err)
	}
	f.TargetAmount = target
	f.UpdatedAt = time.Now().UTC()
	return nil
}

// CanDelete returns ErrFundHasDonations once any money was received.
func (f *Fund) CanDelete() error {
	if f.CurrentAmount > 0 {
		return ErrFundHasDonations
	}
	return nil
}

// Progress is a read-only summary of how far a fund is from its target.
type Progress struct {
	FundID        uuid.UUID `json:"fundId"`
	Name          string    `json:"name"`
	Status        Status    `json:"status"`
	TargetAmount  float64   `json:"targetAmount"`
	CurrentAmount float64   `json:"currentAmount"`
	Remaining     float64   `json:"remaining"`
	Percent       float64   `json:"percent"`
}

// Progress summarises the fund.
func (f *Fund) Progress() Progress {
	remaining := f.TargetAmount - f.CurrentAmount
	if remaining < 0 {
		remaining = 0
	}
	percent := 0.0
	if f.TargetAmount > 0 {
		percent = f.CurrentAmount / f.TargetAmount * 100
	}
	return Progress{
		FundID:        f.ID,
		Name:          f.Name,
		Status:        f.Status,
		TargetAmount:  f.TargetAmount,
		CurrentAmount: f.CurrentAmount,
		Remaining:     remaining,
		Percent:       percent,
	}
}
