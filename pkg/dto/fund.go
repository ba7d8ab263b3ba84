package dto

import "time"

// FundCreate represents the data needed to open a new fund.
type FundCreate struct {
	Name         string     `json:"name" validate:"required,max=200"`
	Description  string     `json:"description" validate:"max=2000"`
	TargetAmount float64    `json:"targetAmount" validate:"required,gt=0"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      *time.Time `json:"endDate,omitempty"`
}

// FundUpdate whitelists the fields an administrator may change. Amount and
// status are owned by settlement and activation.
type FundUpdate struct {
	Name         *string    `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description  *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	TargetAmount *float64   `json:"targetAmount,omitempty" validate:"omitempty,gt=0"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	EndDate      *time.Time `json:"endDate,omitempty"`
}

// Empty reports whether the update carries no field.
func (u FundUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.TargetAmount == nil &&
		u.StartDate == nil && u.EndDate == nil
}
