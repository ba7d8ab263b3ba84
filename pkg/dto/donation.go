package dto

import "github.com/google/uuid"

// DonationFilter narrows a donation listing.
type DonationFilter struct {
	FundID   *uuid.UUID
	Purpose  string
	Page     int
	PageSize int
}

// Normalize clamps paging to sane bounds.
func (f DonationFilter) Normalize() DonationFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}
	return f
}

// Offset returns the number of rows to skip for the current page.
func (f DonationFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}
