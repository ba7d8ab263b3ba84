// Package receipt describes the donation receipts archived after settlement.
package receipt

import (
	"context"
	"time"

	"github.com/amirasaad/donation/pkg/domain/events"
	"github.com/google/uuid"
)

// Receipt is the archived proof of a settled donation.
type Receipt struct {
	TransactionID string    `json:"transactionId"`
	DonationID    uuid.UUID `json:"donationId"`
	PaymentID     uuid.UUID `json:"paymentId"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"paymentMethod"`
	Purpose       string    `json:"purpose"`
	DonorName     string    `json:"donorName"`
	DonorEmail    string    `json:"donorEmail,omitempty"`
	FundID        uuid.UUID `json:"fundId"`
	FundName      string    `json:"fundName"`
	SettledAt     time.Time `json:"settledAt"`
}

// Archiver stores receipts and returns where each one was written.
type Archiver interface {
	Archive(ctx context.Context, r *Receipt) (string, error)
}

// FromSettled builds the receipt of a settled donation.
func FromSettled(e *events.DonationSettled) *Receipt {
	return &Receipt{
		TransactionID: e.TransactionID,
		DonationID:    e.DonationID,
		PaymentID:     e.PaymentID,
		Amount:        e.Amount,
		PaymentMethod: e.PaymentMethod,
		Purpose:       e.Purpose,
		DonorName:     e.DonorName,
		DonorEmail:    e.DonorEmail,
		FundID:        e.FundID,
		FundName:      e.FundName,
		SettledAt:     e.SettledAt,
	}
}
